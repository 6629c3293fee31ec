package chat

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aninka/chatd/internal/auth"
	"github.com/aninka/chatd/internal/provider"
	"github.com/aninka/chatd/internal/shop"
)

// stubChain records the sanitized messages handed to it.
type stubChain struct {
	result provider.Result
	err    error
	got    []provider.Message
}

func (s *stubChain) Complete(ctx context.Context, messages []provider.Message) (provider.Result, error) {
	s.got = messages
	return s.result, s.err
}

// panicChain simulates an unexpected fault inside dispatch.
type panicChain struct{}

func (panicChain) Complete(ctx context.Context, messages []provider.Message) (provider.Result, error) {
	panic("boom")
}

// countingShop serves all four domain endpoints and counts hits per path.
func countingShop(t *testing.T) (*shop.Client, func(path string) int) {
	t.Helper()
	var mu sync.Mutex
	hits := map[string]int{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		switch r.URL.Path {
		case "/api/products-catalog":
			w.Write([]byte(`[{"name":"Gamis Aura","price":120000,"sizes":[{"size_id":"M","qty_available":2}]}]`))
		case "/api/faqs/answer":
			w.Write([]byte(`{"answer":"Retur bisa dalam 7 hari."}`))
		case "/api/orders/status":
			w.Write([]byte(`{"order_number":"AB1234","status":"9","items":[{"name":"Gamis Aura","quantity":1}],"total":120000}`))
		case "/api/orders/summary":
			w.Write([]byte(`{"awb":"JX9876543210","status":"in_transit","courier":"JNE"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return shop.New(srv.URL), func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return hits[path]
	}
}

func testResolver() *auth.Resolver {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	return auth.NewResolver("base64:"+key, "aninka_session")
}

func TestGenerateReply_NoUserMessage(t *testing.T) {
	shopClient, hits := countingShop(t)
	chain := &stubChain{result: provider.Result{Provider: "groq", Message: "Halo!"}}
	o := NewOrchestrator(chain, shopClient, testResolver())

	transcript := []Message{{Role: "assistant", Content: "Ada yang bisa dibantu?"}}
	reply := o.GenerateReply(context.Background(), transcript, "", "", nil)

	if reply.Provider != "groq" || reply.Message != "Halo!" {
		t.Errorf("reply = %+v", reply)
	}
	if len(reply.Products) != 0 || reply.OrderInfo != nil || reply.TrackingInfo != nil || reply.FAQInfo != nil {
		t.Errorf("no enrichment expected, got %+v", reply)
	}
	for _, path := range []string{"/api/products-catalog", "/api/faqs/answer", "/api/orders/status", "/api/orders/summary"} {
		if hits(path) != 0 {
			t.Errorf("fetcher %s was invoked without a user message", path)
		}
	}
	// Only the system prompt and the assistant turn go to the provider.
	if len(chain.got) != 2 || chain.got[0].Role != "system" {
		t.Errorf("sanitized messages = %+v", chain.got)
	}
}

func TestGenerateReply_ProductEnrichment(t *testing.T) {
	shopClient, hits := countingShop(t)
	chain := &stubChain{result: provider.Result{Provider: "ollama", Message: "Ini rekomendasinya"}}
	o := NewOrchestrator(chain, shopClient, testResolver())

	transcript := []Message{{Role: "user", Content: "ada gamis untuk lebaran?"}}
	reply := o.GenerateReply(context.Background(), transcript, "", "", nil)

	if hits("/api/products-catalog") != 1 {
		t.Fatalf("catalog hits = %d, want 1", hits("/api/products-catalog"))
	}
	if len(reply.Products) != 1 || reply.Products[0].Name != "Gamis Aura" {
		t.Errorf("products = %+v", reply.Products)
	}

	last := chain.got[len(chain.got)-1]
	if last.Role != "system" || !strings.Contains(last.Content, "Katalog terkait:") {
		t.Errorf("last message = %+v, want catalog context", last)
	}
	if !strings.Contains(last.Content, "Gamis Aura (Harga: Rp120,000)") {
		t.Errorf("catalog context missing product line: %q", last.Content)
	}
	if !strings.Contains(last.Content, "Ukuran: M(2)") {
		t.Errorf("catalog context missing sizes: %q", last.Content)
	}
}

func TestGenerateReply_InjectionOrder(t *testing.T) {
	shopClient, _ := countingShop(t)
	chain := &stubChain{result: provider.Result{Provider: "groq", Message: "ok"}}
	o := NewOrchestrator(chain, shopClient, testResolver())

	text := "ringkasan pesanan bulan ini, status order id: AB1234, resi JX9876543210, bagaimana cara retur gamis?"
	reply := o.GenerateReply(context.Background(), []Message{{Role: "user", Content: text}}, "", "", nil)

	if reply.FAQInfo == nil || reply.TrackingInfo == nil || reply.OrderInfo == nil || len(reply.Products) == 0 {
		t.Fatalf("want all four enrichments, got %+v", reply)
	}

	// system prompt, user turn, then FAQ -> tracking -> order -> catalog.
	if len(chain.got) != 6 {
		t.Fatalf("sanitized messages = %d, want 6", len(chain.got))
	}
	prefixes := []string{"Informasi FAQ:", "Informasi tracking:", "Informasi order:", "Gunakan konteks katalog"}
	for i, prefix := range prefixes {
		msg := chain.got[2+i]
		if msg.Role != "system" || !strings.HasPrefix(msg.Content, prefix) {
			t.Errorf("message %d = %+v, want prefix %q", 2+i, msg, prefix)
		}
	}
}

func TestGenerateReply_TranscriptNotMutated(t *testing.T) {
	shopClient, _ := countingShop(t)
	chain := &stubChain{result: provider.Result{Provider: "groq", Message: "ok"}}
	o := NewOrchestrator(chain, shopClient, testResolver())

	transcript := []Message{
		{Role: "user", Content: "ada gamis?"},
	}
	o.GenerateReply(context.Background(), transcript, "", "", nil)

	if len(transcript) != 1 || transcript[0].Content != "ada gamis?" {
		t.Errorf("caller transcript was mutated: %+v", transcript)
	}
}

func TestGenerateReply_ChainExhausted(t *testing.T) {
	shopClient, _ := countingShop(t)
	chain := &stubChain{err: provider.ErrExhausted}
	o := NewOrchestrator(chain, shopClient, testResolver())

	reply := o.GenerateReply(context.Background(), []Message{{Role: "user", Content: "ada gamis?"}}, "", "", nil)

	if reply.Provider != "none" {
		t.Errorf("provider = %q, want none", reply.Provider)
	}
	if reply.Message != FallbackMessage {
		t.Errorf("message = %q, want fallback", reply.Message)
	}
	// Enrichment gathered before the failure is preserved.
	if len(reply.Products) != 1 {
		t.Errorf("products = %+v, want the fetched product", reply.Products)
	}
}

func TestGenerateReply_PanicRecovered(t *testing.T) {
	shopClient, _ := countingShop(t)
	o := NewOrchestrator(panicChain{}, shopClient, testResolver())

	reply := o.GenerateReply(context.Background(), []Message{{Role: "user", Content: "halo gamis"}}, "", "", nil)
	if reply.Provider != "none" || reply.Message != FallbackMessage {
		t.Errorf("reply after panic = %+v, want fallback", reply)
	}
}

func TestGenerateReply_BearerForwarded(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	chain := &stubChain{result: provider.Result{Provider: "groq", Message: "ok"}}
	o := NewOrchestrator(chain, shop.New(srv.URL), testResolver())

	o.GenerateReply(context.Background(), []Message{{Role: "user", Content: "ada gamis?"}},
		"Bearer 42|token", "", nil)

	if gotAuth != "Bearer 42|token" {
		t.Errorf("Authorization = %q, want resolved bearer", gotAuth)
	}
}

func TestGenerateReply_FetchFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	chain := &stubChain{result: provider.Result{Provider: "groq", Message: "Halo!"}}
	o := NewOrchestrator(chain, shop.New(srv.URL), testResolver())

	reply := o.GenerateReply(context.Background(), []Message{{Role: "user", Content: "ada gamis?"}}, "", "", nil)

	if reply.Provider != "groq" || reply.Message != "Halo!" {
		t.Errorf("reply = %+v, want provider answer despite fetch failure", reply)
	}
	if len(reply.Products) != 0 {
		t.Errorf("products = %+v, want empty", reply.Products)
	}
}

func TestGenerateReply_ProductsAlwaysAnArray(t *testing.T) {
	shopClient, _ := countingShop(t)

	// No catalog fetch fires, and the exhausted chain takes the fallback
	// path; both replies must still serialize products as [].
	replies := []Reply{}
	for _, chain := range []Completer{
		&stubChain{result: provider.Result{Provider: "groq", Message: "Halo!"}},
		&stubChain{err: provider.ErrExhausted},
	} {
		o := NewOrchestrator(chain, shopClient, testResolver())
		replies = append(replies, o.GenerateReply(context.Background(),
			[]Message{{Role: "user", Content: "halo kak"}}, "", "", nil))
	}

	for _, reply := range replies {
		if reply.Products == nil {
			t.Errorf("reply %q has nil products", reply.Provider)
		}
		b, err := json.Marshal(reply)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(b), `"products":[]`) {
			t.Errorf("reply JSON = %s, want products as an empty array", b)
		}
	}
}
