package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aninka/chatd/internal/chat"
)

// mockChat records the arguments of the last GenerateReply call.
type mockChat struct {
	reply      chat.Reply
	transcript []chat.Message
	authHeader string
	bodyToken  string
	cookies    map[string]string
}

func (m *mockChat) GenerateReply(ctx context.Context, transcript []chat.Message, authHeader, bodyToken string, cookies map[string]string) chat.Reply {
	m.transcript = transcript
	m.authHeader = authHeader
	m.bodyToken = bodyToken
	m.cookies = cookies
	return m.reply
}

func newTestHandler(m *mockChat) http.Handler {
	return NewHandler(Deps{Chat: m, CookieDomain: ".aninkafashion.com"})
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&mockChat{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status=ok", body)
	}
}

func TestChat_HappyPath(t *testing.T) {
	m := &mockChat{reply: chat.Reply{Provider: "groq", Message: "Halo kak!"}}
	h := newTestHandler(m)

	body := `{"messages":[{"role":"user","content":"ada gamis?"}],"authCookie":"9|tok"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer abc")
	req.AddCookie(&http.Cookie{Name: "aninka_session", Value: "enc"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var reply chat.Reply
	if err := json.NewDecoder(rr.Body).Decode(&reply); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	if reply.Provider != "groq" || reply.Message != "Halo kak!" {
		t.Errorf("reply = %+v", reply)
	}

	if len(m.transcript) != 1 || m.transcript[0].Content != "ada gamis?" {
		t.Errorf("transcript = %+v", m.transcript)
	}
	if m.authHeader != "Bearer abc" {
		t.Errorf("authHeader = %q", m.authHeader)
	}
	if m.bodyToken != "9|tok" {
		t.Errorf("bodyToken = %q", m.bodyToken)
	}
	if m.cookies["aninka_session"] != "enc" {
		t.Errorf("cookies = %v", m.cookies)
	}
}

func TestChat_MalformedMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing messages", `{}`},
		{"messages null", `{"messages":null}`},
		{"messages string", `{"messages":"hello"}`},
		{"messages array of scalars", `{"messages":["hello"]}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockChat{})
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body)))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestChat_EmptyTranscriptAccepted(t *testing.T) {
	m := &mockChat{reply: chat.Reply{Provider: "groq", Message: "Halo!"}}
	h := newTestHandler(m)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"messages":[]}`)))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for empty array", rr.Code)
	}
}

func TestChat_FallbackReplyStays200(t *testing.T) {
	m := &mockChat{reply: chat.Reply{Provider: "none", Message: chat.FallbackMessage}}
	h := newTestHandler(m)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"halo"}]}`)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even for fallback replies", rr.Code)
	}
	var reply chat.Reply
	json.NewDecoder(rr.Body).Decode(&reply)
	if reply.Provider != "none" {
		t.Errorf("provider = %q, want none", reply.Provider)
	}
}

func TestSetCookie(t *testing.T) {
	h := newTestHandler(&mockChat{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/set-cookie",
		strings.NewReader(`{"token":"42|secret"}`)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != defaultTokenCookie || c.Value != "42|secret" {
		t.Errorf("cookie = %+v", c)
	}
	if !c.HttpOnly || !c.Secure {
		t.Errorf("cookie must be HttpOnly and Secure: %+v", c)
	}
	if c.Domain != "aninkafashion.com" && c.Domain != ".aninkafashion.com" {
		t.Errorf("cookie domain = %q", c.Domain)
	}
}

func TestSetCookie_MissingToken(t *testing.T) {
	h := newTestHandler(&mockChat{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/set-cookie", strings.NewReader(`{}`)))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
