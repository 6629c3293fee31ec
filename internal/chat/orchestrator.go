// Package chat composes credential resolution, intent detection, domain
// enrichment, and the provider chain into a single reply pipeline.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aninka/chatd/internal/auth"
	"github.com/aninka/chatd/internal/format"
	"github.com/aninka/chatd/internal/intent"
	"github.com/aninka/chatd/internal/provider"
	"github.com/aninka/chatd/internal/shop"
)

// Completer dispatches a sanitized message list to a completion backend.
type Completer interface {
	Complete(ctx context.Context, messages []provider.Message) (provider.Result, error)
}

// Orchestrator runs the full reply pipeline for one request at a time.
// All fields are read-only after construction; concurrent requests share
// nothing mutable.
type Orchestrator struct {
	chain    Completer
	shop     *shop.Client
	resolver *auth.Resolver
}

// NewOrchestrator wires the pipeline components together.
func NewOrchestrator(chain Completer, shopClient *shop.Client, resolver *auth.Resolver) *Orchestrator {
	return &Orchestrator{chain: chain, shop: shopClient, resolver: resolver}
}

// enrichments collects the fetch results for one request. Fetches may run
// concurrently; injection into the transcript follows a fixed order.
type enrichments struct {
	faq      *FAQInfo
	tracking *format.TrackingInfo
	order    *format.OrderInfo
	products []shop.Product
}

// GenerateReply runs the pipeline: system prompt, credential resolution,
// intent detection on the latest user turn, conditional enrichment, provider
// dispatch. It never returns an error; every failure degrades to the
// canonical fallback Reply.
func (o *Orchestrator) GenerateReply(ctx context.Context, transcript []Message, authHeader, bodyToken string, cookies map[string]string) (reply Reply) {
	var enr enrichments
	defer func() {
		if r := recover(); r != nil {
			slog.Error("chat pipeline panic", "panic", r)
			reply = fallbackReply(enr)
		}
	}()

	// The caller's transcript is never mutated; enrichment appends to a
	// derived copy.
	full := make([]Message, 0, len(transcript)+5)
	full = append(full, Message{Role: "system", Content: systemPrompt})
	full = append(full, transcript...)

	if userText, ok := lastUserMessage(transcript); ok {
		bearer := o.resolver.Resolve(authHeader, bodyToken, cookies)
		enr = o.enrich(ctx, userText, bearer)
		full = append(full, enr.contextMessages()...)
	}

	sanitized := make([]provider.Message, len(full))
	for i, m := range full {
		sanitized[i] = provider.Message{Role: m.Role, Content: m.Content}
	}

	result, err := o.chain.Complete(ctx, sanitized)
	if err != nil {
		slog.Warn("chat: provider chain exhausted", "error", err)
		return fallbackReply(enr)
	}

	return Reply{
		Provider:     result.Provider,
		Message:      result.Message,
		Products:     nonNilProducts(enr.products),
		OrderInfo:    enr.order,
		TrackingInfo: enr.tracking,
		FAQInfo:      enr.faq,
	}
}

// nonNilProducts keeps the wire shape of the products field an array even
// when no catalog fetch ran.
func nonNilProducts(products []shop.Product) []shop.Product {
	if products == nil {
		return []shop.Product{}
	}
	return products
}

// enrich runs every fired classifier's fetch. Fetches are independent and
// run concurrently; each one swallows its own failure so a broken backend
// never costs more than its own enrichment.
func (o *Orchestrator) enrich(ctx context.Context, userText, bearer string) enrichments {
	var enr enrichments
	g, gCtx := errgroup.WithContext(ctx)

	if intent.DetectFAQ(userText) {
		g.Go(func() error {
			answers, err := o.shop.AnswerFAQ(gCtx, userText, bearer)
			if err != nil {
				slog.Warn("chat: faq fetch failed", "error", err)
				return nil
			}
			if len(answers) > 0 {
				enr.faq = &FAQInfo{Title: "FAQ", Content: answers[0]}
			}
			return nil
		})
	}

	if intent.DetectTracking(userText) {
		if trackingNumber := intent.ExtractTrackingNumber(userText); trackingNumber != "" {
			g.Go(func() error {
				payload, err := o.shop.OrderSummary(gCtx, trackingNumber, bearer)
				if err != nil {
					slog.Warn("chat: tracking fetch failed", "error", err)
					return nil
				}
				enr.tracking = format.Tracking(payload)
				return nil
			})
		}
	}

	if intent.DetectOrder(userText) {
		if orderNumber := intent.ExtractOrderNumber(userText); orderNumber != "" {
			g.Go(func() error {
				order, err := o.shop.OrderStatus(gCtx, orderNumber, bearer)
				if err != nil {
					slog.Warn("chat: order fetch failed", "error", err)
					return nil
				}
				enr.order = format.OrderStatus(order)
				return nil
			})
		}
	}

	if intent.DetectProduct(userText) {
		g.Go(func() error {
			products, err := o.shop.SearchCatalog(gCtx, userText, bearer)
			if err != nil {
				slog.Warn("chat: catalog fetch failed", "error", err)
				return nil
			}
			enr.products = products
			return nil
		})
	}

	g.Wait()
	return enr
}

// contextMessages renders the grounding system messages in the fixed
// injection order: FAQ, tracking, order, catalog.
func (e enrichments) contextMessages() []Message {
	var msgs []Message
	if e.faq != nil {
		msgs = append(msgs, Message{Role: "system", Content: "Informasi FAQ: " + e.faq.Content})
	}
	if e.tracking != nil {
		msgs = append(msgs, Message{Role: "system", Content: "Informasi tracking: " + e.tracking.FullText})
	}
	if e.order != nil {
		msgs = append(msgs, Message{Role: "system", Content: "Informasi order: " + e.order.FullText})
	}
	if len(e.products) > 0 {
		msgs = append(msgs, Message{Role: "system", Content: "Gunakan konteks katalog berikut saat menjawab: " + catalogContext(e.products)})
	}
	return msgs
}

// catalogContext renders the product list into the grounding block, one line
// per product with price, color, and size availability.
func catalogContext(products []shop.Product) string {
	var sb strings.Builder
	sb.WriteString("Katalog terkait:\n")
	for i, p := range products {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- " + p.Name)
		if p.HasPrice {
			fmt.Fprintf(&sb, " (Harga: Rp%s)", format.Rupiah(p.Price))
		}
		if p.Color != "" {
			sb.WriteString(" | Warna: " + p.Color)
		}
		if len(p.Sizes) > 0 {
			labels := make([]string, len(p.Sizes))
			for j, s := range p.Sizes {
				labels[j] = s.Label
				if s.QtyAvailable > 0 {
					labels[j] = fmt.Sprintf("%s(%d)", s.Label, s.QtyAvailable)
				}
			}
			sb.WriteString(" | Ukuran: " + strings.Join(labels, ", "))
		}
	}
	return sb.String()
}

// lastUserMessage returns the content of the most recent user turn.
func lastUserMessage(transcript []Message) (string, bool) {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == "user" {
			return transcript[i].Content, true
		}
	}
	return "", false
}

func fallbackReply(enr enrichments) Reply {
	return Reply{
		Provider:     "none",
		Message:      FallbackMessage,
		Products:     nonNilProducts(enr.products),
		OrderInfo:    enr.order,
		TrackingInfo: enr.tracking,
		FAQInfo:      enr.faq,
	}
}
