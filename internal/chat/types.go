package chat

import (
	"github.com/aninka/chatd/internal/format"
	"github.com/aninka/chatd/internal/shop"
)

// Message is one turn of the inbound transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FAQInfo is the structured FAQ enrichment returned to the caller.
type FAQInfo struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Reply is the sole output of one orchestration run.
type Reply struct {
	Provider     string               `json:"provider"`
	Message      string               `json:"message"`
	Products     []shop.Product       `json:"products"`
	OrderInfo    *format.OrderInfo    `json:"orderInfo,omitempty"`
	TrackingInfo *format.TrackingInfo `json:"trackingInfo,omitempty"`
	FAQInfo      *FAQInfo             `json:"faqInfo,omitempty"`
}
