package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aninka/chatd/internal/format"
	"github.com/aninka/chatd/internal/shop"
)

// MCPDeps holds the dependencies for the MCP tool surface.
type MCPDeps struct {
	Shop *shop.Client
}

// NewMCPServer exposes the storefront lookups as MCP tools so agent clients
// can ground their own answers in the same live domain data the chat
// pipeline uses. Calls are unauthenticated; the tools only reach endpoints
// that serve public storefront data.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"chatd",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("chatd — storefront lookups for Aninka Fashion: catalog, FAQ, order status, and shipment tracking."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("search_catalog",
			mcp.WithDescription("Search the product catalog and return normalized product records."),
			mcp.WithString("query", mcp.Description("Free-text product query"), mcp.Required()),
		),
		mcpSearchCatalog(deps),
	)

	s.AddTool(
		mcp.NewTool("faq_answer",
			mcp.WithDescription("Answer a storefront FAQ question (returns, sizing, payment, shipping)."),
			mcp.WithString("query", mcp.Description("The customer's question"), mcp.Required()),
		),
		mcpFAQAnswer(deps),
	)

	s.AddTool(
		mcp.NewTool("order_status",
			mcp.WithDescription("Look up one order by its number and return the formatted status block."),
			mcp.WithString("order_number", mcp.Description("Order identifier, e.g. AB1234"), mcp.Required()),
		),
		mcpOrderStatus(deps),
	)

	s.AddTool(
		mcp.NewTool("order_summary",
			mcp.WithDescription("Summarize recent orders or track a single shipment by AWB."),
			mcp.WithString("query", mcp.Description("Tracking number or summary query"), mcp.Required()),
		),
		mcpOrderSummary(deps),
	)

	return s
}

func mcpSearchCatalog(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		products, err := deps.Shop.SearchCatalog(ctx, query, "")
		if err != nil {
			return mcpError(fmt.Sprintf("catalog search failed: %v", err)), nil
		}

		b, err := json.Marshal(products)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal products: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpFAQAnswer(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		answers, err := deps.Shop.AnswerFAQ(ctx, query, "")
		if err != nil {
			return mcpError(fmt.Sprintf("faq lookup failed: %v", err)), nil
		}
		if len(answers) == 0 {
			return mcpText("No FAQ answer found."), nil
		}
		return mcpText(answers[0]), nil
	}
}

func mcpOrderStatus(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderNumber, err := req.RequireString("order_number")
		if err != nil {
			return mcpError("order_number is required"), nil
		}

		order, err := deps.Shop.OrderStatus(ctx, orderNumber, "")
		if err != nil {
			return mcpError(fmt.Sprintf("order lookup failed: %v", err)), nil
		}

		info := format.OrderStatus(order)
		if info == nil {
			return mcpText("Order not found."), nil
		}
		return mcpText(info.FullText), nil
	}
}

func mcpOrderSummary(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		payload, err := deps.Shop.OrderSummary(ctx, query, "")
		if err != nil {
			return mcpError(fmt.Sprintf("summary lookup failed: %v", err)), nil
		}

		info := format.Tracking(payload)
		if info == nil {
			return mcpText("No tracking information found."), nil
		}
		return mcpText(info.FullText), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
