package shop

import (
	"context"
	"encoding/json"
	"strings"
)

// flexString decodes a JSON value that may arrive as a string or a number.
// Status codes and order identifiers come in both forms from the domain API.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = flexString(strings.Trim(string(data), `"`))
	return nil
}

// Order is the normalized order-status payload.
type Order struct {
	OrderNumber    string
	Status         string
	Items          []OrderItem
	Total          float64
	TrackingNumber string
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name     string
	Quantity int
}

type rawOrder struct {
	Status      flexString `json:"status"`
	OrderStatus flexString `json:"order_status"`
	OrderNumber flexString `json:"order_number"`
	OrderID     flexString `json:"order_id"`
	ID          flexString `json:"id"`
	Items       []rawItem  `json:"items"`
	OrderItems  []rawItem  `json:"order_items"`
	Total       *float64   `json:"total"`
	TotalAmount *float64   `json:"total_amount"`
	Shipping    rawShip    `json:"shipping"`
	ShipInfo    rawShip    `json:"shipping_info"`
}

type rawItem struct {
	ProductName string `json:"product_name"`
	Name        string `json:"name"`
	Quantity    *int   `json:"quantity"`
}

type rawShip struct {
	TrackingNumber string `json:"tracking_number"`
}

// OrderStatus looks up one order by its number. A nil Order with nil error
// never happens; fetch failures surface as errors for the caller to log.
func (c *Client) OrderStatus(ctx context.Context, orderNumber, bearer string) (*Order, error) {
	var raw rawOrder
	if err := c.getJSON(ctx, "/api/orders/status", orderNumber, bearer, &raw); err != nil {
		return nil, err
	}

	order := &Order{
		OrderNumber:    firstNonEmpty(string(raw.OrderNumber), string(raw.OrderID), string(raw.ID)),
		Status:         firstNonEmpty(string(raw.Status), string(raw.OrderStatus), "unknown"),
		TrackingNumber: firstNonEmpty(raw.ShipInfo.TrackingNumber, raw.Shipping.TrackingNumber),
	}
	if v := firstNonNil(raw.Total, raw.TotalAmount); v != nil {
		order.Total = *v
	}

	items := raw.Items
	if items == nil {
		items = raw.OrderItems
	}
	for _, it := range items {
		item := OrderItem{Name: firstNonEmpty(it.ProductName, it.Name), Quantity: 1}
		if it.Quantity != nil {
			item.Quantity = *it.Quantity
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

// TrackingPayload is the normalized result of the orders/summary endpoint,
// which answers in one of two shapes: an aggregate order summary, or a
// single-shipment tracking record. Exactly one branch is populated.
type TrackingPayload struct {
	Summary  *Summary
	Shipment *Shipment
}

// Summary aggregates a customer's recent orders.
type Summary struct {
	TotalOrders     int
	TotalAmount     float64
	PendingOrders   int
	CompletedOrders int
	Orders          []SummaryOrder
}

// SummaryOrder is one order line within a Summary.
type SummaryOrder struct {
	OrderNumber string
	Status      string
	Total       float64
}

// Shipment is a single-package tracking record.
type Shipment struct {
	TrackingNumber string
	Status         string
	Courier        string
	History        []HistoryEntry
}

// HistoryEntry is one tracking checkpoint.
type HistoryEntry struct {
	Timestamp   string
	Description string
}

type rawSummaryOrder struct {
	OrderNumber flexString `json:"order_number"`
	ID          flexString `json:"id"`
	Status      flexString `json:"status"`
	Total       *float64   `json:"total"`
	TotalAmount *float64   `json:"total_amount"`
}

type rawHistory struct {
	Timestamp   string `json:"timestamp"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type rawTracking struct {
	Summary *struct {
		TotalOrders     int     `json:"total_orders"`
		TotalAmount     float64 `json:"total_amount"`
		PendingOrders   int     `json:"pending_orders"`
		CompletedOrders int     `json:"completed_orders"`
	} `json:"summary"`
	Orders []rawSummaryOrder `json:"orders"`

	TrackingNumber  flexString   `json:"tracking_number"`
	AWB             flexString   `json:"awb"`
	Resi            flexString   `json:"resi"`
	Status          flexString   `json:"status"`
	CurrentStatus   flexString   `json:"current_status"`
	Courier         string       `json:"courier"`
	ShippingCourier string       `json:"shipping_courier"`
	History         []rawHistory `json:"history"`
	TrackingHistory []rawHistory `json:"tracking_history"`
}

// OrderSummary queries the orders/summary endpoint with a free-text query or
// tracking number and normalizes whichever shape comes back.
func (c *Client) OrderSummary(ctx context.Context, query, bearer string) (*TrackingPayload, error) {
	var raw rawTracking
	if err := c.getJSON(ctx, "/api/orders/summary", query, bearer, &raw); err != nil {
		return nil, err
	}

	if raw.Summary != nil || raw.Orders != nil {
		summary := &Summary{}
		if raw.Summary != nil {
			summary.TotalOrders = raw.Summary.TotalOrders
			summary.TotalAmount = raw.Summary.TotalAmount
			summary.PendingOrders = raw.Summary.PendingOrders
			summary.CompletedOrders = raw.Summary.CompletedOrders
		}
		for _, o := range raw.Orders {
			line := SummaryOrder{
				OrderNumber: firstNonEmpty(string(o.OrderNumber), string(o.ID)),
				Status:      firstNonEmpty(string(o.Status), "unknown"),
			}
			if v := firstNonNil(o.Total, o.TotalAmount); v != nil {
				line.Total = *v
			}
			summary.Orders = append(summary.Orders, line)
		}
		return &TrackingPayload{Summary: summary}, nil
	}

	shipment := &Shipment{
		TrackingNumber: firstNonEmpty(string(raw.TrackingNumber), string(raw.AWB), string(raw.Resi)),
		Status:         firstNonEmpty(string(raw.Status), string(raw.CurrentStatus), "unknown"),
		Courier:        firstNonEmpty(raw.Courier, raw.ShippingCourier, "Unknown"),
	}
	history := raw.History
	if history == nil {
		history = raw.TrackingHistory
	}
	for _, h := range history {
		shipment.History = append(shipment.History, HistoryEntry{
			Timestamp:   firstNonEmpty(h.Timestamp, h.Date),
			Description: firstNonEmpty(h.Description, h.Status),
		})
	}
	return &TrackingPayload{Shipment: shipment}, nil
}
