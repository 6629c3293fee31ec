package format

import (
	"fmt"
	"strings"

	"github.com/aninka/chatd/internal/shop"
)

const maxSummaryOrders = 5
const maxHistoryEntries = 3

var shipmentStatusText = map[string]string{
	"pending":          "Menunggu pickup",
	"picked_up":        "Sudah diambil kurir",
	"in_transit":       "Dalam perjalanan",
	"out_for_delivery": "Sedang diantar",
	"delivered":        "Terkirim",
	"failed":           "Gagal terkirim",
}

// TrackingInfo is the formatted tracking or order-summary block.
type TrackingInfo struct {
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
	Courier        string `json:"courier"`
	History        string `json:"history"`
	FullText       string `json:"fullText"`
}

// Tracking renders an orders/summary payload: an aggregate summary when the
// payload carries one, a single-shipment tracking block otherwise.
// Returns nil when payload is nil.
func Tracking(payload *shop.TrackingPayload) *TrackingInfo {
	if payload == nil {
		return nil
	}
	if payload.Summary != nil {
		return formatSummary(payload.Summary)
	}
	return formatShipment(payload.Shipment)
}

func formatSummary(s *shop.Summary) *TrackingInfo {
	var sb strings.Builder
	sb.WriteString("Ringkasan Pesanan:\n")
	if s.TotalOrders > 0 {
		fmt.Fprintf(&sb, "Total Pesanan: %d\n", s.TotalOrders)
	}
	if s.TotalAmount > 0 {
		fmt.Fprintf(&sb, "Total Nilai: Rp%s\n", Rupiah(s.TotalAmount))
	}
	if s.PendingOrders > 0 {
		fmt.Fprintf(&sb, "Menunggu: %d\n", s.PendingOrders)
	}
	if s.CompletedOrders > 0 {
		fmt.Fprintf(&sb, "Selesai: %d\n", s.CompletedOrders)
	}

	if len(s.Orders) > 0 {
		sb.WriteString("\nPesanan Terbaru:\n")
		orders := s.Orders
		if len(orders) > maxSummaryOrders {
			orders = orders[:maxSummaryOrders]
		}
		for i, o := range orders {
			fmt.Fprintf(&sb, "%d. Order #%s - Rp%s (%s)\n", i+1, o.OrderNumber, Rupiah(o.Total), o.Status)
		}
	}

	return &TrackingInfo{
		TrackingNumber: "Summary",
		Status:         "Ringkasan",
		Courier:        "N/A",
		FullText:       sb.String(),
	}
}

func formatShipment(s *shop.Shipment) *TrackingInfo {
	if s == nil {
		return nil
	}

	status, ok := shipmentStatusText[strings.ToLower(s.Status)]
	if !ok {
		status = fmt.Sprintf("Status: %s", s.Status)
	}

	history := ""
	if len(s.History) > 0 {
		entries := s.History
		if len(entries) > maxHistoryEntries {
			// Last three checkpoints only.
			entries = entries[len(entries)-maxHistoryEntries:]
		}
		var lines []string
		for _, h := range entries {
			lines = append(lines, fmt.Sprintf("• %s: %s", h.Timestamp, h.Description))
		}
		history = "\nRiwayat:\n" + strings.Join(lines, "\n")
	}

	return &TrackingInfo{
		TrackingNumber: s.TrackingNumber,
		Status:         status,
		Courier:        s.Courier,
		History:        history,
		FullText: fmt.Sprintf("Resi: %s\nKurir: %s\nStatus: %s%s",
			s.TrackingNumber, s.Courier, status, history),
	}
}
