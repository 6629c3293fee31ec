// Package format turns raw domain payloads into the user-facing Indonesian
// text blocks injected into the prompt and returned to the caller. All
// functions are pure; nil input yields nil output.
package format

import (
	"fmt"
	"strings"

	"github.com/aninka/chatd/internal/shop"
)

// orderStatusText maps the domain API's order status taxonomy (numeric codes
// and legacy tokens) to the phrase shown to customers.
var orderStatusText = map[string]string{
	"1":                   "Menunggu pembayaran",
	"2":                   "Menunggu pembayaran",
	"menunggu":            "Menunggu pembayaran",
	"menunggu_pembayaran": "Menunggu pembayaran",
	"3":                   "Menunggu konfirmasi",
	"menunggu_konfirmasi": "Menunggu konfirmasi",
	"4":                   "Sedang diproses",
	"processing":          "Sedang diproses",
	"diproses":            "Sedang diproses",
	"on_progress":         "Sedang diproses",
	"5":                   "Sudah dikemas",
	"packed":              "Sudah dikemas",
	"6":                   "Pesanan selesai",
	"delivered":           "Pesanan selesai",
	"diterima":            "Pesanan selesai",
	"done":                "Pesanan selesai",
	"7":                   "Pesanan dibatalkan",
	"cancelled":           "Pesanan dibatalkan",
	"dibatalkan":          "Pesanan dibatalkan",
	"cancel":              "Pesanan dibatalkan",
	"8":                   "Konfirmasi pembatalan",
	"confirm_cancel":      "Konfirmasi pembatalan",
	"9":                   "Pesanan dikirim",
	"shipped":             "Pesanan dikirim",
	"dikirim":             "Pesanan dikirim",
	"10":                  "Pesanan disetujui",
	"approved":            "Pesanan disetujui",
	"11":                  "Pesanan ditolak",
	"rejected":            "Pesanan ditolak",
	"paid":                "Pembayaran diterima",
	"dibayar":             "Pembayaran diterima",
}

// OrderInfo is the formatted order-status block. FullText is the exact
// multi-line string injected into the prompt.
type OrderInfo struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Items       string `json:"items"`
	Total       string `json:"total"`
	Tracking    string `json:"tracking"`
	FullText    string `json:"fullText"`
}

// OrderStatus renders an order into its customer-facing block.
// Returns nil when order is nil.
func OrderStatus(order *shop.Order) *OrderInfo {
	if order == nil {
		return nil
	}

	status, ok := orderStatusText[strings.ToLower(order.Status)]
	if !ok {
		status = fmt.Sprintf("Status: %s", order.Status)
	}

	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%s (%d pcs)", item.Name, item.Quantity))
	}
	items := strings.Join(lines, ", ")

	tracking := ""
	if order.TrackingNumber != "" {
		tracking = "\nResi: " + order.TrackingNumber
	}

	total := "Rp" + Rupiah(order.Total)
	return &OrderInfo{
		OrderNumber: order.OrderNumber,
		Status:      status,
		Items:       items,
		Total:       total,
		Tracking:    tracking,
		FullText: fmt.Sprintf("Order #%s\n%s\nItems: %s\nTotal: %s%s",
			order.OrderNumber, status, items, total, tracking),
	}
}

// Rupiah renders an amount with thousands separators, e.g. 250000 -> "250,000".
// Fractions are dropped; the catalog prices whole rupiah only.
func Rupiah(amount float64) string {
	n := int64(amount)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var sb strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	return sign + sb.String()
}
