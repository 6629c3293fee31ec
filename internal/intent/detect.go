// Package intent contains the keyword detectors and identifier extractors
// used to decide which enrichment sources a user message should trigger.
// Detection is deliberately deterministic: a lowercased substring match
// against fixed vocabularies, no model calls.
package intent

import "strings"

var productKeywords = []string{
	"gamis", "daster", "daster kulit", "dress", "abaya", "hijab", "kerudung",
	"setelan", "atasan", "bawahan", "kemeja", "blouse", "rok", "jilbab",
	"pashmina", "outer", "cardigan",
}

var faqKeywords = []string{
	"cara", "bagaimana", "apakah", "dimana", "belanja", "pembayaran",
	"retur", "tukar", "ukuran", "size", "material", "warna", "color", "bahan",
}

var orderKeywords = []string{
	"order", "pesanan", "tracking", "lacak", "status", "resi", "no resi",
	"kirim", "terima", "diterima", "proses", "dalam proses", "selesai",
	"belum bayar", "bayar", "pembayaran", "paid", "dibayar", "sudah bayar",
	"order id", "order number", "nomor pesanan", "invoice", "faktur",
}

var trackingKeywords = []string{
	"bulan ini", "bulan lalu", "minggu ini", "hari ini", "summary",
	"ringkasan", "semua", "all",
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	normalized := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(normalized, k) {
			return true
		}
	}
	return false
}

// DetectProduct reports whether the text mentions the product vocabulary.
func DetectProduct(text string) bool { return containsAny(text, productKeywords) }

// DetectFAQ reports whether the text looks like a how-to or policy question.
func DetectFAQ(text string) bool { return containsAny(text, faqKeywords) }

// DetectOrder reports whether the text asks about an order or its payment.
func DetectOrder(text string) bool { return containsAny(text, orderKeywords) }

// DetectTracking reports whether the text asks for a shipment or order
// summary over a time range.
func DetectTracking(text string) bool { return containsAny(text, trackingKeywords) }
