package intent

import "regexp"

// Order numbers are letter/digit codes; explicit "order #X" forms are tried
// before the generic code shape, with a bare digit run as last resort.
var orderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)order\s*(?:id|number|no)?\s*[#:]?\s*([A-Z0-9]{6,12})`),
	regexp.MustCompile(`(?i)(?:order|pesanan)\s*[#:]?\s*([A-Z0-9]{6,12})`),
	regexp.MustCompile(`(?i)([A-Z]{2,4}\d{6,10})`),
	regexp.MustCompile(`(\d{6,12})`),
}

var trackingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)resi\s*[#:]?\s*([A-Z0-9]{10,20})`),
	regexp.MustCompile(`(?i)tracking\s*[#:]?\s*([A-Z0-9]{10,20})`),
	regexp.MustCompile(`(?i)awb\s*[#:]?\s*([A-Z0-9]{10,20})`),
	regexp.MustCompile(`(?i)([A-Z]{2,4}\d{8,12})`),
	regexp.MustCompile(`(\d{10,20})`),
}

func firstMatch(text string, patterns []*regexp.Regexp) string {
	if text == "" {
		return ""
	}
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractOrderNumber pulls an order identifier out of free text.
// Returns "" when no plausible identifier is present.
func ExtractOrderNumber(text string) string {
	return firstMatch(text, orderPatterns)
}

// ExtractTrackingNumber pulls an airway-bill or tracking identifier out of
// free text. Returns "" when no plausible identifier is present.
func ExtractTrackingNumber(text string) string {
	return firstMatch(text, trackingPatterns)
}
