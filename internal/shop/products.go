package shop

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

const maxProducts = 6

// Product is the canonical product shape the chat layer works with,
// regardless of which upstream field names the catalog emits.
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price,omitempty"`
	HasPrice bool    `json:"-"`
	Category string  `json:"category"`
	Color    string  `json:"color,omitempty"`
	ImageURL string  `json:"imageUrl"`
	Sizes    []Size  `json:"sizes"`
}

// Size is one purchasable variant of a product.
type Size struct {
	Label        string   `json:"label"`
	QtyAvailable int      `json:"qty_available"`
	Price        *float64 `json:"price"`
}

// rawProduct accepts the heterogeneous field names used by different
// catalog deployments; first non-empty alternative wins.
type rawProduct struct {
	PriceSell   *float64 `json:"price_sell"`
	Price       *float64 `json:"price"`
	Harga       *float64 `json:"harga"`
	ProductName string   `json:"product_name"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	CategoryNm  string   `json:"category_name"`
	Category    string   `json:"category"`
	ProductDesc string   `json:"product_description"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Image       string   `json:"image"`
	ImagePath   string   `json:"image_path"`
	Gallery     []string `json:"gallery_images"`
	Sizes       []struct {
		SizeID    string   `json:"size_id"`
		Variant   string   `json:"variant"`
		QtyAvail  *int     `json:"qty_available"`
		QtyStock  *int     `json:"qty_stock"`
		PriceSell *float64 `json:"price_sell"`
		Price     *float64 `json:"price"`
	} `json:"sizes"`
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

var videoExtensions = []string{".mp4", ".webm", ".mov", ".avi", ".mkv", ".m4v"}

func isVideo(u string) bool {
	lowered := strings.ToLower(u)
	if i := strings.IndexAny(lowered, "?#"); i >= 0 {
		lowered = lowered[:i]
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

// SearchCatalog queries the product catalog and returns up to 6 normalized
// products. An empty slice with nil error means "no relevant products".
func (c *Client) SearchCatalog(ctx context.Context, query, bearer string) ([]Product, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/products-catalog", query, bearer, &raw); err != nil {
		return nil, err
	}

	items := itemsEnvelope(raw)
	products := make([]Product, 0, maxProducts)
	for _, item := range items {
		if len(products) == maxProducts {
			break
		}
		var rp rawProduct
		if err := json.Unmarshal(item, &rp); err != nil {
			continue
		}
		products = append(products, c.normalize(rp))
	}
	return products, nil
}

func (c *Client) normalize(rp rawProduct) Product {
	p := Product{
		Name:     firstNonEmpty(rp.ProductName, rp.Name, rp.Title),
		Category: firstNonEmpty(rp.CategoryNm, rp.Category),
		Color:    firstNonEmpty(rp.ProductDesc, rp.Description),
	}
	if v := firstNonNil(rp.PriceSell, rp.Price, rp.Harga); v != nil {
		p.Price = *v
		p.HasPrice = true
	}

	for _, s := range rp.Sizes {
		size := Size{Label: firstNonEmpty(s.SizeID, s.Variant)}
		if s.QtyAvail != nil {
			size.QtyAvailable = *s.QtyAvail
		} else if s.QtyStock != nil {
			size.QtyAvailable = *s.QtyStock
		}
		size.Price = firstNonNil(s.PriceSell, s.Price)
		p.Sizes = append(p.Sizes, size)
	}

	p.ImageURL = c.resolveImage(firstNonEmpty(rp.ImageURL, rp.Image, rp.ImagePath))
	if isVideo(p.ImageURL) && len(rp.Gallery) > 0 {
		p.ImageURL = c.resolveImage(rp.Gallery[0])
	}
	return p
}

// resolveImage rewrites a relative storage path to an absolute URL on the
// domain API. Absolute URLs and empty paths pass through unchanged.
func (c *Client) resolveImage(path string) string {
	if path == "" || absoluteURL.MatchString(path) {
		return path
	}
	return c.baseURL + "/storage/" + path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
