package models

import (
	"fmt"
	"time"

	"github.com/username/megamart/backend/src/config"
)

// Money is a price value with its currency code (VND on both storefronts).
type Money struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// PriceRange holds the regular and final (after promotion) price of a
// product. The discount amount is derived once at construction.
type PriceRange struct {
	FinalPrice     Money   `json:"final_price"`
	RegularPrice   Money   `json:"regular_price"`
	DiscountAmount float64 `json:"discount_amount"`
}

// NewPriceRange builds a PriceRange and computes the discount.
func NewPriceRange(regular, final Money) PriceRange {
	return PriceRange{
		FinalPrice:     final,
		RegularPrice:   regular,
		DiscountAmount: regular.Value - final.Value,
	}
}

func (pr PriceRange) HasDiscount() bool {
	return pr.DiscountAmount > 0
}

// DiscountPercentage is 0 when the regular price is not positive, to avoid
// division by zero.
func (pr PriceRange) DiscountPercentage() float64 {
	if pr.RegularPrice.Value > 0 {
		return pr.DiscountAmount / pr.RegularPrice.Value * 100
	}
	return 0
}

// Category is a product category as reported by the storefront.
type Category struct {
	UID  string `json:"uid,omitempty"`
	Name string `json:"name"`
}

// StockStatus is the storefront's stock enum. Values other than the two
// known constants are passed through untouched.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// Product is a normalized catalog record from either storefront. SKU is the
// join key for cross-platform comparison and is assumed unique per platform
// per search.
type Product struct {
	ID            int             `json:"id"`
	UID           string          `json:"uid"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	PriceRange    PriceRange      `json:"price_range"`
	StockStatus   StockStatus     `json:"stock_status"`
	URLKey        string          `json:"url_key"`
	ImageURL      string          `json:"image_url,omitempty"`
	Categories    []Category      `json:"categories,omitempty"`
	RatingSummary *float64        `json:"rating_summary,omitempty"`
	Platform      config.Platform `json:"platform"`
	CapturedAt    time.Time       `json:"captured_at"`
}

// URL returns the canonical product page, keyed by the source storefront.
func (p *Product) URL() string {
	switch p.Platform {
	case config.PlatformB2C:
		return fmt.Sprintf("https://online.mmvietnam.com/%s.html", p.URLKey)
	case config.PlatformB2B:
		return fmt.Sprintf("https://mmpro.vn/product/%s.html", p.URLKey)
	}
	return fmt.Sprintf("/%s.html", p.URLKey)
}

// FinalPrice is the price actually charged.
func (p *Product) FinalPrice() float64 {
	return p.PriceRange.FinalPrice.Value
}

func (p *Product) RegularPrice() float64 {
	return p.PriceRange.RegularPrice.Value
}

func (p *Product) InStock() bool {
	return p.StockStatus == StockStatusInStock
}

// SearchResult is one page of search hits in backend relevance order.
type SearchResult struct {
	Products    []Product       `json:"products"`
	TotalCount  int             `json:"total_count"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	Platform    config.Platform `json:"platform"`
}

// PriceComparison relates the retail and wholesale price of one SKU.
type PriceComparison struct {
	ProductID         int     `json:"product_id"`
	SKU               string  `json:"sku"`
	Name              string  `json:"name"`
	B2CPrice          float64 `json:"b2c_price"`
	B2BPrice          float64 `json:"b2b_price"`
	Difference        float64 `json:"difference"`
	SavingsPercentage float64 `json:"savings_percentage"`
	B2CURL            string  `json:"b2c_url"`
	B2BURL            string  `json:"b2b_url"`
}

// NewPriceComparison joins one product from each storefront. Savings stay 0
// when the retail price is not positive; a zero price is not distinguished
// from an unknown one.
func NewPriceComparison(b2c, b2b *Product) PriceComparison {
	difference := b2c.FinalPrice() - b2b.FinalPrice()
	var savings float64
	if b2c.FinalPrice() > 0 {
		savings = difference / b2c.FinalPrice() * 100
	}
	return PriceComparison{
		ProductID:         b2c.ID,
		SKU:               b2c.SKU,
		Name:              b2c.Name,
		B2CPrice:          b2c.FinalPrice(),
		B2BPrice:          b2b.FinalPrice(),
		Difference:        difference,
		SavingsPercentage: savings,
		B2CURL:            b2c.URL(),
		B2BURL:            b2b.URL(),
	}
}

// BetterDeal names the cheaper storefront. Ties go to B2C.
func (pc PriceComparison) BetterDeal() string {
	if pc.Difference > 0 {
		return "B2B"
	}
	return "B2C"
}
