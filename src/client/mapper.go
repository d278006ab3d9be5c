package client

import (
	"time"

	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/models"
)

// Wire shapes for the Magento-style products query.

type gqlMoney struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

type gqlProductPrice struct {
	FinalPrice   gqlMoney `json:"final_price"`
	RegularPrice gqlMoney `json:"regular_price"`
}

type gqlPriceRange struct {
	MaximumPrice *gqlProductPrice `json:"maximum_price"`
}

type gqlImage struct {
	URL string `json:"url"`
}

type gqlCategory struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

type gqlProduct struct {
	ID            int            `json:"id"`
	UID           string         `json:"uid"`
	Name          string         `json:"name"`
	SKU           string         `json:"sku"`
	PriceRange    *gqlPriceRange `json:"price_range"`
	SmallImage    *gqlImage      `json:"small_image"`
	StockStatus   string         `json:"stock_status"`
	URLKey        string         `json:"url_key"`
	Categories    []gqlCategory  `json:"categories"`
	RatingSummary *float64       `json:"rating_summary"`
}

type gqlPageInfo struct {
	TotalPages int `json:"total_pages"`
}

type gqlProducts struct {
	Items      []gqlProduct `json:"items"`
	TotalCount int          `json:"total_count"`
	PageInfo   gqlPageInfo  `json:"page_info"`
}

type productSearchData struct {
	Products *gqlProducts `json:"products"`
}

type storeListData struct {
	StoreList []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"storeList"`
}

// mapProduct converts one raw item into a typed record. Required fields are
// checked strictly so a half-formed item fails as ErrMalformed instead of
// sliding through as a zero-valued product.
func mapProduct(item gqlProduct, platform config.Platform) (models.Product, error) {
	if item.SKU == "" {
		return models.Product{}, &ParseError{Op: "ProductSearch", Field: "sku"}
	}
	if item.Name == "" {
		return models.Product{}, &ParseError{Op: "ProductSearch", Field: "name"}
	}
	if item.PriceRange == nil || item.PriceRange.MaximumPrice == nil {
		return models.Product{}, &ParseError{Op: "ProductSearch", Field: "price_range"}
	}

	price := item.PriceRange.MaximumPrice

	product := models.Product{
		ID:   item.ID,
		UID:  item.UID,
		Name: item.Name,
		SKU:  item.SKU,
		PriceRange: models.NewPriceRange(
			models.Money{Value: price.RegularPrice.Value, Currency: price.RegularPrice.Currency},
			models.Money{Value: price.FinalPrice.Value, Currency: price.FinalPrice.Currency},
		),
		StockStatus:   models.StockStatus(item.StockStatus),
		URLKey:        item.URLKey,
		RatingSummary: item.RatingSummary,
		Platform:      platform,
		CapturedAt:    time.Now(),
	}

	if item.SmallImage != nil {
		product.ImageURL = item.SmallImage.URL
	}
	for _, cat := range item.Categories {
		product.Categories = append(product.Categories, models.Category{UID: cat.UID, Name: cat.Name})
	}

	return product, nil
}
