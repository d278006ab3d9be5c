package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/logger"
	"github.com/username/megamart/backend/src/models"
	"github.com/username/megamart/backend/src/stores"
)

// Page size used when walking every page of a search.
const allPagesSize = 50

// SearchProducts runs a single-page product search on one storefront.
// sortBy is accepted for the command surface's benefit but not forwarded:
// the unauthenticated endpoints reject sort arguments.
func (c *Client) SearchProducts(ctx context.Context, term string, platform config.Platform, page, pageSize int, sortBy string) (*models.SearchResult, error) {
	_ = sortBy

	variables := map[string]any{
		"currentPage": page,
		"pageSize":    pageSize,
		"inputText":   term,
	}

	data, err := c.Execute(ctx, platform, productSearchQuery, variables, "ProductSearch")
	if err != nil {
		return nil, err
	}

	var payload productSearchData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding products: %v", ErrMalformed, err)
	}
	if payload.Products == nil {
		return nil, &ParseError{Op: "ProductSearch", Field: "products"}
	}

	products := make([]models.Product, 0, len(payload.Products.Items))
	for _, item := range payload.Products.Items {
		product, err := mapProduct(item, platform)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return &models.SearchResult{
		Products:    products,
		TotalCount:  payload.Products.TotalCount,
		TotalPages:  payload.Products.PageInfo.TotalPages,
		CurrentPage: page,
		Platform:    platform,
	}, nil
}

// SearchAllPages accumulates products page by page, starting at 1, until a
// page comes back empty or failed, the cap is reached, or the storefront
// reports no further pages. maxPages <= 0 means no cap. An empty or failed
// page is natural exhaustion, not an error.
func (c *Client) SearchAllPages(ctx context.Context, term string, platform config.Platform, maxPages int) []models.Product {
	var all []models.Product
	page := 1

	for {
		result, err := c.SearchProducts(ctx, term, platform, page, allPagesSize, "relevance")
		if err != nil {
			logger.L.Warn("Page fetch failed, stopping pagination", "page", page, "error", err)
			break
		}
		if len(result.Products) == 0 {
			break
		}

		all = append(all, result.Products...)

		logger.L.Info("Fetched page",
			"page", page, "totalPages", result.TotalPages,
			"pageCount", len(result.Products),
			"accumulated", len(all), "totalCount", result.TotalCount)

		if maxPages > 0 && page >= maxPages {
			break
		}
		if page >= result.TotalPages {
			break
		}
		page++
	}

	return all
}

// ComparePrices searches both storefronts and joins the results by SKU,
// sorted by savings percentage descending (ties keep input order). If either
// search fails the comparison is abandoned: no partial results. Products
// present on only one storefront are silently skipped.
func (c *Client) ComparePrices(ctx context.Context, term string, maxResults int) []models.PriceComparison {
	b2cResult, b2cErr := c.SearchProducts(ctx, term, config.PlatformB2C, 1, maxResults, "relevance")
	b2bResult, b2bErr := c.SearchProducts(ctx, term, config.PlatformB2B, 1, maxResults, "relevance")

	if b2cErr != nil || b2bErr != nil {
		logger.L.Error("Failed to fetch data from one or both platforms",
			"b2cError", b2cErr, "b2bError", b2bErr)
		return []models.PriceComparison{}
	}

	b2bBySKU := make(map[string]*models.Product, len(b2bResult.Products))
	for i := range b2bResult.Products {
		b2bBySKU[b2bResult.Products[i].SKU] = &b2bResult.Products[i]
	}

	comparisons := make([]models.PriceComparison, 0, len(b2cResult.Products))
	for i := range b2cResult.Products {
		b2cProduct := &b2cResult.Products[i]
		b2bProduct, ok := b2bBySKU[b2cProduct.SKU]
		if !ok {
			continue
		}
		comparisons = append(comparisons, models.NewPriceComparison(b2cProduct, b2bProduct))
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].SavingsPercentage > comparisons[j].SavingsPercentage
	})

	return comparisons
}

// StoreList fetches the authoritative store list from the B2C storefront.
// Fetched entries carry no region tag.
func (c *Client) StoreList(ctx context.Context) ([]stores.Location, error) {
	data, err := c.Execute(ctx, config.PlatformB2C, storeListQuery, nil, "StoreList")
	if err != nil {
		return nil, err
	}

	var payload storeListData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding store list: %v", ErrMalformed, err)
	}
	if payload.StoreList == nil {
		return nil, &ParseError{Op: "StoreList", Field: "storeList"}
	}

	locations := make([]stores.Location, 0, len(payload.StoreList))
	for _, entry := range payload.StoreList {
		locations = append(locations, stores.Location{Code: entry.Code, Name: entry.Name})
	}
	return locations, nil
}
