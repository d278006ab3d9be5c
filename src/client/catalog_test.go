package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/username/megamart/backend/src/config"
)

const searchPage = `{
  "data": {
    "products": {
      "items": [
        {
          "id": 1001,
          "uid": "MTAwMQ==",
          "name": "Gạo ST25 túi 5kg",
          "sku": "296814",
          "price_range": {
            "maximum_price": {
              "final_price": {"currency": "VND", "value": 185000},
              "regular_price": {"currency": "VND", "value": 210000}
            }
          },
          "small_image": {"url": "https://online.mmvietnam.com/media/gao-st25.jpg"},
          "stock_status": "IN_STOCK",
          "url_key": "gao-st25-tui-5kg",
          "categories": [{"uid": "Mg==", "name": "Gạo"}]
        },
        {
          "id": 1002,
          "uid": "MTAwMg==",
          "name": "Gạo Nàng Hoa túi 10kg",
          "sku": "310221",
          "price_range": {
            "maximum_price": {
              "final_price": {"currency": "VND", "value": 265000},
              "regular_price": {"currency": "VND", "value": 265000}
            }
          },
          "stock_status": "OUT_OF_STOCK",
          "url_key": "gao-nang-hoa-tui-10kg",
          "categories": []
        }
      ],
      "total_count": 40,
      "page_info": {"total_pages": 20}
    }
  }
}`

func TestSearchProducts_MapsPageIntoSearchResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	result, err := c.SearchProducts(context.Background(), "gạo", config.PlatformB2C, 1, 2, "relevance")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(result.Products))
	}
	if result.TotalCount != 40 || result.TotalPages != 20 || result.CurrentPage != 1 {
		t.Fatalf("pagination = %d/%d/%d", result.TotalCount, result.TotalPages, result.CurrentPage)
	}
	if result.Platform != config.PlatformB2C {
		t.Fatalf("platform = %s", result.Platform)
	}

	first := result.Products[0]
	if first.SKU != "296814" || first.ID != 1001 {
		t.Fatalf("first product = %+v", first)
	}
	if first.FinalPrice() != 185000 || first.RegularPrice() != 210000 {
		t.Fatalf("prices = %v/%v", first.FinalPrice(), first.RegularPrice())
	}
	if !first.PriceRange.HasDiscount() || first.PriceRange.DiscountAmount != 25000 {
		t.Fatalf("discount = %v", first.PriceRange.DiscountAmount)
	}
	if !first.InStock() {
		t.Fatal("expected first product in stock")
	}
	if first.URL() != "https://online.mmvietnam.com/gao-st25-tui-5kg.html" {
		t.Fatalf("url = %s", first.URL())
	}
	if first.ImageURL == "" || len(first.Categories) != 1 {
		t.Fatalf("image/categories not mapped: %+v", first)
	}
	if first.CapturedAt.IsZero() {
		t.Fatal("capture timestamp not set")
	}

	if result.Products[1].InStock() {
		t.Fatal("expected second product out of stock")
	}
}

func TestSearchProducts_MissingProductsFieldIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	_, err := c.SearchProducts(context.Background(), "gạo", config.PlatformB2C, 1, 2, "relevance")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Field != "products" {
		t.Fatalf("err = %v, want ParseError on products", err)
	}
}

func TestSearchProducts_MissingItemFieldIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"products":{"items":[{"id":1,"name":"No SKU","url_key":"x"}],"total_count":1,"page_info":{"total_pages":1}}}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	_, err := c.SearchProducts(context.Background(), "x", config.PlatformB2C, 1, 2, "relevance")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Field != "sku" {
		t.Fatalf("err = %v, want ParseError on sku", err)
	}
}

func pagedItem(id int, sku string) string {
	return fmt.Sprintf(`{
		"id": %d, "uid": "u%d", "name": "Item %s", "sku": %q,
		"price_range": {"maximum_price": {
			"final_price": {"currency": "VND", "value": 1000},
			"regular_price": {"currency": "VND", "value": 1000}}},
		"stock_status": "IN_STOCK", "url_key": "item-%s", "categories": []
	}`, id, id, sku, sku, sku)
}

func TestSearchAllPages_StopsAtPageCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var vars struct {
			CurrentPage int `json:"currentPage"`
		}
		if err := json.Unmarshal([]byte(r.URL.Query().Get("variables")), &vars); err != nil {
			t.Errorf("decoding variables: %v", err)
		}
		items := []string{
			pagedItem(vars.CurrentPage*10+1, fmt.Sprintf("P%d-A", vars.CurrentPage)),
			pagedItem(vars.CurrentPage*10+2, fmt.Sprintf("P%d-B", vars.CurrentPage)),
		}
		fmt.Fprintf(w, `{"data":{"products":{"items":[%s],"total_count":10,"page_info":{"total_pages":5}}}}`,
			strings.Join(items, ","))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	// 5 pages reported, cap at 2: exactly two pages' worth of products.
	products := c.SearchAllPages(context.Background(), "item", config.PlatformB2C, 2)
	if len(products) != 4 {
		t.Fatalf("products = %d, want 4", len(products))
	}
	if products[0].SKU != "P1-A" || products[3].SKU != "P2-B" {
		t.Fatalf("unexpected page order: %s ... %s", products[0].SKU, products[3].SKU)
	}
}

func TestSearchAllPages_StopsOnEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"products":{"items":[],"total_count":0,"page_info":{"total_pages":0}}}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	if products := c.SearchAllPages(context.Background(), "nothing", config.PlatformB2C, 0); len(products) != 0 {
		t.Fatalf("products = %d, want 0", len(products))
	}
}

// comparisonServer answers product searches for both storefronts, keyed by
// the Store header.
func comparisonServer(t *testing.T, b2bFails bool) *httptest.Server {
	b2cItems := []string{
		compItem(1, "SKU-A", 100000),
		compItem(2, "SKU-B", 200000),
		compItem(3, "SKU-C", 300000),
	}
	b2bItems := []string{
		compItem(11, "SKU-B", 100000),
		compItem(12, "SKU-A", 90000),
		compItem(13, "SKU-D", 50000),
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := r.Header.Get("Store")
		items := b2cItems
		if strings.HasPrefix(store, "mm_") {
			if b2bFails {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			items = b2bItems
		}
		fmt.Fprintf(w, `{"data":{"products":{"items":[%s],"total_count":%d,"page_info":{"total_pages":1}}}}`,
			strings.Join(items, ","), len(items))
	}))
}

func compItem(id int, sku string, price int) string {
	return fmt.Sprintf(`{
		"id": %d, "uid": "u%d", "name": "Product %s", "sku": %q,
		"price_range": {"maximum_price": {
			"final_price": {"currency": "VND", "value": %d},
			"regular_price": {"currency": "VND", "value": %d}}},
		"stock_status": "IN_STOCK", "url_key": "product-%s", "categories": []
	}`, id, id, sku, sku, price, price, strings.ToLower(sku))
}

func TestComparePrices_JoinsBySKUAndSortsBySavings(t *testing.T) {
	srv := comparisonServer(t, false)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	comparisons := c.ComparePrices(context.Background(), "product", 20)
	if len(comparisons) != 2 {
		t.Fatalf("comparisons = %d, want 2 (SKU-C and SKU-D have no counterpart)", len(comparisons))
	}

	// SKU-B saves 50%, SKU-A saves 10%: descending order.
	if comparisons[0].SKU != "SKU-B" || comparisons[1].SKU != "SKU-A" {
		t.Fatalf("order = %s, %s", comparisons[0].SKU, comparisons[1].SKU)
	}
	if comparisons[0].Difference != 100000 || comparisons[0].SavingsPercentage != 50 {
		t.Fatalf("SKU-B comparison = %+v", comparisons[0])
	}
	if comparisons[1].Difference != 10000 || comparisons[1].SavingsPercentage != 10 {
		t.Fatalf("SKU-A comparison = %+v", comparisons[1])
	}
	if !strings.Contains(comparisons[0].B2CURL, "online.mmvietnam.com") ||
		!strings.Contains(comparisons[0].B2BURL, "mmpro.vn") {
		t.Fatalf("urls = %s / %s", comparisons[0].B2CURL, comparisons[0].B2BURL)
	}
}

func TestComparePrices_EitherSearchFailingYieldsEmptyList(t *testing.T) {
	srv := comparisonServer(t, true)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	if comparisons := c.ComparePrices(context.Background(), "product", 20); len(comparisons) != 0 {
		t.Fatalf("comparisons = %d, want 0", len(comparisons))
	}
}

func TestStoreList_FetchesFromB2C(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("operationName"); got != "StoreList" {
			t.Errorf("operationName = %s", got)
		}
		w.Write([]byte(`{"data":{"storeList":[{"name":"MM Mega Market An Phú","code":"10010"},{"name":"MM Mega Market Thăng Long","code":"10011"}]}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, &fakeAuth{cfg: cfg})

	locations, err := c.StoreList(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(locations) != 2 || locations[0].Code != "10010" || locations[1].Name != "MM Mega Market Thăng Long" {
		t.Fatalf("locations = %+v", locations)
	}
	if locations[0].Region != "" {
		t.Fatal("fetched entries must carry no region tag")
	}
}
