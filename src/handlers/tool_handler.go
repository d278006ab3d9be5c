package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/logger"
	"github.com/username/megamart/backend/src/models"
	"github.com/username/megamart/backend/src/stores"
	"github.com/username/megamart/backend/src/utils"
)

const maxPageSize = 50

// Catalog is the slice of the catalog client the tool surface uses.
type Catalog interface {
	SearchProducts(ctx context.Context, term string, platform config.Platform, page, pageSize int, sortBy string) (*models.SearchResult, error)
	ComparePrices(ctx context.Context, term string, maxResults int) []models.PriceComparison
}

// Authenticator is the slice of the auth client the tool surface uses.
type Authenticator interface {
	Login(ctx context.Context, email, password string) bool
	IsAuthenticated() bool
	TokenExpiry() (time.Time, bool)
}

// ToolHandler exposes the catalog operations as named tools over HTTP:
// GET /api/tools lists the descriptors, POST /api/tools/{name} invokes one.
// Every invocation answers with a human-readable text payload; handler
// errors and panics become text too, never a failed call.
type ToolHandler struct {
	cfg     *config.Config
	catalog Catalog
	auth    Authenticator
	stores  *stores.Directory
}

func NewToolHandler(cfg *config.Config, catalog Catalog, auth Authenticator, directory *stores.Directory) *ToolHandler {
	return &ToolHandler{
		cfg:     cfg,
		catalog: catalog,
		auth:    auth,
		stores:  directory,
	}
}

// HandleListTools answers with the tool descriptors and their input shapes.
func (h *ToolHandler) HandleListTools(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, toolDescriptors())
}

// HandleInvokeTool dispatches one tool call. A panicking handler is reported
// as a text error so the boundary never fails the whole call.
func (h *ToolHandler) HandleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	defer func() {
		if rec := recover(); rec != nil {
			logger.L.Error("Tool handler panicked", "tool", name, "panic", rec)
			utils.SendToolResult(w, fmt.Sprintf("Error: %v", rec))
		}
	}()

	var args map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		utils.SendJSONError(w, fmt.Sprintf("invalid arguments: %v", err), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var text string

	switch name {
	case "search_products":
		text = h.searchProducts(ctx, args)
	case "compare_prices":
		text = h.comparePrices(ctx, args)
	case "list_stores":
		text = h.listStores(ctx, args)
	case "set_store":
		text = h.setStore(args)
	case "get_current_store":
		text = h.getCurrentStore()
	case "authenticate_b2b":
		text = h.authenticateB2B(ctx, args)
	case "get_auth_status":
		text = h.getAuthStatus()
	case "get_product_details":
		text = h.getProductDetails(ctx, args)
	default:
		utils.SendJSONError(w, fmt.Sprintf("unknown tool: %s", name), http.StatusNotFound)
		return
	}

	utils.SendToolResult(w, text)
}

func stringArg(args map[string]json.RawMessage, key, fallback string) string {
	raw, ok := args[key]
	if !ok {
		return fallback
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil || v == "" {
		return fallback
	}
	return v
}

func intArg(args map[string]json.RawMessage, key string, fallback int) int {
	raw, ok := args[key]
	if !ok {
		return fallback
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil || v <= 0 {
		return fallback
	}
	return v
}

func (h *ToolHandler) searchProducts(ctx context.Context, args map[string]json.RawMessage) string {
	term := stringArg(args, "search_term", "")
	if term == "" {
		return "Error: search_term is required"
	}
	platform := stringArg(args, "platform", "b2c")
	page := intArg(args, "page", 1)
	pageSize := intArg(args, "page_size", 24)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	sortBy := stringArg(args, "sort_by", "relevance")

	if platform == "both" {
		var sb strings.Builder
		fmt.Fprintf(&sb, "# Search Results for '%s'\n\n", term)

		if result, err := h.catalog.SearchProducts(ctx, term, config.PlatformB2C, page, pageSize, sortBy); err == nil {
			fmt.Fprintf(&sb, "## B2C (Retail) - %d products\n\n", result.TotalCount)
			sb.WriteString(formatProducts(topN(result.Products, 5)))
		}
		if result, err := h.catalog.SearchProducts(ctx, term, config.PlatformB2B, page, pageSize, sortBy); err == nil {
			fmt.Fprintf(&sb, "\n## B2B (Wholesale) - %d products\n\n", result.TotalCount)
			sb.WriteString(formatProducts(topN(result.Products, 5)))
		}
		return sb.String()
	}

	result, err := h.catalog.SearchProducts(ctx, term, config.Platform(platform), page, pageSize, sortBy)
	if err != nil {
		logger.L.Warn("Search failed", "term", term, "platform", platform, "error", err)
		return "No results found or error occurred"
	}

	platformName := "B2C (Retail)"
	if platform == "b2b" {
		platformName = "B2B (Wholesale)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Search Results for '%s'\n\n", platformName, term)
	fmt.Fprintf(&sb, "**Total:** %d products | **Page:** %d/%d\n\n", result.TotalCount, page, result.TotalPages)
	sb.WriteString(formatProducts(result.Products))
	return sb.String()
}

func (h *ToolHandler) comparePrices(ctx context.Context, args map[string]json.RawMessage) string {
	term := stringArg(args, "search_term", "")
	if term == "" {
		return "Error: search_term is required"
	}
	maxResults := intArg(args, "max_results", 20)

	comparisons := h.catalog.ComparePrices(ctx, term, maxResults)
	if len(comparisons) == 0 {
		return "No matching products found for comparison"
	}
	return formatComparisons(term, comparisons)
}

func (h *ToolHandler) listStores(ctx context.Context, args map[string]json.RawMessage) string {
	region := strings.ToLower(stringArg(args, "region", "all"))

	var list []stores.Location
	if region == "all" {
		list = h.stores.List(ctx)
	} else {
		list = h.stores.ByRegion(region)
	}
	return formatStores(list)
}

func (h *ToolHandler) setStore(args map[string]json.RawMessage) string {
	code := stringArg(args, "store_code", "")
	if code == "" {
		return "Error: store_code is required"
	}

	if !h.stores.Select(code) {
		return fmt.Sprintf("✗ Store not found: %s\nUse `list_stores` to see available stores.", code)
	}

	store := h.stores.Current()
	return fmt.Sprintf("✓ Store set to: **%s** (%s)\n- B2C Store Code: `%s`\n- B2B Store Code: `%s`\n",
		store.Name, store.Code, h.cfg.B2C.StoreCode, h.cfg.B2B.StoreCode)
}

func (h *ToolHandler) getCurrentStore() string {
	store := h.stores.Current()
	if store == nil {
		return "No store selected."
	}

	region := store.Region
	if region == "" {
		region = "Unknown"
	}
	return fmt.Sprintf("# Current Store\n\n**%s**\n- Code: `%s`\n- Region: %s\n- B2C Store Code: `%s`\n- B2B Store Code: `%s`\n",
		store.Name, store.Code, region, h.cfg.B2C.StoreCode, h.cfg.B2B.StoreCode)
}

func (h *ToolHandler) authenticateB2B(ctx context.Context, args map[string]json.RawMessage) string {
	username := stringArg(args, "username", "")
	password := stringArg(args, "password", "")

	if h.auth.Login(ctx, username, password) {
		return "✓ B2B authentication successful!\nYou can now search products on the B2B platform."
	}
	return "✗ B2B authentication failed.\nPlease check your credentials."
}

func (h *ToolHandler) getAuthStatus() string {
	var sb strings.Builder
	sb.WriteString("# B2B Authentication Status\n\n")

	if h.auth.IsAuthenticated() {
		sb.WriteString("✓ **Authenticated** - You can access B2B pricing\n")
		if exp, ok := h.auth.TokenExpiry(); ok {
			fmt.Fprintf(&sb, "- Token expires: %s\n", exp.Format(time.RFC3339))
		}
	} else {
		sb.WriteString("✗ **Not Authenticated** - B2B searches will fail\n\nUse `authenticate_b2b` to log in.")
	}
	return sb.String()
}

func (h *ToolHandler) getProductDetails(ctx context.Context, args map[string]json.RawMessage) string {
	sku := stringArg(args, "sku", "")
	if sku == "" {
		return "Error: sku is required"
	}
	platform := stringArg(args, "platform", "b2c")

	result, err := h.catalog.SearchProducts(ctx, sku, config.Platform(platform), 1, 10, "relevance")
	if err != nil || len(result.Products) == 0 {
		return fmt.Sprintf("Product not found: %s", sku)
	}

	// Prefer the exact SKU match, fall back to the first hit.
	product := &result.Products[0]
	for i := range result.Products {
		if result.Products[i].SKU == sku {
			product = &result.Products[i]
			break
		}
	}
	return formatProductDetails(product)
}

func topN(products []models.Product, n int) []models.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}
