package stores

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/logger"
)

// Location is one MM Mega Market store. Code is the bare numeric code; the
// storefront-specific codes are derived from it.
type Location struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"` // North, Central or South; empty for fetched entries
}

func (l Location) B2CStoreCode() string {
	return "b2c_" + l.Code + "_vi"
}

func (l Location) B2BStoreCode() string {
	return "mm_" + l.Code + "_vi"
}

// Lister fetches the authoritative store list from the live storefront.
type Lister interface {
	StoreList(ctx context.Context) ([]Location, error)
}

const defaultStoreCode = "10010" // An Phú

// Store locations published on the MM Mega Market website.
var knownStores = map[string]Location{
	"10010": {Code: "10010", Name: "MM Mega Market An Phú", Region: "South"},
	"10011": {Code: "10011", Name: "MM Mega Market Thăng Long", Region: "North"},
	"10012": {Code: "10012", Name: "MM Mega Market Hoàng Mai", Region: "North"},
	"10015": {Code: "10015", Name: "MM Mega Market Bình Phú", Region: "South"},
	"10018": {Code: "10018", Name: "MM Mega Market Hạ Long", Region: "North"},
	"10020": {Code: "10020", Name: "MM Mega Market Bình Tân", Region: "South"},
	"10024": {Code: "10024", Name: "MM Mega Market Đà Nẵng", Region: "Central"},
	"10028": {Code: "10028", Name: "MM Mega Market Nha Trang", Region: "Central"},
	"10035": {Code: "10035", Name: "MM Mega Market Thủ Đức", Region: "South"},
	"10040": {Code: "10040", Name: "MM Mega Market Biên Hòa", Region: "South"},
}

const storeListCacheKey = "storeList"

// Directory resolves store codes and tracks the process-wide current store.
// Selecting a store rewrites both storefront store codes in the shared
// config. The live store list, when reachable, is cached briefly so repeated
// listings do not hammer the storefront.
type Directory struct {
	cfg     *config.Config
	lister  Lister
	current *Location
	cache   *cache.Cache
}

// NewDirectory builds a directory with An Phú preselected. lister may be nil,
// in which case listings always come from the static table.
func NewDirectory(cfg *config.Config, lister Lister) *Directory {
	d := &Directory{
		cfg:    cfg,
		lister: lister,
		cache:  cache.New(15*time.Minute, 30*time.Minute),
	}
	if loc, ok := knownStores[defaultStoreCode]; ok {
		d.current = &loc
	}
	return d
}

// NormalizeCode strips the storefront prefixes and locale suffix so all
// three spellings of a store code resolve identically.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, "b2c_")
	code = strings.TrimPrefix(code, "mm_")
	return strings.TrimSuffix(code, "_vi")
}

// Resolve looks up a store by any accepted spelling of its code.
func (d *Directory) Resolve(code string) (Location, bool) {
	loc, ok := knownStores[NormalizeCode(code)]
	return loc, ok
}

// Select makes the resolved store current and rewrites both storefront store
// codes in the shared config. An unknown code is a no-op returning false.
func (d *Directory) Select(code string) bool {
	loc, ok := d.Resolve(code)
	if !ok {
		logger.L.Error("Store not found", "code", code)
		return false
	}

	d.current = &loc
	d.cfg.B2C.StoreCode = loc.B2CStoreCode()
	d.cfg.B2B.StoreCode = loc.B2BStoreCode()

	logger.L.Info("Current store set",
		"store", loc.Name, "code", loc.Code,
		"b2c", d.cfg.B2C.StoreCode, "b2b", d.cfg.B2B.StoreCode)
	return true
}

// Current returns the selected store, or nil when none is selected.
func (d *Directory) Current() *Location {
	return d.current
}

// ByRegion filters the static table by case-insensitive region match.
func (d *Directory) ByRegion(region string) []Location {
	var out []Location
	for _, loc := range knownStores {
		if strings.EqualFold(loc.Region, region) {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// List returns all stores, preferring the live storefront list and falling
// back to the static table on any failure.
func (d *Directory) List(ctx context.Context) []Location {
	if d.lister != nil {
		if cached, ok := d.cache.Get(storeListCacheKey); ok {
			return cached.([]Location)
		}
		fetched, err := d.lister.StoreList(ctx)
		if err == nil {
			d.cache.Set(storeListCacheKey, fetched, cache.DefaultExpiration)
			return fetched
		}
		logger.L.Warn("Failed to fetch stores from API, using known stores", "error", err)
	}

	out := make([]Location, 0, len(knownStores))
	for _, loc := range knownStores {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
