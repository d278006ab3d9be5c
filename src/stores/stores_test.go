package stores

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		B2C: config.PlatformConfig{StoreCode: "b2c_10010_vi"},
		B2B: config.PlatformConfig{StoreCode: "mm_10010_vi"},
	}
}

func TestNormalizeCode_Equivalence(t *testing.T) {
	d := NewDirectory(testConfig(), nil)

	want, ok := d.Resolve("10010")
	if !ok {
		t.Fatal("bare numeric code did not resolve")
	}

	for _, code := range []string{" b2c_10010_vi ", "mm_10010_vi", "10010"} {
		got, ok := d.Resolve(code)
		if !ok {
			t.Fatalf("Resolve(%q) did not resolve", code)
		}
		if got != want {
			t.Fatalf("Resolve(%q) = %+v, want %+v", code, got, want)
		}
	}
}

func TestSelect_UpdatesConfigStoreCodes(t *testing.T) {
	cfg := testConfig()
	d := NewDirectory(cfg, nil)

	if !d.Select("10024") {
		t.Fatal("expected select to succeed")
	}
	if cfg.B2C.StoreCode != "b2c_10024_vi" {
		t.Fatalf("b2c store code = %s", cfg.B2C.StoreCode)
	}
	if cfg.B2B.StoreCode != "mm_10024_vi" {
		t.Fatalf("b2b store code = %s", cfg.B2B.StoreCode)
	}
	if d.Current() == nil || d.Current().Code != "10024" {
		t.Fatalf("current = %+v", d.Current())
	}
}

func TestSelect_UnknownCodeHasNoSideEffect(t *testing.T) {
	cfg := testConfig()
	d := NewDirectory(cfg, nil)
	before := *d.Current()

	if d.Select("99999") {
		t.Fatal("expected select to fail")
	}
	if cfg.B2C.StoreCode != "b2c_10010_vi" || cfg.B2B.StoreCode != "mm_10010_vi" {
		t.Fatalf("store codes changed: %s / %s", cfg.B2C.StoreCode, cfg.B2B.StoreCode)
	}
	if *d.Current() != before {
		t.Fatalf("current store changed: %+v", d.Current())
	}
}

func TestByRegion_CaseInsensitive(t *testing.T) {
	d := NewDirectory(testConfig(), nil)

	north := d.ByRegion("NORTH")
	if len(north) != 3 {
		t.Fatalf("north count = %d, want 3", len(north))
	}
	central := d.ByRegion("central")
	if len(central) != 2 {
		t.Fatalf("central count = %d, want 2", len(central))
	}
	if len(d.ByRegion("west")) != 0 {
		t.Fatal("unknown region must be empty")
	}
}

type stubLister struct {
	locations []Location
	err       error
	calls     int
}

func (s *stubLister) StoreList(ctx context.Context) ([]Location, error) {
	s.calls++
	return s.locations, s.err
}

func TestList_PrefersLiveListAndCaches(t *testing.T) {
	lister := &stubLister{locations: []Location{{Code: "10099", Name: "MM Mega Market Test"}}}
	d := NewDirectory(testConfig(), lister)

	got := d.List(context.Background())
	if len(got) != 1 || got[0].Code != "10099" {
		t.Fatalf("list = %+v", got)
	}
	if got[0].Region != "" {
		t.Fatal("fetched entries must carry no region tag")
	}

	// A second listing is served from cache, not the lister.
	lister.err = errors.New("down")
	got = d.List(context.Background())
	if len(got) != 1 || got[0].Code != "10099" {
		t.Fatalf("cached list = %+v", got)
	}
	if lister.calls != 1 {
		t.Fatalf("lister calls = %d, want 1", lister.calls)
	}
}

func TestList_FallsBackToKnownStores(t *testing.T) {
	lister := &stubLister{err: errors.New("unreachable")}
	d := NewDirectory(testConfig(), lister)

	got := d.List(context.Background())
	if len(got) != len(knownStores) {
		t.Fatalf("fallback list count = %d, want %d", len(got), len(knownStores))
	}

	d = NewDirectory(testConfig(), nil)
	if got := d.List(context.Background()); len(got) != len(knownStores) {
		t.Fatalf("static list count = %d, want %d", len(got), len(knownStores))
	}
}
