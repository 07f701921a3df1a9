package resolver

import (
	"testing"
	"time"
)

func TestCatalogCache_SetAndGet(t *testing.T) {
	cache := NewCatalogCache()
	entries := []CatalogEntry{{ID: "dv1", Name: "View"}}

	cache.Set("dir1", entries, time.Hour)

	got, found := cache.Get("dir1")
	if !found {
		t.Fatal("expected cached listing for dir1")
	}
	if len(got) != 1 || got[0].ID != "dv1" {
		t.Errorf("unexpected cached entries: %+v", got)
	}
}

func TestCatalogCache_TTLCheckedAtLookup(t *testing.T) {
	cache := NewCatalogCache()
	cache.Set("dir1", []CatalogEntry{{ID: "dv1"}}, time.Millisecond)

	time.Sleep(10 * time.Millisecond)

	if _, found := cache.Get("dir1"); found {
		t.Error("expected the listing to be expired")
	}
}

func TestCatalogCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewCatalogCache()
	cache.Set("dir1", []CatalogEntry{{ID: "dv1"}}, 0)

	time.Sleep(5 * time.Millisecond)

	if _, found := cache.Get("dir1"); !found {
		t.Error("zero TTL entry should not expire")
	}
}

func TestCatalogCache_Delete(t *testing.T) {
	cache := NewCatalogCache()
	cache.Set("dir1", []CatalogEntry{{ID: "dv1"}}, time.Hour)
	cache.Delete("dir1")

	if _, found := cache.Get("dir1"); found {
		t.Error("expected listing to be deleted")
	}
}

func TestCatalogCache_MissingKey(t *testing.T) {
	cache := NewCatalogCache()
	if _, found := cache.Get("never-set"); found {
		t.Error("expected miss for unknown key")
	}
}
