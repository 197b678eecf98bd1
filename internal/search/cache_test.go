package search

import (
	"testing"

	"mediacatalog/searchservice/internal/domain"
)

func TestTitleCacheGenerationScoped(t *testing.T) {
	cache := newTitleCache()
	matches := []domain.Media{newMovie("The Matrix", 1999, 8.7)}

	cache.put(1, "matrix", matches)
	if got, ok := cache.get(1, "matrix"); !ok || len(got) != 1 {
		t.Fatal("same-generation lookup must hit")
	}

	// A different generation invalidates everything at once.
	if _, ok := cache.get(2, "matrix"); ok {
		t.Fatal("stale-generation lookup must miss")
	}
	// The miss also retired the old entries for the old generation.
	if _, ok := cache.get(1, "matrix"); ok {
		t.Fatal("entries for a retired generation must be gone")
	}
}

func TestTitleCachePutDropsStaleGeneration(t *testing.T) {
	cache := newTitleCache()
	cache.put(1, "matrix", []domain.Media{newMovie("The Matrix", 1999, 8.7)})
	cache.put(2, "heat", []domain.Media{newMovie("Heat", 1995, 8.3)})

	if _, ok := cache.get(2, "matrix"); ok {
		t.Fatal("entry written under generation 1 must not survive a generation 2 write")
	}
	if got, ok := cache.get(2, "heat"); !ok || got[0].Title != "Heat" {
		t.Fatal("current-generation entry must survive")
	}
}

func TestTitleCacheMissOnUnknownToken(t *testing.T) {
	cache := newTitleCache()
	cache.put(1, "matrix", nil)
	if _, ok := cache.get(1, "heat"); ok {
		t.Fatal("unknown token must miss")
	}
	// A cached empty match list is still a hit.
	if _, ok := cache.get(1, "matrix"); !ok {
		t.Fatal("cached empty match list must hit")
	}
}

func TestCategoryCacheMatching(t *testing.T) {
	cache := newCategoryCache()

	tests := []struct {
		token string
		want  []domain.Category
	}{
		{"crime", []domain.Category{domain.CategoryCrime}},
		{"sci", []domain.Category{domain.CategorySciFi}},
		{"show", []domain.Category{domain.CategoryTalkShow}},
		{"music", []domain.Category{domain.CategoryMusic, domain.CategoryMusical}},
		{"zzzz", nil},
	}
	for _, tt := range tests {
		got := cache.matching(tt.token)
		if len(got) != len(tt.want) {
			t.Errorf("matching(%q) = %v, want %v", tt.token, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("matching(%q)[%d] = %v, want %v", tt.token, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCategoryCacheStableAcrossCalls(t *testing.T) {
	cache := newCategoryCache()
	first := cache.matching("crime")
	second := cache.matching("crime")
	if len(first) != len(second) {
		t.Fatal("repeated lookups must agree")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("repeated lookups must agree")
		}
	}
}
