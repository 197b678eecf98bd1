package search

import (
	"context"
	"testing"

	"mediacatalog/searchservice/internal/catalog"
	"mediacatalog/searchservice/internal/domain"
)

func newMovie(title string, year int, rating float64, categories ...domain.Category) domain.Media {
	return domain.Media{
		Kind:        domain.MediaKindMovie,
		Title:       title,
		ReleaseYear: year,
		Categories:  categories,
		Rating:      rating,
	}
}

func newTestService(t *testing.T, items ...domain.Media) (*Service, *catalog.Store) {
	t.Helper()
	store := catalog.NewStore()
	for _, media := range items {
		store.Add(media)
	}
	return NewService(store), store
}

func rank(t *testing.T, svc *Service, query string, opts Options) domain.SearchResponse {
	t.Helper()
	response, err := svc.Rank(context.Background(), query, opts)
	if err != nil {
		t.Fatalf("Rank(%q) error: %v", query, err)
	}
	return response
}

func titles(items []domain.Media) []string {
	out := make([]string, len(items))
	for i, media := range items {
		out[i] = media.Title
	}
	return out
}

// ---------------------------------------------------------------------------
// Scoring
// ---------------------------------------------------------------------------

func TestRankTitleSubstring(t *testing.T) {
	svc, _ := newTestService(t,
		newMovie("The Matrix", 1999, 8.7, domain.CategoryAction),
		newMovie("Heat", 1995, 8.3, domain.CategoryCrime),
	)

	response := rank(t, svc, "matrix", Options{})
	if len(response.Items) != 1 || response.Items[0].Title != "The Matrix" {
		t.Fatalf("items = %v, want [The Matrix]", titles(response.Items))
	}
	if response.TotalItems != 1 {
		t.Errorf("total = %d, want 1", response.TotalItems)
	}
}

func TestRankCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t, newMovie("The Matrix", 1999, 8.7, domain.CategoryAction))

	for _, query := range []string{"MATRIX", "MaTrIx", "matrix"} {
		response := rank(t, svc, query, Options{})
		if len(response.Items) != 1 {
			t.Errorf("Rank(%q) items = %v, want one match", query, titles(response.Items))
		}
	}
}

func TestRankCategoryMatch(t *testing.T) {
	svc, _ := newTestService(t,
		newMovie("Heat", 1995, 8.3, domain.CategoryCrime),
		newMovie("Big", 1988, 7.3, domain.CategoryComedy),
	)

	response := rank(t, svc, "crime", Options{})
	if len(response.Items) != 1 || response.Items[0].Title != "Heat" {
		t.Fatalf("items = %v, want [Heat]", titles(response.Items))
	}
}

func TestRankCategorySubstring(t *testing.T) {
	svc, _ := newTestService(t, newMovie("Blade Runner", 1982, 8.1, domain.CategorySciFi))

	// "sci" hits the Sci-fi category name by substring.
	response := rank(t, svc, "sci", Options{})
	if len(response.Items) != 1 {
		t.Fatalf("items = %v, want one match", titles(response.Items))
	}
}

func TestRankTitleAndCategoryBothCount(t *testing.T) {
	// "Crime Story" matches the token "crime" in its title AND carries the
	// Crime category, so the single token scores it twice. "Heat" only gets
	// the category point and must rank below.
	svc, _ := newTestService(t,
		newMovie("Heat", 1995, 8.3, domain.CategoryCrime),
		newMovie("Crime Story", 1993, 7.5, domain.CategoryCrime),
	)

	response := rank(t, svc, "crime", Options{})
	got := titles(response.Items)
	if len(got) != 2 || got[0] != "Crime Story" || got[1] != "Heat" {
		t.Fatalf("items = %v, want [Crime Story Heat]", got)
	}
}

func TestRankRepeatedTokensAccumulate(t *testing.T) {
	// A repeated token scores once per occurrence, so repeating a token
	// that only one record matches lifts that record over a record with
	// two distinct single matches.
	svc, _ := newTestService(t,
		newMovie("Alpha Beta", 1990, 7.0),
		newMovie("Alpha", 1991, 7.0),
	)

	response := rank(t, svc, "beta beta alpha", Options{})
	got := titles(response.Items)
	if len(got) != 2 || got[0] != "Alpha Beta" {
		t.Fatalf("items = %v, want Alpha Beta first", got)
	}
}

func TestRankZeroScoreExcluded(t *testing.T) {
	svc, _ := newTestService(t,
		newMovie("The Matrix", 1999, 8.7, domain.CategoryAction),
		newMovie("Heat", 1995, 8.3, domain.CategoryCrime),
	)

	response := rank(t, svc, "zzzz", Options{})
	if len(response.Items) != 0 || response.TotalItems != 0 {
		t.Fatalf("items = %v, want none", titles(response.Items))
	}
}

func TestRankBlankQuery(t *testing.T) {
	svc, _ := newTestService(t, newMovie("The Matrix", 1999, 8.7))

	for _, query := range []string{"", "   ", "\t \n"} {
		response := rank(t, svc, query, Options{})
		if len(response.Items) != 0 {
			t.Errorf("Rank(%q) items = %v, want none", query, titles(response.Items))
		}
	}
}

// ---------------------------------------------------------------------------
// Ordering
// ---------------------------------------------------------------------------

func TestRankTieOrdering(t *testing.T) {
	// All three score one point from the shared token; ties order by title,
	// then release year.
	svc, _ := newTestService(t,
		newMovie("Shark Tale", 2004, 6.0),
		newMovie("Shark Bait", 2006, 4.5),
		newMovie("Shark Bait", 2005, 4.6),
	)

	response := rank(t, svc, "shark", Options{})
	got := response.Items
	if len(got) != 3 {
		t.Fatalf("items = %v", titles(got))
	}
	if got[0].Title != "Shark Bait" || got[0].ReleaseYear != 2005 {
		t.Errorf("first = %s (%d)", got[0].Title, got[0].ReleaseYear)
	}
	if got[1].Title != "Shark Bait" || got[1].ReleaseYear != 2006 {
		t.Errorf("second = %s (%d)", got[1].Title, got[1].ReleaseYear)
	}
	if got[2].Title != "Shark Tale" {
		t.Errorf("third = %s", got[2].Title)
	}
}

func TestRankByteOrderedTitles(t *testing.T) {
	// Title ties break by byte order: uppercase sorts before lowercase.
	svc, _ := newTestService(t,
		newMovie("shark one", 2000, 5.0),
		newMovie("Shark two", 2000, 5.0),
	)

	response := rank(t, svc, "shark", Options{})
	got := titles(response.Items)
	if len(got) != 2 || got[0] != "Shark two" {
		t.Fatalf("items = %v, want Shark two first", got)
	}
}

func TestRankLimitTruncates(t *testing.T) {
	svc, _ := newTestService(t,
		newMovie("Shark A", 2001, 5.0),
		newMovie("Shark B", 2002, 5.0),
		newMovie("Shark C", 2003, 5.0),
	)

	response := rank(t, svc, "shark", Options{Limit: 2})
	if len(response.Items) != 2 {
		t.Fatalf("items = %v, want 2", titles(response.Items))
	}
	if response.TotalItems != 3 {
		t.Errorf("total = %d, want 3", response.TotalItems)
	}
	got := titles(response.Items)
	if got[0] != "Shark A" || got[1] != "Shark B" {
		t.Errorf("items = %v", got)
	}
}

// ---------------------------------------------------------------------------
// Execution modes
// ---------------------------------------------------------------------------

func TestRankModesAgree(t *testing.T) {
	svc, _ := newTestService(t,
		newMovie("The Matrix", 1999, 8.7, domain.CategoryAction, domain.CategorySciFi),
		newMovie("Crime Story", 1993, 7.5, domain.CategoryCrime),
		newMovie("Heat", 1995, 8.3, domain.CategoryCrime, domain.CategoryDrama),
		newMovie("Drama Club", 2010, 6.1, domain.CategoryComedy),
	)

	query := "crime drama matrix action"
	baseline := rank(t, svc, query, Options{NoCache: true})

	variants := map[string]Options{
		"cached":            {},
		"cached again":      {},
		"no cache":          {NoCache: true},
		"parallel":          {Parallel: true},
		"parallel no cache": {Parallel: true, NoCache: true},
	}
	for name, opts := range variants {
		response := rank(t, svc, query, opts)
		if len(response.Items) != len(baseline.Items) {
			t.Fatalf("%s: %d items, want %d", name, len(response.Items), len(baseline.Items))
		}
		for i := range baseline.Items {
			if !response.Items[i].Equal(baseline.Items[i]) {
				t.Errorf("%s: item %d = %s, want %s", name, i, response.Items[i].Title, baseline.Items[i].Title)
			}
		}
	}
}

func TestRankRepeatedCallsStable(t *testing.T) {
	svc, _ := newTestService(t,
		newMovie("Shark A", 2001, 5.0, domain.CategoryThriller),
		newMovie("Shark B", 2002, 5.0, domain.CategoryThriller),
		newMovie("Shark C", 2003, 5.0, domain.CategoryThriller),
	)

	first := rank(t, svc, "shark thriller", Options{Parallel: true})
	for i := 0; i < 10; i++ {
		again := rank(t, svc, "shark thriller", Options{Parallel: true})
		for j := range first.Items {
			if !again.Items[j].Equal(first.Items[j]) {
				t.Fatalf("run %d diverged at item %d", i, j)
			}
		}
	}
}

func TestRankCanceledContextParallel(t *testing.T) {
	svc, _ := newTestService(t, newMovie("The Matrix", 1999, 8.7))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Rank(ctx, "matrix reloaded revolutions", Options{Parallel: true}); err == nil {
		t.Fatal("canceled context must surface an error")
	}
}

// ---------------------------------------------------------------------------
// Cache behavior against mutation
// ---------------------------------------------------------------------------

func TestRankSeesMutationsDespiteCache(t *testing.T) {
	svc, store := newTestService(t, newMovie("Shark A", 2001, 5.0))

	first := rank(t, svc, "shark", Options{})
	if len(first.Items) != 1 {
		t.Fatalf("items = %v", titles(first.Items))
	}

	store.Add(newMovie("Shark B", 2002, 5.0))
	second := rank(t, svc, "shark", Options{})
	if len(second.Items) != 2 {
		t.Fatalf("after add: items = %v, want 2", titles(second.Items))
	}

	store.Remove(newMovie("Shark A", 2001, 5.0))
	third := rank(t, svc, "shark", Options{})
	if len(third.Items) != 1 || third.Items[0].Title != "Shark B" {
		t.Fatalf("after remove: items = %v, want [Shark B]", titles(third.Items))
	}
}

func TestRankDuplicateAddDoesNotChangeResults(t *testing.T) {
	svc, store := newTestService(t, newMovie("Shark A", 2001, 5.0))

	first := rank(t, svc, "shark", Options{})
	store.Add(newMovie("Shark A", 2001, 5.0))
	second := rank(t, svc, "shark", Options{})
	if len(first.Items) != len(second.Items) {
		t.Fatalf("duplicate add changed results: %v vs %v", titles(first.Items), titles(second.Items))
	}
}

// ---------------------------------------------------------------------------
// TopMatch
// ---------------------------------------------------------------------------

func TestTopMatch(t *testing.T) {
	svc, _ := newTestService(t,
		newMovie("Heat", 1995, 8.3, domain.CategoryCrime),
		newMovie("Crime Story", 1993, 7.5, domain.CategoryCrime),
	)

	best, ok, err := svc.TopMatch(context.Background(), "crime", Options{})
	if err != nil {
		t.Fatalf("TopMatch error: %v", err)
	}
	if !ok || best.Title != "Crime Story" {
		t.Fatalf("best = %q ok=%v, want Crime Story", best.Title, ok)
	}

	_, ok, err = svc.TopMatch(context.Background(), "zzzz", Options{})
	if err != nil {
		t.Fatalf("TopMatch error: %v", err)
	}
	if ok {
		t.Fatal("no-hit query must report no match")
	}
}
