package search

import (
	"testing"

	"mediacatalog/searchservice/internal/domain"
)

func sortFixture() []domain.Media {
	return []domain.Media{
		newMovie("Ronin", 1998, 7.2),
		newMovie("Heat", 1995, 8.3),
		newMovie("Thief", 1981, 7.4),
	}
}

func assertTitleOrder(t *testing.T, items []domain.Media, want ...string) {
	t.Helper()
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i].Title != want[i] {
			t.Fatalf("order = %v, want %v", titles(items), want)
		}
	}
}

func TestSortMediaByTitle(t *testing.T) {
	items := sortFixture()
	SortMedia(items, domain.SortByTitle, domain.SortOrderAsc)
	assertTitleOrder(t, items, "Heat", "Ronin", "Thief")

	SortMedia(items, domain.SortByTitle, domain.SortOrderDesc)
	assertTitleOrder(t, items, "Thief", "Ronin", "Heat")
}

func TestSortMediaByReleaseYear(t *testing.T) {
	items := sortFixture()
	SortMedia(items, domain.SortByReleaseYear, domain.SortOrderAsc)
	assertTitleOrder(t, items, "Thief", "Heat", "Ronin")

	SortMedia(items, domain.SortByReleaseYear, domain.SortOrderDesc)
	assertTitleOrder(t, items, "Ronin", "Heat", "Thief")
}

func TestSortMediaByRating(t *testing.T) {
	items := sortFixture()
	SortMedia(items, domain.SortByRating, domain.SortOrderAsc)
	assertTitleOrder(t, items, "Ronin", "Thief", "Heat")

	SortMedia(items, domain.SortByRating, domain.SortOrderDesc)
	assertTitleOrder(t, items, "Heat", "Thief", "Ronin")
}

func TestSortMediaTiesFallThroughToTitle(t *testing.T) {
	items := []domain.Media{
		newMovie("Zulu", 1964, 7.7),
		newMovie("Alien", 1979, 7.7),
		newMovie("Brazil", 1985, 7.7),
	}
	// Equal ratings: the ascending tiebreak applies even under a
	// descending primary order.
	SortMedia(items, domain.SortByRating, domain.SortOrderDesc)
	assertTitleOrder(t, items, "Alien", "Brazil", "Zulu")
}

func TestSortMediaEqualTitlesFallThroughToYear(t *testing.T) {
	items := []domain.Media{
		newMovie("Remake", 2020, 5.0),
		newMovie("Remake", 1980, 5.0),
	}
	SortMedia(items, domain.SortByTitle, domain.SortOrderAsc)
	if items[0].ReleaseYear != 1980 {
		t.Fatalf("years = [%d %d], want ascending", items[0].ReleaseYear, items[1].ReleaseYear)
	}
}

func TestSortMediaDeterministic(t *testing.T) {
	build := func() []domain.Media {
		return []domain.Media{
			newMovie("Twin", 2000, 6.0, domain.CategoryDrama),
			newMovie("Twin", 2000, 6.0, domain.CategoryComedy),
			newMovie("Twin", 2000, 6.0),
		}
	}

	first := build()
	SortMedia(first, domain.SortByTitle, domain.SortOrderAsc)
	for i := 0; i < 5; i++ {
		again := build()
		SortMedia(again, domain.SortByTitle, domain.SortOrderAsc)
		for j := range first {
			if !again[j].Equal(first[j]) {
				t.Fatalf("run %d diverged at index %d", i, j)
			}
		}
	}
}
