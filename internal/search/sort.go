package search

import (
	"sort"

	"mediacatalog/searchservice/internal/domain"
)

// SortMedia orders a catalog listing in place. The primary key comes from
// SortBy with SortOrder applied to it; ties always fall through to title,
// release year and full record identity ascending, so the result is a total
// order regardless of the primary key.
func SortMedia(items []domain.Media, by domain.SortBy, order domain.SortOrder) {
	desc := order == domain.SortOrderDesc
	sort.Slice(items, func(i, j int) bool {
		left, right := items[i], items[j]

		var cmp int
		switch by {
		case domain.SortByReleaseYear:
			cmp = compareInt(left.ReleaseYear, right.ReleaseYear)
		case domain.SortByRating:
			cmp = compareFloat64(left.Rating, right.Rating)
		default:
			cmp = compareString(left.Title, right.Title)
		}
		if desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}

		if left.Title != right.Title {
			return left.Title < right.Title
		}
		if left.ReleaseYear != right.ReleaseYear {
			return left.ReleaseYear < right.ReleaseYear
		}
		return left.Key() < right.Key()
	})
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
