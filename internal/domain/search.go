package domain

type SortBy string

const (
	SortByTitle       SortBy = "title"
	SortByReleaseYear SortBy = "releaseYear"
	SortByRating      SortBy = "rating"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

type SearchResponse struct {
	Query      string  `json:"query"`
	Items      []Media `json:"items"`
	TotalItems int     `json:"totalItems"`
	Limit      int     `json:"limit"`
	ElapsedMS  int64   `json:"elapsedMs"`
	Parallel   bool    `json:"parallel,omitempty"`
}

type CatalogResponse struct {
	Items      []Media   `json:"items"`
	TotalItems int       `json:"totalItems"`
	SortBy     SortBy    `json:"sortBy"`
	SortOrder  SortOrder `json:"sortOrder"`
}

func NormalizeSortBy(raw string) SortBy {
	switch SortBy(raw) {
	case SortByReleaseYear:
		return SortByReleaseYear
	case SortByRating:
		return SortByRating
	default:
		return SortByTitle
	}
}

func NormalizeSortOrder(raw string) SortOrder {
	switch SortOrder(raw) {
	case SortOrderDesc:
		return SortOrderDesc
	default:
		return SortOrderAsc
	}
}
