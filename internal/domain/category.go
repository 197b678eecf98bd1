package domain

import (
	"fmt"
	"strings"
)

// Category is one tag from the fixed catalog vocabulary. The set is closed:
// new categories are a code change, not data.
type Category int

const (
	CategoryAction Category = iota
	CategoryAdventure
	CategoryBiography
	CategoryComedy
	CategoryCrime
	CategoryDrama
	CategoryFamily
	CategoryFantasy
	CategoryHistory
	CategoryHorror
	CategoryMystery
	CategoryRomance
	CategorySciFi
	CategorySport
	CategoryThriller
	CategoryWar
	CategoryWestern
	CategoryFilmNoir
	CategoryMusic
	CategoryMusical
	CategoryAnimation
	CategoryDocumentary
	CategoryTalkShow

	categoryCount
)

// Display strings, indexed by Category. A few tags display differently from
// their identifier (SciFi renders as "Sci-fi").
var categoryDisplay = [categoryCount]string{
	CategoryAction:      "Action",
	CategoryAdventure:   "Adventure",
	CategoryBiography:   "Biography",
	CategoryComedy:      "Comedy",
	CategoryCrime:       "Crime",
	CategoryDrama:       "Drama",
	CategoryFamily:      "Family",
	CategoryFantasy:     "Fantasy",
	CategoryHistory:     "History",
	CategoryHorror:      "Horror",
	CategoryMystery:     "Mystery",
	CategoryRomance:     "Romance",
	CategorySciFi:       "Sci-fi",
	CategorySport:       "Sport",
	CategoryThriller:    "Thriller",
	CategoryWar:         "War",
	CategoryWestern:     "Western",
	CategoryFilmNoir:    "Film-Noir",
	CategoryMusic:       "Music",
	CategoryMusical:     "Musical",
	CategoryAnimation:   "Animation",
	CategoryDocumentary: "Documentary",
	CategoryTalkShow:    "Talk-show",
}

var (
	categoryByLower map[string]Category
	categoryLower   []string
)

func init() {
	categoryByLower = make(map[string]Category, categoryCount)
	categoryLower = make([]string, 0, categoryCount)
	for c, display := range categoryDisplay {
		lower := strings.ToLower(display)
		categoryByLower[lower] = Category(c)
		categoryLower = append(categoryLower, lower)
	}
}

// String returns the canonical display form.
func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryDisplay[c]
}

// MarshalJSON renders the display string, so API payloads and snapshots carry
// "Sci-fi" rather than an enum ordinal.
func (c Category) MarshalJSON() ([]byte, error) {
	if c < 0 || c >= categoryCount {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(`"` + categoryDisplay[c] + `"`), nil
}

func (c *Category) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, ok := CategoryFromString(raw)
	if !ok {
		return fmt.Errorf("unknown category %q", raw)
	}
	*c = parsed
	return nil
}

// CategoryFromString resolves a display string case-insensitively. Unknown
// strings report false; there is no default and no partial matching.
func CategoryFromString(raw string) (Category, bool) {
	c, ok := categoryByLower[strings.ToLower(raw)]
	return c, ok
}

// CategoryStringsLower returns the lowercase display vocabulary in declaration
// order. Callers must not mutate the returned slice.
func CategoryStringsLower() []string {
	return categoryLower
}
