package domain

import (
	"slices"
	"strconv"
	"strings"
)

type MediaKind string

const (
	MediaKindMovie  MediaKind = "movie"
	MediaKindSeries MediaKind = "series"
)

// Media is one catalog record, movie or series. The two variants share one
// struct with a kind tag; the series-only fields stay zero-valued on movies.
// Records are plain values: equality over all fields defines catalog
// membership, and nothing holds a reference into a stored record.
type Media struct {
	Kind        MediaKind  `json:"kind"`
	Title       string     `json:"title"`
	ReleaseYear int        `json:"releaseYear"`
	Categories  []Category `json:"categories"`
	Rating      float64    `json:"rating"`

	// Series only. EndYear is meaningful only when Ended is true.
	// SeasonLengths[i] is the episode count of season i+1.
	Ended         bool  `json:"ended,omitempty"`
	EndYear       int   `json:"endYear,omitempty"`
	SeasonLengths []int `json:"seasonLengths,omitempty"`
}

// Equal reports field-by-field value equality, slices element-wise.
func (m Media) Equal(other Media) bool {
	return m.Kind == other.Kind &&
		m.Title == other.Title &&
		m.ReleaseYear == other.ReleaseYear &&
		m.Rating == other.Rating &&
		m.Ended == other.Ended &&
		m.EndYear == other.EndYear &&
		slices.Equal(m.Categories, other.Categories) &&
		slices.Equal(m.SeasonLengths, other.SeasonLengths)
}

// Key returns a canonical encoding of every field. Two media share a key iff
// they are Equal, so the key serves as the set identity wherever records are
// deduplicated (store membership, score maps, cache entries).
func (m Media) Key() string {
	var b strings.Builder
	b.WriteString(string(m.Kind))
	b.WriteByte(0x1f)
	b.WriteString(m.Title)
	b.WriteByte(0x1f)
	b.WriteString(strconv.Itoa(m.ReleaseYear))
	b.WriteByte(0x1f)
	for i, c := range m.Categories {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(c)))
	}
	b.WriteByte(0x1f)
	b.WriteString(strconv.FormatFloat(m.Rating, 'g', -1, 64))
	b.WriteByte(0x1f)
	b.WriteString(strconv.FormatBool(m.Ended))
	b.WriteByte(0x1f)
	b.WriteString(strconv.Itoa(m.EndYear))
	b.WriteByte(0x1f)
	for i, n := range m.SeasonLengths {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// String renders the record in the source line format.
func (m Media) String() string {
	var b strings.Builder
	b.WriteString(m.Title)
	b.WriteString("; ")
	b.WriteString(strconv.Itoa(m.ReleaseYear))
	if m.Kind == MediaKindSeries {
		b.WriteByte('-')
		if m.Ended {
			b.WriteString(strconv.Itoa(m.EndYear))
		}
	}
	b.WriteString("; ")
	b.WriteString(m.categoriesString())
	b.WriteString("; ")
	b.WriteString(strconv.FormatFloat(m.Rating, 'g', -1, 64))
	b.WriteString(";")
	if m.Kind == MediaKindSeries {
		b.WriteByte(' ')
		for i, n := range m.SeasonLengths {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteByte('-')
			b.WriteString(strconv.Itoa(n))
		}
		b.WriteString(";")
	}
	return b.String()
}

func (m Media) categoriesString() string {
	parts := make([]string, len(m.Categories))
	for i, c := range m.Categories {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
