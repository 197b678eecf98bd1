package catalog

import (
	"strconv"
	"strings"

	"mediacatalog/searchservice/internal/domain"
)

// The line grammar is semicolon-delimited:
//
//	movie:  title; releaseYear; cat1, cat2, ...; rating;
//	series: title; startYear[-[endYear]]; cat1, ...; rating; 1-len1, 2-len2, ...;
//
// Whether a line is a movie or a series is not known up front. A hyphen after
// the release year settles it early; otherwise the decision is deferred until
// the end of the line, where the presence of season tokens decides.

type parseState int

const (
	stateTitle parseState = iota
	stateReleaseYear
	stateEndYear
	stateCategories
	stateRating
	stateSeasons
	stateDone
)

type classification int

const (
	classUnknown classification = iota
	classMovie
	classSeries
)

// ParseLine parses one record line in a single left-to-right pass. The second
// return value is false for `//` comment lines, which carry no record and no
// error. The parser holds no state across calls: equal input always yields an
// equal record or an equal *ParseError.
func ParseLine(line string) (domain.Media, bool, error) {
	if strings.HasPrefix(line, "//") {
		return domain.Media{}, false, nil
	}

	state := stateTitle
	class := classUnknown

	var (
		title         string
		releaseYear   int
		ended         bool
		endYear       int
		categories    []domain.Category
		rating        float64
		seasonLengths []int
	)

	// Index just past the most recently consumed delimiter. All delimiters
	// are ASCII, so a byte scan is safe on UTF-8 and Latin-1 decoded text.
	last := 0

	for i := 0; i < len(line) && state != stateDone; i++ {
		c := line[i]
		semi := c == ';'

		switch state {
		case stateTitle:
			if !semi {
				continue
			}
			title = strings.TrimSpace(line[:i])
			last = i + 1
			state = stateReleaseYear

		case stateReleaseYear:
			if !semi && c != '-' {
				continue
			}
			raw := strings.TrimSpace(line[last:i])
			year, err := strconv.Atoi(raw)
			if err != nil {
				return domain.Media{}, false, parseErr(KindBadReleaseYear, raw, line)
			}
			releaseYear = year
			last = i + 1
			if semi {
				state = stateCategories
			} else {
				// The hyphen settles the classification: only series
				// carry a start-end year range.
				class = classSeries
				state = stateEndYear
			}

		case stateEndYear:
			if !semi {
				continue
			}
			raw := strings.TrimSpace(line[last:i])
			if raw != "" {
				year, err := strconv.Atoi(raw)
				if err != nil {
					return domain.Media{}, false, parseErr(KindBadEndYear, raw, line)
				}
				ended = true
				endYear = year
			}
			// A bare hyphen means the series is still running.
			last = i + 1
			state = stateCategories

		case stateCategories:
			if !semi && c != ',' {
				continue
			}
			raw := strings.TrimSpace(line[last:i])
			category, ok := domain.CategoryFromString(raw)
			if !ok {
				return domain.Media{}, false, parseErr(KindBadCategory, raw, line)
			}
			categories = append(categories, category)
			last = i + 1
			if semi {
				state = stateRating
			}

		case stateRating:
			if !semi {
				continue
			}
			raw := strings.TrimSpace(line[last:i])
			value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if err != nil {
				return domain.Media{}, false, parseErr(KindBadRating, raw, line)
			}
			rating = value
			last = i + 1
			// Classification may still be open here. Moving to the seasons
			// state is speculative: a movie line simply has no season
			// tokens after its rating.
			state = stateSeasons

		case stateSeasons:
			if !semi && c != ',' {
				continue
			}
			token := strings.TrimSpace(line[last:i])
			hyphen := strings.IndexByte(line[last:i], '-')
			if hyphen < 0 {
				return domain.Media{}, false, parseErr(KindBadSeasonToken, token, line)
			}
			number, err := strconv.Atoi(strings.TrimSpace(line[last : last+hyphen]))
			if err != nil {
				return domain.Media{}, false, parseErr(KindBadSeasonNumber, token, line)
			}
			if number != len(seasonLengths)+1 {
				return domain.Media{}, false, parseErr(KindSeasonOutOfOrder, token, line)
			}
			length, err := strconv.Atoi(strings.TrimSpace(line[last+hyphen+1 : i]))
			if err != nil {
				return domain.Media{}, false, parseErr(KindBadSeasonNumber, token, line)
			}
			seasonLengths = append(seasonLengths, length)
			last = i + 1
			if semi {
				state = stateDone
			}
		}
	}

	// End-of-line reconciliation. A line that resolved to series must have
	// consumed its full grammar. An unresolved line that stopped in the
	// seasons state classifies by the tokens it collected: none means movie,
	// one or more means a still-running series.
	if class == classSeries && state != stateDone {
		return domain.Media{}, false, parseErr(KindPrematureEnd, "", line)
	}
	if class == classUnknown {
		switch state {
		case stateDone, stateSeasons:
			if len(seasonLengths) > 0 {
				class = classSeries
			} else {
				class = classMovie
			}
		default:
			return domain.Media{}, false, parseErr(KindPrematureEnd, "", line)
		}
	}

	if rest := strings.TrimSpace(line[last:]); rest != "" {
		return domain.Media{}, false, parseErr(KindTrailingContent, rest, line)
	}

	media := domain.Media{
		Title:       title,
		ReleaseYear: releaseYear,
		Categories:  categories,
		Rating:      rating,
	}
	if class == classSeries {
		media.Kind = domain.MediaKindSeries
		media.Ended = ended
		media.EndYear = endYear
		media.SeasonLengths = seasonLengths
	} else {
		media.Kind = domain.MediaKindMovie
	}
	return media, true, nil
}
