package catalog

import (
	"errors"
	"fmt"
)

// ParseErrorKind identifies the grammar rule a malformed line violated. Each
// parse failure site has exactly one kind, so callers can report or count
// failures precisely instead of seeing a generic error.
type ParseErrorKind string

const (
	KindBadReleaseYear   ParseErrorKind = "bad_release_year"
	KindBadEndYear       ParseErrorKind = "bad_end_year"
	KindBadCategory      ParseErrorKind = "bad_category"
	KindBadRating        ParseErrorKind = "bad_rating"
	KindBadSeasonToken   ParseErrorKind = "bad_season_token"
	KindBadSeasonNumber  ParseErrorKind = "bad_season_number"
	KindSeasonOutOfOrder ParseErrorKind = "season_out_of_order"
	KindPrematureEnd     ParseErrorKind = "premature_end"
	KindTrailingContent  ParseErrorKind = "trailing_content"
)

// ParseError is a recoverable, per-line failure. Token holds the offending
// substring when one exists; Line always holds the full original line.
type ParseError struct {
	Kind  ParseErrorKind
	Token string
	Line  string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %q in line %q", describeKind(e.Kind), e.Token, e.Line)
	}
	return fmt.Sprintf("%s in line %q", describeKind(e.Kind), e.Line)
}

func describeKind(kind ParseErrorKind) string {
	switch kind {
	case KindBadReleaseYear:
		return "cannot parse release year"
	case KindBadEndYear:
		return "cannot parse end year"
	case KindBadCategory:
		return "unknown category"
	case KindBadRating:
		return "cannot parse rating"
	case KindBadSeasonToken:
		return "season token missing separator"
	case KindBadSeasonNumber:
		return "cannot parse season entry"
	case KindSeasonOutOfOrder:
		return "season numbers out of order"
	case KindPrematureEnd:
		return "line ended prematurely"
	case KindTrailingContent:
		return "unexpected trailing content"
	default:
		return string(kind)
	}
}

func parseErr(kind ParseErrorKind, token, line string) *ParseError {
	return &ParseError{Kind: kind, Token: token, Line: line}
}

// ErrorKind extracts the kind from a parse failure anywhere in an error
// chain. It returns the empty kind for non-parse errors.
func ErrorKind(err error) ParseErrorKind {
	var parseError *ParseError
	if errors.As(err, &parseError) {
		return parseError.Kind
	}
	return ""
}
