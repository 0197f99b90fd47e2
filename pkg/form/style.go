package form

import (
	"strings"

	"github.com/agnivade/levenshtein"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
)

// Style is a background generation style understood by the service.
type Style string

const (
	StyleDefault   Style = "DEFAULT"
	StyleKandinsky Style = "KANDINSKY"
	StyleUHD       Style = "UHD"
	StyleAnime     Style = "ANIME"
)

// Styles lists every style in display order.
var Styles = []Style{StyleDefault, StyleKandinsky, StyleUHD, StyleAnime}

// maxSuggestDistance bounds how far a typo may be from a style name and
// still be suggested.
const maxSuggestDistance = 3

// ParseStyle parses a style name case-insensitively. An empty name is
// StyleDefault.
func ParseStyle(s string) (Style, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return StyleDefault, nil
	}
	for _, st := range Styles {
		if string(st) == name {
			return st, nil
		}
	}
	if hint := suggestStyle(name); hint != "" {
		return "", apperr.New(apperr.ErrCodeInvalidStyle, "unknown style %q, did you mean %s?", s, hint)
	}
	return "", apperr.New(apperr.ErrCodeInvalidStyle, "unknown style %q (want one of %s)", s, styleList())
}

// Next returns the style after st, wrapping around.
func (st Style) Next() Style {
	for i, s := range Styles {
		if s == st {
			return Styles[(i+1)%len(Styles)]
		}
	}
	return StyleDefault
}

func suggestStyle(name string) Style {
	best, bestDist := Style(""), maxSuggestDistance+1
	for _, st := range Styles {
		if d := levenshtein.ComputeDistance(name, string(st)); d < bestDist {
			best, bestDist = st, d
		}
	}
	return best
}

func styleList() string {
	names := make([]string, len(Styles))
	for i, st := range Styles {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
