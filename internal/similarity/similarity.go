// Package similarity scores how closely two human-entered names match.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// Exact is the score of two names equal after normalization.
	Exact = 1.0

	// ResolveThreshold is the minimum score accepted when resolving a name to an id.
	ResolveThreshold = 0.5

	// AllowListThreshold is the minimum score for an allow-list entry to match a project name.
	AllowListThreshold = 0.8
)

// pictograph reports code points in the emoji, emoticon and dingbat blocks.
func pictograph(r rune) bool {
	return (r >= 0x1F300 && r <= 0x1F9FF) ||
		(r >= 0x1F600 && r <= 0x1F64F) ||
		(r >= 0x2700 && r <= 0x27BF)
}

// Normalize decomposes s, drops diacritics and pictographs, lower-cases and trims it.
func Normalize(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Diacritic)),
		runes.Remove(runes.Predicate(pictograph)),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Score returns a similarity in [0,1]. It is symmetric in its arguments.
func Score(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return Exact
	}

	contains := 0.0
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		contains = 0.8
	}

	wa, wb := wordSet(na), wordSet(nb)
	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	words := float64(common) / float64(max(len(wa), len(wb)))

	la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	lengthPenalty := 1 - float64(diff)/float64(max(la, lb))

	return max(contains*0.6+lengthPenalty*0.4, words*0.7+lengthPenalty*0.3)
}

// wordSet splits s on whitespace. An empty string yields one empty word.
func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		fields = []string{""}
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
