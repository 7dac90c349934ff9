// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// minContainmentRunes keeps short generic names ("park") from matching
	// every longer name that contains them.
	minContainmentRunes = 4

	// nearEqualSimilarity is the normalized edit similarity at which two
	// names are considered the same.
	nearEqualSimilarity = 0.85
)

// FoldName lowercases s, strips diacritics and collapses every run of
// non-alphanumeric characters into a single space.
//
//	FoldName("  Musée d'Orsay ") == "musee d orsay"
func FoldName(s string) string {
	// transformers carry state, so one is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// NamesMatch reports whether two display names are fuzzy-equal: identical
// after folding (ignoring spaces), one containing the other on word
// boundaries, or within a small edit distance.
func NamesMatch(a, b string) bool {
	fa, fb := FoldName(a), FoldName(b)
	if fa == "" || fb == "" {
		return false
	}
	if fa == fb || strings.ReplaceAll(fa, " ", "") == strings.ReplaceAll(fb, " ", "") {
		return true
	}

	short, long := fa, fb
	if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
		short, long = long, short
	}
	if utf8.RuneCountInString(short) >= minContainmentRunes &&
		strings.Contains(" "+long+" ", " "+short+" ") {
		return true
	}

	return similarity(fa, fb) >= nearEqualSimilarity
}

// MatchesQuery reports whether the folded query occurs in any of the fields.
// An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	q := FoldName(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(FoldName(f), q) {
			return true
		}
	}
	return false
}

// similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)) over runes.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
