// Package namematch identifies the same real-world fixture under
// inconsistent naming. It exposes a typed similarity score in [0, 1] with an
// explicit acceptance threshold and explicit ambiguity rejection, instead of
// implicit first-match-wins.
package namematch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Similarity tiers. Exact beats containment beats token overlap; token
// overlap is scaled below the containment tier so the ordering always holds.
const (
	scoreExact          = 1.0
	scoreContainment    = 0.75
	tokenOverlapCeiling = 0.7
)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize case-folds a name, strips diacritics and punctuation and
// collapses whitespace, so "Bayern München" and "bayern munchen" compare equal.
func Normalize(name string) string {
	folded := strings.ToLower(name)
	if stripped, _, err := transform.String(stripDiacritics, folded); err == nil {
		folded = stripped
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Score compares two already-normalized names and returns a similarity in
// [0, 1]: exact match > substring containment > token overlap.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return scoreExact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return scoreContainment
	}
	return tokenOverlap(a, b) * tokenOverlapCeiling
}

// PairScore scores a fixture as the mean of its home and away name scores,
// so one coincidentally similar team name cannot carry the match alone.
func PairScore(homeA, awayA, homeB, awayB string) float64 {
	return (Score(Normalize(homeA), Normalize(homeB)) + Score(Normalize(awayA), Normalize(awayB))) / 2
}

// tokenOverlap is the Jaccard index over whitespace-separated tokens.
func tokenOverlap(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		setB[t] = struct{}{}
	}

	shared := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
