package namematch

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Arsenal FC", "arsenal fc"},
		{"strips diacritics", "Bayern München", "bayern munchen"},
		{"strips punctuation", "St. Étienne-Loire", "st etienne loire"},
		{"collapses whitespace", "  Real   Madrid  ", "real madrid"},
		{"keeps digits", "Schalke 04", "schalke 04"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoreTiers(t *testing.T) {
	exact := Score("arsenal", "arsenal")
	containment := Score("arsenal fc", "arsenal")
	overlap := Score("arsenal london fc", "arsenal club")
	miss := Score("arsenal", "chelsea")

	if exact != 1.0 {
		t.Errorf("exact match should score 1.0, got %v", exact)
	}
	if !(exact > containment) {
		t.Errorf("exact (%v) should beat containment (%v)", exact, containment)
	}
	if !(containment > overlap) {
		t.Errorf("containment (%v) should beat token overlap (%v)", containment, overlap)
	}
	if !(overlap > miss) {
		t.Errorf("token overlap (%v) should beat a miss (%v)", overlap, miss)
	}
	if miss != 0 {
		t.Errorf("disjoint names should score 0, got %v", miss)
	}
}

func TestScoreBounds(t *testing.T) {
	pairs := [][2]string{
		{"a b c", "a b c"},
		{"a b c", "c d e"},
		{"", "anything"},
		{"one", ""},
	}
	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %v, out of [0, 1]", p[0], p[1], got)
		}
	}
}

func TestPairScoreDiacriticsAndCase(t *testing.T) {
	// The same fixture reported with diacritics/case differences must score
	// as an exact match.
	got := PairScore("Bayern München", "1. FC Köln", "bayern munchen", "1 fc koln")
	if got != 1.0 {
		t.Errorf("PairScore with only diacritic/case differences = %v, want 1.0", got)
	}
}

func TestPairScoreAveragesBothTeams(t *testing.T) {
	// One matching team name alone must not carry the fixture.
	oneSide := PairScore("Arsenal", "Chelsea", "Arsenal", "Everton")
	bothSides := PairScore("Arsenal", "Chelsea", "Arsenal", "Chelsea")
	if !(bothSides > oneSide) {
		t.Errorf("both-team match (%v) should beat one-team match (%v)", bothSides, oneSide)
	}
	if oneSide != 0.5 {
		t.Errorf("single exact side should average to 0.5, got %v", oneSide)
	}
}
