package scoring

import "testing"

func TestComputePoints(t *testing.T) {
	rules := RuleSet{ExactScore: 3, CorrectOutcome: 1, Miss: 0}

	tests := []struct {
		name      string
		predicted Scoreline
		actual    Scoreline
		want      int
	}{
		{"exact score", Scoreline{2, 1}, Scoreline{2, 1}, 3},
		{"correct outcome wrong score", Scoreline{1, 0}, Scoreline{2, 1}, 1},
		{"wrong outcome", Scoreline{0, 2}, Scoreline{2, 1}, 0},
		{"predicted draw actual home win", Scoreline{1, 1}, Scoreline{2, 1}, 0},
		{"exact draw", Scoreline{0, 0}, Scoreline{0, 0}, 3},
		{"correct draw wrong score", Scoreline{1, 1}, Scoreline{2, 2}, 1},
		{"correct away win wrong score", Scoreline{0, 3}, Scoreline{1, 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputePoints(tt.predicted, tt.actual, rules); got != tt.want {
				t.Errorf("ComputePoints(%v, %v) = %d, want %d", tt.predicted, tt.actual, got, tt.want)
			}
		})
	}
}

func TestComputePointsIsDeterministic(t *testing.T) {
	rules := DefaultRuleSet
	predicted := Scoreline{2, 1}
	actual := Scoreline{2, 1}

	first := ComputePoints(predicted, actual, rules)
	for i := 0; i < 10; i++ {
		if got := ComputePoints(predicted, actual, rules); got != first {
			t.Fatalf("recomputation yielded %d, first run yielded %d", got, first)
		}
	}
}

func TestScorelineOutcome(t *testing.T) {
	tests := []struct {
		scoreline Scoreline
		want      Outcome
	}{
		{Scoreline{2, 1}, OutcomeHomeWin},
		{Scoreline{0, 0}, OutcomeDraw},
		{Scoreline{1, 3}, OutcomeAwayWin},
	}

	for _, tt := range tests {
		if got := tt.scoreline.Outcome(); got != tt.want {
			t.Errorf("Outcome(%v) = %v, want %v", tt.scoreline, got, tt.want)
		}
	}
}

func TestRuleSetFor(t *testing.T) {
	if got := RuleSetFor("football"); got != (RuleSet{ExactScore: 3, CorrectOutcome: 1, Miss: 0}) {
		t.Errorf("RuleSetFor(football) = %+v", got)
	}
	if got := RuleSetFor("ice_hockey"); got.ExactScore != 4 {
		t.Errorf("RuleSetFor(ice_hockey).ExactScore = %d, want 4", got.ExactScore)
	}
	if got := RuleSetFor("curling"); got != DefaultRuleSet {
		t.Errorf("unknown sport should fall back to the default rule set, got %+v", got)
	}
}
