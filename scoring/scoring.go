// Package scoring computes prediction points from predicted vs. actual
// results. It is pure: no I/O, no side effects, deterministic for the same
// inputs, so settlement can be re-run safely at any time.
package scoring

// Scoreline is a (home, away) score pair.
type Scoreline struct {
	Home int
	Away int
}

// Outcome is the direction of a result: home win, draw or away win.
type Outcome int

const (
	OutcomeHomeWin Outcome = iota
	OutcomeDraw
	OutcomeAwayWin
)

// Outcome classifies the scoreline's direction.
func (s Scoreline) Outcome() Outcome {
	switch {
	case s.Home > s.Away:
		return OutcomeHomeWin
	case s.Home < s.Away:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// RuleSet maps prediction accuracy categories to point values. Values are
// configuration per sport, not constants: different sports may use
// different scales.
type RuleSet struct {
	ExactScore     int
	CorrectOutcome int
	Miss           int
}

// DefaultRuleSet is the classic 3/1/0 football scale.
var DefaultRuleSet = RuleSet{ExactScore: 3, CorrectOutcome: 1, Miss: 0}

// ruleSetsBySport holds per-sport overrides; sports without an entry use
// DefaultRuleSet.
var ruleSetsBySport = map[string]RuleSet{
	"football":   {ExactScore: 3, CorrectOutcome: 1, Miss: 0},
	"ice_hockey": {ExactScore: 4, CorrectOutcome: 2, Miss: 0},
}

// RuleSetFor selects the rule set for a sport by name.
func RuleSetFor(sport string) RuleSet {
	if rules, ok := ruleSetsBySport[sport]; ok {
		return rules
	}
	return DefaultRuleSet
}

// ComputePoints classifies the relationship between the predicted and the
// actual scoreline and returns the configured point value: exact scoreline,
// correct outcome direction with a wrong score, or a miss.
func ComputePoints(predicted, actual Scoreline, rules RuleSet) int {
	if predicted == actual {
		return rules.ExactScore
	}
	if predicted.Outcome() == actual.Outcome() {
		return rules.CorrectOutcome
	}
	return rules.Miss
}
