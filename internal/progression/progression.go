// Package progression defines the XP level ladder and credit score rules.
package progression

// Credit score bounds
const (
	MinCreditScore      = 0
	MaxCreditScore      = 1000
	StartingCreditScore = 500
	// LoanMinCreditScore is the lowest score allowed to request a loan
	LoanMinCreditScore = 300
)

// XP and credit score awarded per action
const (
	TaskRewardXP         = 10
	TaskRewardCredit     = 10
	TaskRejectCredit     = -10
	GoalContributeXP     = 20
	GoalContributeCredit = 5
	SIPPaymentXP         = 15
	SIPPaymentCredit     = 5
	EMIPaymentXP         = 15
	EMIPaymentCredit     = 15
)

// Level is one rung of the XP ladder
type Level struct {
	Level      int    `json:"level"`
	Name       string `json:"name"`
	XPRequired int    `json:"xp_required"`
	Icon       string `json:"icon"`
}

var levels = []Level{
	{1, "Money Beginner", 0, "sprout"},
	{2, "Smart Saver", 100, "piggy-bank"},
	{3, "Goal Tracker", 250, "target"},
	{4, "Consistency Champ", 500, "trophy"},
	{5, "Budget Hero", 1000, "shield"},
	{6, "Mini Investor", 1750, "trending-up"},
	{7, "EMI Master", 2750, "award"},
	{8, "Discipline Pro", 4000, "star"},
	{9, "Finance Ninja", 5500, "zap"},
	{10, "Money Legend", 7500, "crown"},
}

// Levels returns a copy of the ladder
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// LevelForXP returns the highest level whose requirement is met
func LevelForXP(xp int) Level {
	current := levels[0]
	for _, l := range levels {
		if xp >= l.XPRequired {
			current = l
		}
	}
	return current
}

// NextLevel returns the level after current, or nil at the top
func NextLevel(current int) *Level {
	for _, l := range levels {
		if l.Level == current+1 {
			next := l
			return &next
		}
	}
	return nil
}

// ClampCreditScore bounds a score to the valid range
func ClampCreditScore(score int) int {
	if score < MinCreditScore {
		return MinCreditScore
	}
	if score > MaxCreditScore {
		return MaxCreditScore
	}
	return score
}
