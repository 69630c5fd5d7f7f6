// Package safety compares realized cost ratios against the configured
// ceilings. Warnings are advisory; they never change any amount.
package safety

import (
	"fmt"
	"math"

	"github.com/okian/banquet/internal/domain/rules"
)

// Kind classifies a warning.
type Kind string

const (
	KindLabor    Kind = "labor"
	KindFoodCost Kind = "food_cost"
)

// equityTolerance absorbs rounding in configured equity percentages.
const equityTolerance = 0.01

// Warning is one advisory finding.
type Warning struct {
	Kind    Kind
	Message string
}

// Evaluate compares the labor and food-cost ratios against their ceilings
// and returns the findings labor first. Owner equity is a rule-set concern
// and is reported by CheckEquity only.
func Evaluate(laborPct, foodPct float64, rs rules.RuleSet) []Warning {
	out := []Warning{}
	limits := rs.SafetyLimits
	if !limits.WarnWhenExceeded {
		return out
	}
	if laborPct > limits.MaxTotalLaborPercent {
		out = append(out, Warning{
			Kind: KindLabor,
			Message: fmt.Sprintf("Labor is %.1f%% of revenue, above the %.1f%% limit",
				laborPct, limits.MaxTotalLaborPercent),
		})
	}
	if foodPct > limits.MaxFoodCostPercent {
		out = append(out, Warning{
			Kind: KindFoodCost,
			Message: fmt.Sprintf("Food cost is %.1f%% of revenue, above the %.1f%% limit",
				foodPct, limits.MaxFoodCostPercent),
		})
	}
	return out
}

// Check returns the labor and food-cost warnings as text.
func Check(laborPct, foodPct float64, rs rules.RuleSet) []string {
	return Messages(Evaluate(laborPct, foodPct, rs))
}

// CheckEquity returns a warning when owner equity does not add up to 100.
// It is silenced together with the ratio warnings.
func CheckEquity(rs rules.RuleSet) []string {
	out := []string{}
	if !rs.SafetyLimits.WarnWhenExceeded {
		return out
	}
	if sum, ok := equitySum(rs.ProfitDistribution.Owners); !ok {
		out = append(out, fmt.Sprintf("Owner equity adds up to %.2f%%, not 100%%", sum))
	}
	return out
}

// Messages flattens warnings into their text.
func Messages(ws []Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Message)
	}
	return out
}

func equitySum(owners []rules.Owner) (float64, bool) {
	if len(owners) == 0 {
		return 0, true
	}
	var sum float64
	for _, o := range owners {
		sum += o.EquityPercent
	}
	return sum, math.Abs(sum-100) <= equityTolerance
}
