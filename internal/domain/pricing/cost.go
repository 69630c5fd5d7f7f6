package pricing

import (
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
)

// Costs contains the operating cost side of the breakdown.
type Costs struct {
	FoodCost           float64
	FoodCostPercent    float64
	FoodCostOverridden bool
	SuppliesCost       float64
	TransportationCost float64
	TotalCosts         float64
}

// Cost computes food, supplies and transportation cost for a priced event.
// FoodCostPercent is always derived from the final food cost so that an
// override shows up in the safety checks.
func Cost(in model.EventInput, rs rules.RuleSet, subtotal float64) Costs {
	foodCost := subtotal * rs.FoodCostPercent(in.Slot()) / 100
	overridden := false
	if nonNegative(in.FoodCostOverride) {
		foodCost = *in.FoodCostOverride
		overridden = true
	}

	foodPercent := 0.0
	if subtotal > 0 {
		foodPercent = foodCost / subtotal * 100
	}

	supplies := subtotal * rs.Costs.SuppliesCostPercent / 100
	transport := rs.Costs.TransportationStipend

	return Costs{
		FoodCost:           foodCost,
		FoodCostPercent:    foodPercent,
		FoodCostOverridden: overridden,
		SuppliesCost:       supplies,
		TransportationCost: transport,
		TotalCosts:         foodCost + supplies + transport,
	}
}
