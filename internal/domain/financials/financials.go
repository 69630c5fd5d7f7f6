// Package financials is the engine entry point: it runs pricing, costing,
// staffing, labor, profit and safety checks for one booking and assembles
// the complete breakdown.
//
// Compute is a pure function of its arguments. It never mutates the input
// or the rule set, and every slice in the result is freshly allocated, so
// it is safe to call concurrently with shared rule sets.
package financials

import (
	"github.com/okian/banquet/internal/domain/labor"
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/pricing"
	"github.com/okian/banquet/internal/domain/profit"
	"github.com/okian/banquet/internal/domain/rules"
	"github.com/okian/banquet/internal/domain/safety"
	"github.com/okian/banquet/internal/domain/staffing"
)

// Compute produces the financial breakdown for an event. rs is expected to
// be normalized; see rules.Normalize.
func Compute(in model.EventInput, rs rules.RuleSet) model.EventFinancials {
	price := pricing.Price(in, rs)
	cost := pricing.Cost(in, rs, price.Subtotal)

	plan := staffing.Plan(in.GuestCount(), in.EventType, rs, in.StaffingProfileID)
	comp := labor.Compensate(price.Subtotal, price.Gratuity, in.EventType, plan, rs, in.StaffPayOverrides)
	totals := labor.Sum(comp)

	revenue := price.Subtotal + price.Gratuity
	laborPct := percentOf(totals.Paid, revenue)

	dist := profit.Distribute(price.Subtotal, price.Gratuity, cost.TotalCosts, totals.Paid, rs)
	warnings := safety.Check(laborPct, cost.FoodCostPercent, rs)

	return model.EventFinancials{
		Guests: model.Guests{
			Adults:   in.Adults,
			Children: in.Children,
			Total:    in.GuestCount(),
		},
		EventType:   in.EventType,
		PricingSlot: price.Slot,

		BasePrice:          price.BasePrice,
		ChildPrice:         price.ChildPrice,
		Subtotal:           price.Subtotal,
		SubtotalOverridden: price.SubtotalOverridden,
		GratuityPercent:    price.GratuityPercent,
		Gratuity:           price.Gratuity,
		DistanceFee:        price.DistanceFee,
		TotalCharged:       price.TotalCharged,
		DepositPercent:     price.DepositPercent,
		DepositAmount:      price.DepositAmount,
		BalanceDue:         price.BalanceDue,

		FoodCost:           cost.FoodCost,
		FoodCostPercent:    cost.FoodCostPercent,
		FoodCostOverridden: cost.FoodCostOverridden,
		SuppliesCost:       cost.SuppliesCost,
		TransportationCost: cost.TransportationCost,
		TotalCosts:         cost.TotalCosts,

		Staffing:              plan,
		LaborCompensation:     comp,
		TotalLaborCalculated:  totals.Calculated,
		TotalLaborPaid:        totals.Paid,
		TotalExcessToProfit:   totals.Excess,
		LaborPercentOfRevenue: laborPct,

		TotalRevenue:        revenue,
		GrossProfit:         dist.GrossProfit,
		ProfitMarginPercent: percentOf(dist.GrossProfit, revenue),
		RetainedAmount:      dist.RetainedAmount,
		DistributionAmount:  dist.DistributionAmount,
		OwnerDistributions:  dist.Owners,

		Warnings: warnings,
	}
}

func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
