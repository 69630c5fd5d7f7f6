// Package labor turns a staffing plan into per-position pay: base pay, a
// share of the gratuity, and an optional cap expressed as a percent of total
// event revenue. Pay capped away is reported as excess that stays in profit.
package labor

import (
	"math"

	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
)

// Totals aggregates a compensation list.
type Totals struct {
	Calculated float64
	Paid       float64
	Excess     float64
	Capped     int
}

// Compensate computes pay for every position of the plan, in plan order.
//
// On secondary events the gratuity is split equally across all positions.
// On primary events the chef positions share the chef split and assistants
// share the assistant split. A per-role override replaces the base pay
// percent, cap percent or gratuity split (as a percent of the whole
// gratuity) for every position of that role.
func Compensate(
	subtotal, gratuity float64,
	eventType model.EventType,
	plan model.StaffingPlan,
	rs rules.RuleSet,
	overrides map[model.Role]model.StaffPayOverride,
) []model.LaborCompensation {
	out := make([]model.LaborCompensation, 0, len(plan.Staff))
	if len(plan.Staff) == 0 {
		return out
	}

	totalRevenue := subtotal + gratuity
	primary := eventType.Slot().IsPrimary()

	var chefs, assistants int
	for _, pos := range plan.Staff {
		if pos.Role.IsChef() {
			chefs++
		} else {
			assistants++
		}
	}

	for _, pos := range plan.Staff {
		ov := overrides[pos.Role]

		basePct := rules.Resolve(pos.BasePayPercent, ov.BasePayPercent)
		capPct := rules.ResolveOptional(pos.CapPercent, ov.CapPercent)

		var share float64
		switch {
		case rules.Finite(ov.GratuitySplitPercent):
			share = gratuity * *ov.GratuitySplitPercent / 100
		case !primary:
			share = gratuity / float64(len(plan.Staff))
		case pos.Role.IsChef():
			share = gratuity * rs.PrivateLabor.ChefGratuitySplitPercent / 100 / float64(chefs)
		default:
			share = gratuity * rs.PrivateLabor.AssistantGratuitySplitPercent / 100 / float64(assistants)
		}

		out = append(out, pay(pos.Role, subtotal*basePct/100, share, capPct, totalRevenue))
	}
	return out
}

// pay applies the cap to one position. A cap percent that is not a positive
// finite number means the position is uncapped.
func pay(role model.Role, basePay, share float64, capPct *float64, totalRevenue float64) model.LaborCompensation {
	c := model.LaborCompensation{
		Role:            role,
		BasePay:         basePay,
		GratuityShare:   share,
		TotalCalculated: basePay + share,
		CapPercent:      capPct,
	}
	c.FinalPay = c.TotalCalculated

	if capPct == nil || !(*capPct > 0) || math.IsInf(*capPct, 0) {
		return c
	}
	capAmount := totalRevenue * *capPct / 100
	c.CapAmount = &capAmount
	if c.TotalCalculated > capAmount {
		c.WasCapped = true
		c.FinalPay = capAmount
		c.ExcessToProfit = c.TotalCalculated - capAmount
	}
	return c
}

// Sum totals a compensation list.
func Sum(comp []model.LaborCompensation) Totals {
	var t Totals
	for _, c := range comp {
		t.Calculated += c.TotalCalculated
		t.Paid += c.FinalPay
		t.Excess += c.ExcessToProfit
		if c.WasCapped {
			t.Capped++
		}
	}
	return t
}
