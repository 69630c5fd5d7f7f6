// Package profit splits what is left of revenue after costs and paid labor
// between the business and its owners.
package profit

import (
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
)

// Distribution is the profit side of the breakdown.
type Distribution struct {
	GrossProfit        float64
	RetainedAmount     float64
	DistributionAmount float64
	Owners             []model.OwnerDistribution
}

// Distribute computes gross profit and its retained and distributed parts.
// totalLaborPaid excludes capped excess, so that excess ends up in gross
// profit. Owner equity is applied as configured, even when it does not add
// up to 100, and a negative gross profit is split the same way.
func Distribute(subtotal, gratuity, totalCosts, totalLaborPaid float64, rs rules.RuleSet) Distribution {
	gross := subtotal + gratuity - totalCosts - totalLaborPaid
	cfg := rs.ProfitDistribution

	d := Distribution{
		GrossProfit:        gross,
		RetainedAmount:     gross * cfg.BusinessRetainedPercent / 100,
		DistributionAmount: gross * cfg.OwnerDistributionPercent / 100,
		Owners:             make([]model.OwnerDistribution, 0, len(cfg.Owners)),
	}
	for _, o := range cfg.Owners {
		d.Owners = append(d.Owners, model.OwnerDistribution{
			OwnerID:       o.ID,
			Name:          o.Name,
			EquityPercent: o.EquityPercent,
			Amount:        d.DistributionAmount * o.EquityPercent / 100,
		})
	}
	return d
}
