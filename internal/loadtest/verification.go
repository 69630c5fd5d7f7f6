package loadtest

import (
	"fmt"
	"math"

	"github.com/okian/banquet/internal/domain/model"
)

const tolerance = 1e-6

// Verify checks a breakdown against the accounting identities every quote
// must satisfy and returns one message per violation.
func Verify(fin model.EventFinancials) []string {
	var out []string
	check := func(name string, got, want float64) {
		if math.Abs(got-want) > tolerance*math.Max(1, math.Abs(want)) {
			out = append(out, fmt.Sprintf("%s: got %.6f, want %.6f", name, got, want))
		}
	}

	check("totalRevenue", fin.TotalRevenue, fin.Subtotal+fin.Gratuity)
	check("totalCharged", fin.TotalCharged, fin.Subtotal+fin.Gratuity+fin.DistanceFee)
	check("balanceDue", fin.BalanceDue, fin.TotalCharged-fin.DepositAmount)
	check("grossProfit", fin.GrossProfit, fin.TotalRevenue-fin.TotalCosts-fin.TotalLaborPaid)

	var paid, excess float64
	for i, c := range fin.LaborCompensation {
		paid += c.FinalPay
		excess += c.ExcessToProfit
		check(fmt.Sprintf("labor[%d].split", i), c.FinalPay+c.ExcessToProfit, c.TotalCalculated)
		if c.CapAmount != nil && c.FinalPay > *c.CapAmount+tolerance {
			out = append(out, fmt.Sprintf("labor[%d]: final pay %.2f above cap %.2f", i, c.FinalPay, *c.CapAmount))
		}
		if c.ExcessToProfit < 0 {
			out = append(out, fmt.Sprintf("labor[%d]: negative excess %.2f", i, c.ExcessToProfit))
		}
	}
	check("totalLaborPaid", fin.TotalLaborPaid, paid)
	check("totalExcessToProfit", fin.TotalExcessToProfit, excess)

	if fin.Staffing.TotalStaffCount != len(fin.Staffing.Staff) {
		out = append(out, fmt.Sprintf("staffing: count %d but %d positions", fin.Staffing.TotalStaffCount, len(fin.Staffing.Staff)))
	}
	if len(fin.LaborCompensation) != len(fin.Staffing.Staff) {
		out = append(out, fmt.Sprintf("labor: %d entries for %d positions", len(fin.LaborCompensation), len(fin.Staffing.Staff)))
	}
	return out
}
