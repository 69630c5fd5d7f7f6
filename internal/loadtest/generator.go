package loadtest

import (
	"math/rand/v2"

	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
)

// Generation ranges.
const (
	maxAdults        = 120
	maxChildren      = 20
	maxDistanceMiles = 90
	maxPremiumAddOn  = 15
	overrideOdds     = 10 // one booking in N carries a pay or cost override
)

// GenerateBookings returns n valid bookings. The same seed always yields
// the same bookings.
func GenerateBookings(n int, seed uint64) []model.EventInput {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]model.EventInput, n)
	for i := range out {
		out[i] = generateBooking(r)
	}
	return out
}

func generateBooking(r *rand.Rand) model.EventInput {
	in := model.EventInput{
		Adults:        r.IntN(maxAdults + 1),
		Children:      r.IntN(maxChildren + 1),
		EventType:     model.EventTypePrimary,
		DistanceMiles: float64(r.IntN(maxDistanceMiles*4+1)) / 4,
	}
	if r.IntN(2) == 0 {
		in.EventType = model.EventTypeSecondary
	}
	if r.IntN(3) == 0 {
		in.PremiumAddOn = float64(r.IntN(maxPremiumAddOn + 1))
	}

	switch r.IntN(overrideOdds) {
	case 0:
		in.StaffPayOverrides = map[model.Role]model.StaffPayOverride{
			model.RoleLead: {CapPercent: rules.Float(float64(5 + r.IntN(20)))},
		}
	case 1:
		in.FoodCostOverride = rules.Float(float64(r.IntN(2000)))
	case 2:
		in.GratuityPercentOverride = rules.Float(float64(10 + r.IntN(15)))
	}
	return in
}
