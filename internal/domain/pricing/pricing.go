// Package pricing computes what a booking charges and what it costs to
// deliver, from an EventInput and a normalized rule set.
package pricing

import (
	"math"

	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
)

// Pricing contains the charge side of the breakdown.
type Pricing struct {
	Slot               model.EventType
	BasePrice          float64
	ChildPrice         float64
	Subtotal           float64
	SubtotalOverridden bool
	GratuityPercent    float64
	Gratuity           float64
	DistanceFee        float64
	TotalCharged       float64
	DepositPercent     float64
	DepositAmount      float64
	BalanceDue         float64
}

// Price computes per-guest pricing, subtotal, gratuity and the distance fee.
// A subtotal override replaces the computed subtotal entirely; it is used
// when an itemized menu has already priced the event.
func Price(in model.EventInput, rs rules.RuleSet) Pricing {
	slot := in.Slot()
	basePrice := rs.BasePrice(slot)
	childPrice := basePrice * (1 - rs.Pricing.ChildDiscountPercent/100)

	guests := float64(in.GuestCount())
	subtotal := float64(in.Adults)*basePrice + float64(in.Children)*childPrice + guests*in.PremiumAddOn
	overridden := false
	if nonNegative(in.SubtotalOverride) {
		subtotal = *in.SubtotalOverride
		overridden = true
	}

	gratuityPercent := rs.Pricing.GratuityPercent
	if nonNegative(in.GratuityPercentOverride) {
		gratuityPercent = *in.GratuityPercentOverride
	}
	gratuity := subtotal * gratuityPercent / 100
	distanceFee := DistanceFee(in.DistanceMiles, rs.Distance)
	total := subtotal + gratuity + distanceFee
	deposit := total * rs.Pricing.DepositPercent / 100

	return Pricing{
		Slot:               slot,
		BasePrice:          basePrice,
		ChildPrice:         childPrice,
		Subtotal:           subtotal,
		SubtotalOverridden: overridden,
		GratuityPercent:    gratuityPercent,
		Gratuity:           gratuity,
		DistanceFee:        distanceFee,
		TotalCharged:       total,
		DepositPercent:     rs.Pricing.DepositPercent,
		DepositAmount:      deposit,
		BalanceDue:         total - deposit,
	}
}

// DistanceFee is zero up to the free threshold; past it, a flat base fee
// plus a fee per started increment of extra miles.
func DistanceFee(miles float64, d rules.Distance) float64 {
	if !(miles > d.FreeDistanceMiles) {
		return 0
	}
	if !(d.IncrementMiles > 0) {
		return d.BaseDistanceFee
	}
	increments := math.Ceil((miles - d.FreeDistanceMiles) / d.IncrementMiles)
	return d.BaseDistanceFee + increments*d.AdditionalFeePerIncrement
}

func nonNegative(p *float64) bool {
	return rules.Finite(p) && *p >= 0
}
