package pricing_test

import (
	"math"
	"testing"

	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/pricing"
	"github.com/okian/banquet/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

const eps = 1e-9

func TestPrice(t *testing.T) {
	Convey("Given the default rules", t, func() {
		rs := rules.Defaults()

		Convey("When pricing 10 adults on the primary slot within the free radius", func() {
			in := model.EventInput{Adults: 10, EventType: model.EventTypePrimary, DistanceMiles: 5}
			p := pricing.Price(in, rs)

			Convey("Then it matches the worked example", func() {
				So(p.Slot, ShouldEqual, model.EventTypePrimary)
				So(p.BasePrice, ShouldAlmostEqual, 60.0, eps)
				So(p.Subtotal, ShouldAlmostEqual, 600.0, eps)
				So(p.Gratuity, ShouldAlmostEqual, 120.0, eps)
				So(p.GratuityPercent, ShouldAlmostEqual, 20.0, eps)
				So(p.DistanceFee, ShouldAlmostEqual, 0.0, eps)
				So(p.TotalCharged, ShouldAlmostEqual, 720.0, eps)
				So(p.SubtotalOverridden, ShouldBeFalse)
			})

			Convey("And the deposit is taken from the total", func() {
				So(p.DepositPercent, ShouldAlmostEqual, 30.0, eps)
				So(p.DepositAmount, ShouldAlmostEqual, 216.0, eps)
				So(p.BalanceDue, ShouldAlmostEqual, 504.0, eps)
			})
		})

		Convey("When the event is 37 miles away", func() {
			in := model.EventInput{Adults: 10, EventType: model.EventTypePrimary, DistanceMiles: 37}
			p := pricing.Price(in, rs)

			Convey("Then four started increments are billed", func() {
				So(p.DistanceFee, ShouldAlmostEqual, 150.0, eps)
				So(p.TotalCharged, ShouldAlmostEqual, 870.0, eps)
			})
		})

		Convey("When children and a premium add-on are present", func() {
			in := model.EventInput{Adults: 8, Children: 4, EventType: model.EventTypePrimary, PremiumAddOn: 5}
			p := pricing.Price(in, rs)

			Convey("Then children get the discount and everyone pays the add-on", func() {
				So(p.ChildPrice, ShouldAlmostEqual, 30.0, eps)
				So(p.Subtotal, ShouldAlmostEqual, 8*60.0+4*30.0+12*5.0, eps)
			})
		})

		Convey("When the event type is secondary", func() {
			in := model.EventInput{Adults: 20, EventType: model.EventTypeSecondary}
			p := pricing.Price(in, rs)

			Convey("Then the secondary base price applies", func() {
				So(p.Slot, ShouldEqual, model.EventTypeSecondary)
				So(p.Subtotal, ShouldAlmostEqual, 900.0, eps)
			})
		})

		Convey("When a pricing slot differs from the event type", func() {
			in := model.EventInput{Adults: 10, EventType: model.EventTypeSecondary, PricingSlot: model.EventTypePrimary}
			p := pricing.Price(in, rs)

			Convey("Then the pricing slot decides the price", func() {
				So(p.BasePrice, ShouldAlmostEqual, 60.0, eps)
			})
		})

		Convey("When the event type is not recognized", func() {
			in := model.EventInput{Adults: 10, EventType: "teppanyaki"}
			p := pricing.Price(in, rs)

			Convey("Then it falls back to the secondary slot", func() {
				So(p.Slot, ShouldEqual, model.EventTypeSecondary)
				So(p.BasePrice, ShouldAlmostEqual, 45.0, eps)
			})
		})
	})
}

func TestPrice_Overrides(t *testing.T) {
	Convey("Given the default rules", t, func() {
		rs := rules.Defaults()
		in := model.EventInput{Adults: 10, EventType: model.EventTypePrimary}

		Convey("When a valid subtotal override is supplied", func() {
			in.SubtotalOverride = rules.Float(1234.5)
			p := pricing.Price(in, rs)

			Convey("Then it replaces the computed subtotal", func() {
				So(p.Subtotal, ShouldAlmostEqual, 1234.5, eps)
				So(p.SubtotalOverridden, ShouldBeTrue)
				So(p.Gratuity, ShouldAlmostEqual, 246.9, 1e-6)
			})
		})

		Convey("When a zero subtotal override is supplied", func() {
			in.SubtotalOverride = rules.Float(0)
			p := pricing.Price(in, rs)

			Convey("Then zero is honored", func() {
				So(p.Subtotal, ShouldAlmostEqual, 0.0, eps)
				So(p.SubtotalOverridden, ShouldBeTrue)
			})
		})

		Convey("When the subtotal override is invalid", func() {
			for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
				in.SubtotalOverride = rules.Float(bad)
				p := pricing.Price(in, rs)
				So(p.Subtotal, ShouldAlmostEqual, 600.0, eps)
				So(p.SubtotalOverridden, ShouldBeFalse)
			}
		})

		Convey("When a gratuity percent override is supplied", func() {
			in.GratuityPercentOverride = rules.Float(15)
			p := pricing.Price(in, rs)

			Convey("Then it replaces the configured percent", func() {
				So(p.GratuityPercent, ShouldAlmostEqual, 15.0, eps)
				So(p.Gratuity, ShouldAlmostEqual, 90.0, eps)
			})
		})
	})
}

func TestDistanceFee(t *testing.T) {
	Convey("Given the default distance schedule", t, func() {
		d := rules.Defaults().Distance

		Convey("Then nothing is charged up to the free threshold", func() {
			So(pricing.DistanceFee(0, d), ShouldEqual, 0.0)
			So(pricing.DistanceFee(20, d), ShouldEqual, 0.0)
			So(pricing.DistanceFee(-5, d), ShouldEqual, 0.0)
			So(pricing.DistanceFee(math.NaN(), d), ShouldEqual, 0.0)
		})

		Convey("Then partial increments are billed as full increments", func() {
			So(pricing.DistanceFee(20.1, d), ShouldAlmostEqual, 75.0, eps)
			So(pricing.DistanceFee(25, d), ShouldAlmostEqual, 75.0, eps)
			So(pricing.DistanceFee(25.5, d), ShouldAlmostEqual, 100.0, eps)
			So(pricing.DistanceFee(37, d), ShouldAlmostEqual, 150.0, eps)
		})

		Convey("Then the fee never decreases with distance", func() {
			prev := 0.0
			for miles := 0.0; miles <= 200; miles += 0.25 {
				fee := pricing.DistanceFee(miles, d)
				So(fee, ShouldBeGreaterThanOrEqualTo, prev)
				prev = fee
			}
		})

		Convey("Then past the threshold the fee only steps at increment multiples", func() {
			for k := 1; k < 20; k++ {
				edge := d.FreeDistanceMiles + float64(k)*d.IncrementMiles
				So(pricing.DistanceFee(edge-0.5, d), ShouldEqual, pricing.DistanceFee(edge, d))
				So(pricing.DistanceFee(edge+0.5, d), ShouldBeGreaterThan, pricing.DistanceFee(edge, d))
			}
		})

		Convey("When the increment size is not positive", func() {
			d.IncrementMiles = 0

			Convey("Then only the base fee is charged", func() {
				So(pricing.DistanceFee(90, d), ShouldAlmostEqual, 50.0, eps)
			})
		})
	})
}

func TestCost(t *testing.T) {
	Convey("Given the default rules and a 600 subtotal", t, func() {
		rs := rules.Defaults()
		in := model.EventInput{Adults: 10, EventType: model.EventTypePrimary}

		Convey("When no override is supplied", func() {
			c := pricing.Cost(in, rs, 600)

			Convey("Then the configured rates apply", func() {
				So(c.FoodCost, ShouldAlmostEqual, 120.0, eps)
				So(c.FoodCostPercent, ShouldAlmostEqual, 20.0, eps)
				So(c.SuppliesCost, ShouldAlmostEqual, 30.0, eps)
				So(c.TransportationCost, ShouldAlmostEqual, 50.0, eps)
				So(c.TotalCosts, ShouldAlmostEqual, 200.0, eps)
				So(c.FoodCostOverridden, ShouldBeFalse)
			})
		})

		Convey("When a food cost override is supplied", func() {
			in.FoodCostOverride = rules.Float(240)
			c := pricing.Cost(in, rs, 600)

			Convey("Then the percent is recomputed from the override", func() {
				So(c.FoodCost, ShouldAlmostEqual, 240.0, eps)
				So(c.FoodCostPercent, ShouldAlmostEqual, 40.0, eps)
				So(c.FoodCostOverridden, ShouldBeTrue)
				So(c.TotalCosts, ShouldAlmostEqual, 320.0, eps)
			})
		})

		Convey("When the food cost override is negative", func() {
			in.FoodCostOverride = rules.Float(-10)
			c := pricing.Cost(in, rs, 600)

			Convey("Then it is ignored", func() {
				So(c.FoodCost, ShouldAlmostEqual, 120.0, eps)
				So(c.FoodCostOverridden, ShouldBeFalse)
			})
		})

		Convey("When the subtotal is zero", func() {
			c := pricing.Cost(in, rs, 0)

			Convey("Then the food percent is zero and only the stipend remains", func() {
				So(c.FoodCostPercent, ShouldEqual, 0.0)
				So(c.TotalCosts, ShouldAlmostEqual, 50.0, eps)
			})
		})

		Convey("When the event is secondary", func() {
			in.EventType = model.EventTypeSecondary
			c := pricing.Cost(in, rs, 1000)

			Convey("Then the secondary food rate applies", func() {
				So(c.FoodCost, ShouldAlmostEqual, 250.0, eps)
			})
		})
	})
}
