package rules_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"

	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize_Defaults(t *testing.T) {
	Convey("Given no stored configuration", t, func() {
		rs := rules.Normalize(nil)

		Convey("Then it should equal the hard-coded defaults", func() {
			So(rs, ShouldResemble, rules.Defaults())
			So(rs.Version, ShouldEqual, rules.CurrentVersion)
			So(rs.Pricing.PrimaryBasePrice, ShouldEqual, 60)
			So(rs.Pricing.GratuityPercent, ShouldEqual, 20)
			So(rs.Distance.FreeDistanceMiles, ShouldEqual, 20)
			So(rs.Staffing.Profiles, ShouldNotBeNil)
			So(rs.Pricing.ProteinAddOns, ShouldNotBeNil)
			So(len(rs.ProfitDistribution.Owners), ShouldEqual, 2)
		})
	})

	Convey("Given an empty stored document", t, func() {
		rs := rules.Normalize(map[string]any{})

		Convey("Then it should equal the defaults", func() {
			So(rs, ShouldResemble, rules.Defaults())
		})
	})
}

func TestNormalize_Overlay(t *testing.T) {
	Convey("Given a partial stored document", t, func() {
		stored := map[string]any{
			"version": 2,
			"pricing": map[string]any{
				"primaryBasePrice": 72.5,
				"gratuityPercent":  18,
			},
			"safetyLimits": map[string]any{
				"warnWhenExceeded": false,
			},
			"privateLabor": map[string]any{
				"leadCapPercent": 20,
			},
		}

		rs := rules.Normalize(stored)

		Convey("Then stored fields win", func() {
			So(rs.Pricing.PrimaryBasePrice, ShouldEqual, 72.5)
			So(rs.Pricing.GratuityPercent, ShouldEqual, 18)
			So(rs.SafetyLimits.WarnWhenExceeded, ShouldBeFalse)
			So(rs.PrivateLabor.LeadCapPercent, ShouldNotBeNil)
			So(*rs.PrivateLabor.LeadCapPercent, ShouldEqual, 20)
		})

		Convey("And untouched fields keep their defaults", func() {
			So(rs.Pricing.SecondaryBasePrice, ShouldEqual, 45)
			So(rs.Pricing.ChildDiscountPercent, ShouldEqual, 50)
			So(rs.SafetyLimits.MaxTotalLaborPercent, ShouldEqual, 40)
			So(rs.PrivateLabor.FullCapPercent, ShouldBeNil)
		})
	})

	Convey("Given corrupted values", t, func() {
		stored := map[string]any{
			"version": 2,
			"pricing": map[string]any{
				"primaryBasePrice":     math.NaN(),
				"secondaryBasePrice":   math.Inf(1),
				"childDiscountPercent": nil,
				"gratuityPercent":      "20",
				"depositPercent":       true,
			},
			"costs":        "not a section",
			"safetyLimits": map[string]any{"warnWhenExceeded": "yes"},
		}

		rs := rules.Normalize(stored)

		Convey("Then every invalid value falls back to the default", func() {
			So(rs.Pricing, ShouldResemble, rules.Defaults().Pricing)
			So(rs.Costs, ShouldResemble, rules.Defaults().Costs)
			So(rs.SafetyLimits.WarnWhenExceeded, ShouldBeTrue)
		})
	})

	Convey("Given non-positive divisors", t, func() {
		stored := map[string]any{
			"version":  2,
			"staffing": map[string]any{"maxGuestsPerChefPrimary": 0, "maxGuestsPerChefSecondary": -4},
			"distance": map[string]any{"incrementMiles": 0},
		}

		rs := rules.Normalize(stored)

		Convey("Then they are rejected", func() {
			So(rs.Staffing.MaxGuestsPerChefPrimary, ShouldEqual, 15)
			So(rs.Staffing.MaxGuestsPerChefSecondary, ShouldEqual, 25)
			So(rs.Distance.IncrementMiles, ShouldEqual, 5)
		})
	})

	Convey("Given numbers decoded as json.Number", t, func() {
		dec := gojson.NewDecoder(strings.NewReader(
			`{"version": 2, "pricing": {"primaryBasePrice": 75, "gratuityPercent": 17.5}}`))
		dec.UseNumber()
		var stored map[string]any
		So(dec.Decode(&stored), ShouldBeNil)

		rs := rules.Normalize(stored)

		Convey("Then they are parsed like plain numbers", func() {
			So(rs.Pricing.PrimaryBasePrice, ShouldEqual, 75)
			So(rs.Pricing.GratuityPercent, ShouldEqual, 17.5)
		})

		Convey("And unparsable or non-finite ones fall back to the default", func() {
			rs := rules.Normalize(map[string]any{
				"version": 2,
				"pricing": map[string]any{
					"primaryBasePrice":   json.Number("abc"),
					"secondaryBasePrice": json.Number("1e999"),
				},
			})
			So(rs.Pricing.PrimaryBasePrice, ShouldEqual, 60)
			So(rs.Pricing.SecondaryBasePrice, ShouldEqual, 45)
		})
	})

	Convey("Given fractional guest thresholds", t, func() {
		rs := rules.Normalize(map[string]any{
			"version":  2,
			"staffing": map[string]any{"maxGuestsPerChefPrimary": 12.5, "maxGuestsPerChefSecondary": int64(30)},
		})

		Convey("Then only whole numbers are accepted", func() {
			So(rs.Staffing.MaxGuestsPerChefPrimary, ShouldEqual, 15)
			So(rs.Staffing.MaxGuestsPerChefSecondary, ShouldEqual, 30)
		})
	})
}

func TestNormalize_Lists(t *testing.T) {
	Convey("Given stored staffing profiles", t, func() {
		stored := map[string]any{
			"version": 2,
			"staffing": map[string]any{
				"profiles": []any{
					map[string]any{
						"id": "large-private", "name": "Large private", "eventType": "primary",
						"minGuests": 30, "maxGuests": 60, "roles": []any{"lead", "overflow", "assistant"},
					},
					map[string]any{"id": "backwards", "minGuests": 50, "maxGuests": 10},
					map[string]any{"id": "no-max", "minGuests": 1},
					map[string]any{"name": "no id", "maxGuests": 10},
					map[string]any{"id": "odd-type", "eventType": "brunch", "maxGuests": 10, "roles": []any{"chef", 7, ""}},
					"garbage",
				},
			},
		}

		rs := rules.Normalize(stored)

		Convey("Then only valid profiles survive", func() {
			So(len(rs.Staffing.Profiles), ShouldEqual, 2)
			So(rs.Staffing.Profiles[0].ID, ShouldEqual, "large-private")
			So(rs.Staffing.Profiles[1].ID, ShouldEqual, "odd-type")
		})

		Convey("And role tags are kept as persisted", func() {
			So(rs.Staffing.Profiles[0].Roles, ShouldResemble, []model.Role{"lead", "overflow", "assistant"})
			So(rs.Staffing.Profiles[1].Roles, ShouldResemble, []model.Role{"chef"})
		})

		Convey("And unknown event types become any", func() {
			So(rs.Staffing.Profiles[1].EventType, ShouldEqual, model.EventTypeAny)
			So(rs.Staffing.Profiles[1].Name, ShouldEqual, "odd-type")
		})
	})

	Convey("Given malformed list sections", t, func() {
		stored := map[string]any{
			"version":  2,
			"pricing":  map[string]any{"proteinAddOns": "lobster"},
			"staffing": map[string]any{"profiles": map[string]any{"id": "x"}},
		}

		rs := rules.Normalize(stored)

		Convey("Then lists are empty but never nil", func() {
			So(rs.Pricing.ProteinAddOns, ShouldNotBeNil)
			So(len(rs.Pricing.ProteinAddOns), ShouldEqual, 0)
			So(rs.Staffing.Profiles, ShouldNotBeNil)
			So(len(rs.Staffing.Profiles), ShouldEqual, 0)
		})
	})

	Convey("Given owners that are all invalid", t, func() {
		stored := map[string]any{
			"version":            2,
			"profitDistribution": map[string]any{"owners": []any{map[string]any{"name": "nobody"}}},
		}

		rs := rules.Normalize(stored)

		Convey("Then the default owners are used", func() {
			So(rs.ProfitDistribution.Owners, ShouldResemble, rules.Defaults().ProfitDistribution.Owners)
		})
	})

	Convey("Given owners with staff roles", t, func() {
		stored := map[string]any{
			"version": 2,
			"profitDistribution": map[string]any{"owners": []any{
				map[string]any{"id": "sam", "name": "Sam", "equityPercent": 60, "staffRole": "lead"},
				map[string]any{"id": "kai", "equityPercent": 40, "staffRole": "overflow"},
			}},
		}

		rs := rules.Normalize(stored)

		Convey("Then the roles are parsed", func() {
			So(rs.ProfitDistribution.Owners[0].StaffRole, ShouldEqual, model.RoleLead)
			So(rs.ProfitDistribution.Owners[1].StaffRole, ShouldEqual, model.RoleFull)
			So(rs.ProfitDistribution.Owners[1].Name, ShouldEqual, "kai")
		})
	})
}

func TestNormalize_Migration(t *testing.T) {
	Convey("Given a version-1 document", t, func() {
		stored := map[string]any{
			"pricing": map[string]any{
				"privateDinnerBasePrice": 65,
				"buffetBasePrice":        40,
			},
			"staffing": map[string]any{
				"maxGuestsPerChefPrivate": 12,
				"maxGuestsPerChefBuffet":  30,
			},
			"costs": map[string]any{
				"foodCostPercentPrivate": 22,
				"foodCostPercentBuffet":  28,
			},
			"privateLabor": map[string]any{
				"overflowBasePayPercent": 11,
				"overflowCapPercent":     18,
			},
			"profitDistribution": map[string]any{
				"ownerAEquityPercent": 60,
				"ownerAName":          "Mika",
			},
		}

		rs := rules.Normalize(stored)

		Convey("Then legacy slot names map onto primary and secondary", func() {
			So(rs.Pricing.PrimaryBasePrice, ShouldEqual, 65)
			So(rs.Pricing.SecondaryBasePrice, ShouldEqual, 40)
			So(rs.Staffing.MaxGuestsPerChefPrimary, ShouldEqual, 12)
			So(rs.Staffing.MaxGuestsPerChefSecondary, ShouldEqual, 30)
			So(rs.Costs.FoodCostPercentPrimary, ShouldEqual, 22)
			So(rs.Costs.FoodCostPercentSecondary, ShouldEqual, 28)
		})

		Convey("And the overflow role folds into full", func() {
			So(rs.PrivateLabor.FullBasePayPercent, ShouldEqual, 11)
			So(*rs.PrivateLabor.FullCapPercent, ShouldEqual, 18)
		})

		Convey("And owners are derived from the legacy split", func() {
			owners := rs.ProfitDistribution.Owners
			So(len(owners), ShouldEqual, 2)
			So(owners[0].Name, ShouldEqual, "Mika")
			So(owners[0].EquityPercent, ShouldEqual, 60)
			So(owners[1].Name, ShouldEqual, "Owner B")
			So(owners[1].EquityPercent, ShouldEqual, 40)
		})

		Convey("And the stored document is left untouched", func() {
			pricing := stored["pricing"].(map[string]any)
			So(pricing["privateDinnerBasePrice"], ShouldEqual, 65)
			_, renamed := pricing["primaryBasePrice"]
			So(renamed, ShouldBeFalse)
			_, versioned := stored["version"]
			So(versioned, ShouldBeFalse)
		})
	})

	Convey("Given a version-1 document carrying both old and new names", t, func() {
		stored := map[string]any{
			"pricing": map[string]any{"privateDinnerBasePrice": 65, "primaryBasePrice": 70},
		}

		migrated := rules.Migrate(stored)

		Convey("Then the current name wins and the legacy key is removed", func() {
			pricing := migrated["pricing"].(map[string]any)
			So(pricing["primaryBasePrice"], ShouldEqual, 70)
			_, stale := pricing["privateDinnerBasePrice"]
			So(stale, ShouldBeFalse)
			So(migrated["version"], ShouldEqual, rules.CurrentVersion)
		})
	})

	Convey("Given a current-version document with a stray legacy key", t, func() {
		stored := map[string]any{
			"version": 2,
			"pricing": map[string]any{"privateDinnerBasePrice": 65},
		}

		rs := rules.Normalize(stored)

		Convey("Then no migration is applied", func() {
			So(rs.Pricing.PrimaryBasePrice, ShouldEqual, 60)
		})
	})

	Convey("Given a legacy split alongside an owners list", t, func() {
		stored := map[string]any{
			"profitDistribution": map[string]any{
				"ownerAEquityPercent": 10,
				"owners": []any{
					map[string]any{"id": "solo", "name": "Solo", "equityPercent": 100},
				},
			},
		}

		rs := rules.Normalize(stored)

		Convey("Then the owners list wins", func() {
			So(len(rs.ProfitDistribution.Owners), ShouldEqual, 1)
			So(rs.ProfitDistribution.Owners[0].ID, ShouldEqual, "solo")
		})
	})
}
