// Package rules defines the business-parameter bundle the engine prices
// against, its hard-coded defaults and the normalizer that turns a stored,
// possibly stale or corrupted document into a complete RuleSet.
package rules

import (
	"github.com/okian/banquet/internal/domain/model"
)

// CurrentVersion is the schema version Normalize produces.
const CurrentVersion = 2

// ProteinAddOn is a named per-person upgrade offered on the menu.
type ProteinAddOn struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	PricePerPerson float64 `json:"pricePerPerson"`
}

// Pricing holds per-guest prices and surcharges.
type Pricing struct {
	PrimaryBasePrice     float64        `json:"primaryBasePrice"`
	SecondaryBasePrice   float64        `json:"secondaryBasePrice"`
	ChildDiscountPercent float64        `json:"childDiscountPercent"`
	GratuityPercent      float64        `json:"gratuityPercent"`
	PremiumAddOnMin      float64        `json:"premiumAddOnMin"`
	PremiumAddOnMax      float64        `json:"premiumAddOnMax"`
	ProteinAddOns        []ProteinAddOn `json:"proteinAddOns"`
	DepositPercent       float64        `json:"depositPercent"`
}

// StaffingProfile is a reusable bundle of role requirements for an event
// type and guest range. MinGuests <= MaxGuests always holds after Normalize.
type StaffingProfile struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	EventType model.EventType `json:"eventType"`
	MinGuests int             `json:"minGuests"`
	MaxGuests int             `json:"maxGuests"`
	// Roles keeps the persisted tags; the planner parses them.
	Roles []model.Role `json:"roles"`
}

// Staffing holds thresholds for the fallback planner and the named profiles.
type Staffing struct {
	MaxGuestsPerChefPrimary   int               `json:"maxGuestsPerChefPrimary"`
	MaxGuestsPerChefSecondary int               `json:"maxGuestsPerChefSecondary"`
	AssistantRequired         bool              `json:"assistantRequired"`
	Profiles                  []StaffingProfile `json:"profiles"`
}

// PrivateLabor holds pay parameters for primary-slot roles. Caps are a
// percent of total revenue; nil means uncapped.
type PrivateLabor struct {
	LeadBasePayPercent            float64  `json:"leadBasePayPercent"`
	LeadCapPercent                *float64 `json:"leadCapPercent"`
	FullBasePayPercent            float64  `json:"fullBasePayPercent"`
	FullCapPercent                *float64 `json:"fullCapPercent"`
	AssistantBasePayPercent       float64  `json:"assistantBasePayPercent"`
	AssistantCapPercent           *float64 `json:"assistantCapPercent"`
	ChefGratuitySplitPercent      float64  `json:"chefGratuitySplitPercent"`
	AssistantGratuitySplitPercent float64  `json:"assistantGratuitySplitPercent"`
}

// BuffetLabor holds pay parameters for secondary-slot roles.
type BuffetLabor struct {
	ChefBasePayPercent      float64  `json:"chefBasePayPercent"`
	ChefCapPercent          *float64 `json:"chefCapPercent"`
	AssistantBasePayPercent float64  `json:"assistantBasePayPercent"`
	AssistantCapPercent     *float64 `json:"assistantCapPercent"`
}

// Costs holds operating cost rates.
type Costs struct {
	FoodCostPercentPrimary   float64 `json:"foodCostPercentPrimary"`
	FoodCostPercentSecondary float64 `json:"foodCostPercentSecondary"`
	SuppliesCostPercent      float64 `json:"suppliesCostPercent"`
	TransportationStipend    float64 `json:"transportationStipend"`
}

// Distance holds the travel fee schedule.
type Distance struct {
	FreeDistanceMiles         float64 `json:"freeDistanceMiles"`
	BaseDistanceFee           float64 `json:"baseDistanceFee"`
	AdditionalFeePerIncrement float64 `json:"additionalFeePerIncrement"`
	IncrementMiles            float64 `json:"incrementMiles"`
}

// Owner is an equity holder receiving part of the distributed profit.
type Owner struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	EquityPercent float64 `json:"equityPercent"`
	// StaffRole is the position the owner usually works, if any.
	StaffRole model.Role `json:"staffRole,omitempty"`
}

// ProfitDistribution splits gross profit between the business and owners.
type ProfitDistribution struct {
	BusinessRetainedPercent  float64 `json:"businessRetainedPercent"`
	OwnerDistributionPercent float64 `json:"ownerDistributionPercent"`
	Owners                   []Owner `json:"owners"`
}

// SafetyLimits are advisory ceilings on cost ratios.
type SafetyLimits struct {
	MaxTotalLaborPercent float64 `json:"maxTotalLaborPercent"`
	MaxFoodCostPercent   float64 `json:"maxFoodCostPercent"`
	WarnWhenExceeded     bool    `json:"warnWhenExceeded"`
}

// RuleSet is the complete configuration for one engine call.
type RuleSet struct {
	Version            int                `json:"version"`
	Pricing            Pricing            `json:"pricing"`
	Staffing           Staffing           `json:"staffing"`
	PrivateLabor       PrivateLabor       `json:"privateLabor"`
	BuffetLabor        BuffetLabor        `json:"buffetLabor"`
	Costs              Costs              `json:"costs"`
	Distance           Distance           `json:"distance"`
	ProfitDistribution ProfitDistribution `json:"profitDistribution"`
	SafetyLimits       SafetyLimits       `json:"safetyLimits"`
}

// Defaults returns a fresh copy of the hard-coded rule set.
func Defaults() RuleSet {
	return RuleSet{
		Version: CurrentVersion,
		Pricing: Pricing{
			PrimaryBasePrice:     60,
			SecondaryBasePrice:   45,
			ChildDiscountPercent: 50,
			GratuityPercent:      20,
			PremiumAddOnMin:      0,
			PremiumAddOnMax:      25,
			ProteinAddOns: []ProteinAddOn{
				{ID: "filet-mignon", Name: "Filet Mignon", PricePerPerson: 5},
				{ID: "lobster-tail", Name: "Lobster Tail", PricePerPerson: 10},
				{ID: "scallops", Name: "Scallops", PricePerPerson: 6},
			},
			DepositPercent: 30,
		},
		Staffing: Staffing{
			MaxGuestsPerChefPrimary:   15,
			MaxGuestsPerChefSecondary: 25,
			AssistantRequired:         true,
			Profiles:                  []StaffingProfile{},
		},
		PrivateLabor: PrivateLabor{
			LeadBasePayPercent:            15,
			FullBasePayPercent:            12,
			AssistantBasePayPercent:       8,
			ChefGratuitySplitPercent:      55,
			AssistantGratuitySplitPercent: 45,
		},
		BuffetLabor: BuffetLabor{
			ChefBasePayPercent:      12,
			AssistantBasePayPercent: 8,
		},
		Costs: Costs{
			FoodCostPercentPrimary:   20,
			FoodCostPercentSecondary: 25,
			SuppliesCostPercent:      5,
			TransportationStipend:    50,
		},
		Distance: Distance{
			FreeDistanceMiles:         20,
			BaseDistanceFee:           50,
			AdditionalFeePerIncrement: 25,
			IncrementMiles:            5,
		},
		ProfitDistribution: ProfitDistribution{
			BusinessRetainedPercent:  30,
			OwnerDistributionPercent: 70,
			Owners:                   defaultOwners(),
		},
		SafetyLimits: SafetyLimits{
			MaxTotalLaborPercent: 40,
			MaxFoodCostPercent:   35,
			WarnWhenExceeded:     true,
		},
	}
}

func defaultOwners() []Owner {
	return []Owner{
		{ID: "owner-a", Name: "Owner A", EquityPercent: 50},
		{ID: "owner-b", Name: "Owner B", EquityPercent: 50},
	}
}

// BasePrice returns the per-adult price for a slot.
func (r RuleSet) BasePrice(slot model.EventType) float64 {
	if slot.IsPrimary() {
		return r.Pricing.PrimaryBasePrice
	}
	return r.Pricing.SecondaryBasePrice
}

// FoodCostPercent returns the food cost rate for a slot.
func (r RuleSet) FoodCostPercent(slot model.EventType) float64 {
	if slot.IsPrimary() {
		return r.Costs.FoodCostPercentPrimary
	}
	return r.Costs.FoodCostPercentSecondary
}

// MaxGuestsPerChef returns the fallback planner threshold for a slot.
func (r RuleSet) MaxGuestsPerChef(slot model.EventType) int {
	if slot.IsPrimary() {
		return r.Staffing.MaxGuestsPerChefPrimary
	}
	return r.Staffing.MaxGuestsPerChefSecondary
}

// RolePay returns the configured base-pay percent and cap for a role working
// an event in the given slot. Chefs and assistants on secondary events are
// paid from the buffet section; lead and full chefs always use private rates.
func (r RuleSet) RolePay(role model.Role, slot model.EventType) (float64, *float64) {
	switch role {
	case model.RoleLead:
		return r.PrivateLabor.LeadBasePayPercent, copyFloat(r.PrivateLabor.LeadCapPercent)
	case model.RoleFull:
		return r.PrivateLabor.FullBasePayPercent, copyFloat(r.PrivateLabor.FullCapPercent)
	case model.RoleChef:
		return r.BuffetLabor.ChefBasePayPercent, copyFloat(r.BuffetLabor.ChefCapPercent)
	case model.RoleAssistant:
		if slot.IsPrimary() {
			return r.PrivateLabor.AssistantBasePayPercent, copyFloat(r.PrivateLabor.AssistantCapPercent)
		}
		return r.BuffetLabor.AssistantBasePayPercent, copyFloat(r.BuffetLabor.AssistantCapPercent)
	default:
		return 0, nil
	}
}

// Profile looks up a staffing profile by id.
func (r RuleSet) Profile(id string) (StaffingProfile, bool) {
	if id == "" {
		return StaffingProfile{}, false
	}
	for _, p := range r.Staffing.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return StaffingProfile{}, false
}

// Clone returns a deep copy sharing no slices or pointers with r.
func (r RuleSet) Clone() RuleSet {
	out := r
	out.Pricing.ProteinAddOns = append([]ProteinAddOn{}, r.Pricing.ProteinAddOns...)
	out.Staffing.Profiles = make([]StaffingProfile, len(r.Staffing.Profiles))
	for i, p := range r.Staffing.Profiles {
		p.Roles = append([]model.Role{}, p.Roles...)
		out.Staffing.Profiles[i] = p
	}
	out.PrivateLabor.LeadCapPercent = copyFloat(r.PrivateLabor.LeadCapPercent)
	out.PrivateLabor.FullCapPercent = copyFloat(r.PrivateLabor.FullCapPercent)
	out.PrivateLabor.AssistantCapPercent = copyFloat(r.PrivateLabor.AssistantCapPercent)
	out.BuffetLabor.ChefCapPercent = copyFloat(r.BuffetLabor.ChefCapPercent)
	out.BuffetLabor.AssistantCapPercent = copyFloat(r.BuffetLabor.AssistantCapPercent)
	out.ProfitDistribution.Owners = append([]Owner{}, r.ProfitDistribution.Owners...)
	return out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
