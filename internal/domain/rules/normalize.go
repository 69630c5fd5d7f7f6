package rules

import (
	"math"
	"strings"

	"github.com/okian/banquet/internal/domain/model"
)

// Normalize merges a stored (partial, possibly legacy or corrupted) rule-set
// document over Defaults. Each top-level section starts from its default and
// takes only stored fields that are present, non-null and of the right kind;
// numbers must be finite. Normalize never fails: anything unusable falls
// back to the default.
func Normalize(stored map[string]any) RuleSet {
	out := Defaults()
	if stored == nil {
		return out
	}
	doc := Migrate(stored)

	if sec := section(doc, keyPricing); sec != nil {
		p := &out.Pricing
		p.PrimaryBasePrice = Resolve(p.PrimaryBasePrice, numberPtr(sec, "primaryBasePrice"))
		p.SecondaryBasePrice = Resolve(p.SecondaryBasePrice, numberPtr(sec, "secondaryBasePrice"))
		p.ChildDiscountPercent = Resolve(p.ChildDiscountPercent, numberPtr(sec, "childDiscountPercent"))
		p.GratuityPercent = Resolve(p.GratuityPercent, numberPtr(sec, "gratuityPercent"))
		p.PremiumAddOnMin = Resolve(p.PremiumAddOnMin, numberPtr(sec, "premiumAddOnMin"))
		p.PremiumAddOnMax = Resolve(p.PremiumAddOnMax, numberPtr(sec, "premiumAddOnMax"))
		p.DepositPercent = Resolve(p.DepositPercent, numberPtr(sec, "depositPercent"))
		if raw, present := sec["proteinAddOns"]; present {
			p.ProteinAddOns = proteinAddOns(raw)
		}
	}

	if sec := section(doc, keyStaffing); sec != nil {
		s := &out.Staffing
		s.MaxGuestsPerChefPrimary = resolveCount(s.MaxGuestsPerChefPrimary, positive(countPtr(sec, "maxGuestsPerChefPrimary")))
		s.MaxGuestsPerChefSecondary = resolveCount(s.MaxGuestsPerChefSecondary, positive(countPtr(sec, "maxGuestsPerChefSecondary")))
		s.AssistantRequired = resolveBool(s.AssistantRequired, sec, "assistantRequired")
		if raw, present := sec["profiles"]; present {
			s.Profiles = profiles(raw)
		}
	}

	if sec := section(doc, keyPrivateLabor); sec != nil {
		l := &out.PrivateLabor
		l.LeadBasePayPercent = Resolve(l.LeadBasePayPercent, numberPtr(sec, "leadBasePayPercent"))
		l.LeadCapPercent = ResolveOptional(l.LeadCapPercent, numberPtr(sec, "leadCapPercent"))
		l.FullBasePayPercent = Resolve(l.FullBasePayPercent, numberPtr(sec, "fullBasePayPercent"))
		l.FullCapPercent = ResolveOptional(l.FullCapPercent, numberPtr(sec, "fullCapPercent"))
		l.AssistantBasePayPercent = Resolve(l.AssistantBasePayPercent, numberPtr(sec, "assistantBasePayPercent"))
		l.AssistantCapPercent = ResolveOptional(l.AssistantCapPercent, numberPtr(sec, "assistantCapPercent"))
		l.ChefGratuitySplitPercent = Resolve(l.ChefGratuitySplitPercent, numberPtr(sec, "chefGratuitySplitPercent"))
		l.AssistantGratuitySplitPercent = Resolve(l.AssistantGratuitySplitPercent, numberPtr(sec, "assistantGratuitySplitPercent"))
	}

	if sec := section(doc, keyBuffetLabor); sec != nil {
		l := &out.BuffetLabor
		l.ChefBasePayPercent = Resolve(l.ChefBasePayPercent, numberPtr(sec, "chefBasePayPercent"))
		l.ChefCapPercent = ResolveOptional(l.ChefCapPercent, numberPtr(sec, "chefCapPercent"))
		l.AssistantBasePayPercent = Resolve(l.AssistantBasePayPercent, numberPtr(sec, "assistantBasePayPercent"))
		l.AssistantCapPercent = ResolveOptional(l.AssistantCapPercent, numberPtr(sec, "assistantCapPercent"))
	}

	if sec := section(doc, keyCosts); sec != nil {
		c := &out.Costs
		c.FoodCostPercentPrimary = Resolve(c.FoodCostPercentPrimary, numberPtr(sec, "foodCostPercentPrimary"))
		c.FoodCostPercentSecondary = Resolve(c.FoodCostPercentSecondary, numberPtr(sec, "foodCostPercentSecondary"))
		c.SuppliesCostPercent = Resolve(c.SuppliesCostPercent, numberPtr(sec, "suppliesCostPercent"))
		c.TransportationStipend = Resolve(c.TransportationStipend, numberPtr(sec, "transportationStipend"))
	}

	if sec := section(doc, keyDistance); sec != nil {
		d := &out.Distance
		d.FreeDistanceMiles = Resolve(d.FreeDistanceMiles, numberPtr(sec, "freeDistanceMiles"))
		d.BaseDistanceFee = Resolve(d.BaseDistanceFee, numberPtr(sec, "baseDistanceFee"))
		d.AdditionalFeePerIncrement = Resolve(d.AdditionalFeePerIncrement, numberPtr(sec, "additionalFeePerIncrement"))
		d.IncrementMiles = Resolve(d.IncrementMiles, positive(numberPtr(sec, "incrementMiles")))
	}

	if sec := section(doc, keyProfitDistribution); sec != nil {
		p := &out.ProfitDistribution
		p.BusinessRetainedPercent = Resolve(p.BusinessRetainedPercent, numberPtr(sec, "businessRetainedPercent"))
		p.OwnerDistributionPercent = Resolve(p.OwnerDistributionPercent, numberPtr(sec, "ownerDistributionPercent"))
		if owners := ownerList(sec["owners"]); len(owners) > 0 {
			p.Owners = owners
		}
	}

	if sec := section(doc, keySafetyLimits); sec != nil {
		s := &out.SafetyLimits
		s.MaxTotalLaborPercent = Resolve(s.MaxTotalLaborPercent, numberPtr(sec, "maxTotalLaborPercent"))
		s.MaxFoodCostPercent = Resolve(s.MaxFoodCostPercent, numberPtr(sec, "maxFoodCostPercent"))
		s.WarnWhenExceeded = resolveBool(s.WarnWhenExceeded, sec, "warnWhenExceeded")
	}

	return out
}

func proteinAddOns(raw any) []ProteinAddOn {
	out := []ProteinAddOn{}
	list, _ := raw.([]any)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := text(m, "id")
		price, ok := number(m, "pricePerPerson")
		if id == "" || !ok {
			continue
		}
		name := text(m, "name")
		if name == "" {
			name = id
		}
		out = append(out, ProteinAddOn{ID: id, Name: name, PricePerPerson: price})
	}
	return out
}

func profiles(raw any) []StaffingProfile {
	out := []StaffingProfile{}
	list, _ := raw.([]any)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := text(m, "id")
		maxGuests := countPtr(m, "maxGuests")
		if id == "" || maxGuests == nil {
			continue
		}
		p := StaffingProfile{
			ID:        id,
			Name:      text(m, "name"),
			EventType: profileEventType(text(m, "eventType")),
			MinGuests: resolveCount(0, countPtr(m, "minGuests")),
			MaxGuests: int(*maxGuests),
			Roles:     []model.Role{},
		}
		if p.MinGuests > p.MaxGuests {
			continue
		}
		if p.Name == "" {
			p.Name = id
		}
		tags, _ := m["roles"].([]any)
		for _, t := range tags {
			if s, ok := t.(string); ok && strings.TrimSpace(s) != "" {
				p.Roles = append(p.Roles, model.Role(strings.TrimSpace(s)))
			}
		}
		out = append(out, p)
	}
	return out
}

func profileEventType(s string) model.EventType {
	switch t := model.EventType(strings.ToLower(strings.TrimSpace(s))); t {
	case model.EventTypePrimary, model.EventTypeSecondary:
		return t
	default:
		return model.EventTypeAny
	}
}

func ownerList(raw any) []Owner {
	list, _ := raw.([]any)
	out := make([]Owner, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := text(m, "id")
		equity, ok := number(m, "equityPercent")
		if id == "" || !ok {
			continue
		}
		o := Owner{ID: id, Name: text(m, "name"), EquityPercent: equity}
		if o.Name == "" {
			o.Name = id
		}
		if role, ok := model.ParseRole(text(m, "staffRole")); ok {
			o.StaffRole = role
		}
		out = append(out, o)
	}
	return out
}

func section(doc map[string]any, key string) map[string]any {
	sec, _ := doc[key].(map[string]any)
	return sec
}

func text(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// decimalText is satisfied by json.Number from both encoding/json and
// goccy/go-json when a document is decoded with UseNumber.
type decimalText interface {
	Float64() (float64, error)
}

// number reads a finite numeric value. Strings, bools and nulls are rejected.
func number(m map[string]any, key string) (float64, bool) {
	var f float64
	switch v := m[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case decimalText:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberPtr(m map[string]any, key string) *float64 {
	if v, ok := number(m, key); ok {
		return &v
	}
	return nil
}

// countPtr reads a non-negative whole number.
func countPtr(m map[string]any, key string) *float64 {
	v := numberPtr(m, key)
	if v == nil || *v < 0 || *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return nil
	}
	return v
}

// positive drops zero and negative values; used for divisors.
func positive(p *float64) *float64 {
	if p == nil || *p <= 0 {
		return nil
	}
	return p
}

func resolveCount(def int, layers ...*float64) int {
	return int(Resolve(float64(def), layers...))
}

func resolveBool(def bool, m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}
