// Package staffing decides which positions an event needs, either from a
// named staffing profile or from guest-count thresholds.
package staffing

import (
	"sort"

	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
)

// Plan builds the staffing plan for an event. An explicit profile id that
// resolves wins; otherwise the best matching profile is used, and when none
// matches the plan falls back to the per-chef guest thresholds.
func Plan(guestCount int, eventType model.EventType, rs rules.RuleSet, profileID string) model.StaffingPlan {
	slot := eventType.Slot()

	profile, ok := rs.Profile(profileID)
	if !ok {
		profile, ok = Match(guestCount, slot, rs.Staffing.Profiles)
	}

	var roles []model.Role
	if ok {
		roles = profileRoles(profile)
	} else {
		roles = fallbackRoles(guestCount, slot, rs)
	}

	plan := build(roles, slot, rs)
	if ok {
		plan.MatchedProfileID = profile.ID
		plan.MatchedProfileName = profile.Name
	}
	return plan
}

// Match picks the profile for a guest count and slot. Candidates must
// target the slot or 'any' and contain the guest count; exact slot matches
// beat 'any', then the narrowest guest range wins. Remaining ties keep
// declaration order.
func Match(guestCount int, slot model.EventType, profiles []rules.StaffingProfile) (rules.StaffingProfile, bool) {
	candidates := make([]rules.StaffingProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.EventType != slot && p.EventType != model.EventTypeAny {
			continue
		}
		if guestCount < p.MinGuests || guestCount > p.MaxGuests {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return rules.StaffingProfile{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aExact, bExact := a.EventType == slot, b.EventType == slot
		if aExact != bExact {
			return aExact
		}
		return a.MaxGuests-a.MinGuests < b.MaxGuests-b.MinGuests
	})
	return candidates[0], true
}

// profileRoles turns persisted tags into roles. This is the only place the
// retired overflow tag is rewritten; unknown tags are dropped.
func profileRoles(p rules.StaffingProfile) []model.Role {
	out := make([]model.Role, 0, len(p.Roles))
	for _, tag := range p.Roles {
		if role, ok := model.ParseRole(string(tag)); ok {
			out = append(out, role)
		}
	}
	return out
}

func fallbackRoles(guestCount int, slot model.EventType, rs rules.RuleSet) []model.Role {
	perChef := rs.MaxGuestsPerChef(slot)
	if perChef < 1 {
		perChef = 1
	}

	if !slot.IsPrimary() {
		chefs := ceilDiv(guestCount, perChef)
		out := make([]model.Role, chefs)
		for i := range out {
			out[i] = model.RoleChef
		}
		return out
	}

	out := []model.Role{model.RoleLead}
	if guestCount > perChef {
		for i := 0; i < ceilDiv(guestCount-perChef, perChef); i++ {
			out = append(out, model.RoleFull)
		}
	}
	if rs.Staffing.AssistantRequired {
		out = append(out, model.RoleAssistant)
	}
	return out
}

func build(roles []model.Role, slot model.EventType, rs rules.RuleSet) model.StaffingPlan {
	plan := model.StaffingPlan{
		ChefRoles: []model.Role{},
		Staff:     make([]model.StaffPosition, 0, len(roles)),
	}
	for _, role := range roles {
		base, capPct := rs.RolePay(role, slot)
		plan.Staff = append(plan.Staff, model.StaffPosition{
			Role:           role,
			BasePayPercent: base,
			CapPercent:     capPct,
		})
		if role.IsChef() {
			plan.ChefRoles = append(plan.ChefRoles, role)
		} else {
			plan.AssistantNeeded = true
		}
	}
	plan.TotalStaffCount = len(plan.Staff)

	for _, owner := range rs.ProfitDistribution.Owners {
		if owner.StaffRole == "" {
			continue
		}
		for i := range plan.Staff {
			pos := &plan.Staff[i]
			if pos.Role == owner.StaffRole && !pos.IsOwner {
				pos.IsOwner = true
				pos.OwnerRole = owner.ID
				break
			}
		}
	}
	return plan
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
