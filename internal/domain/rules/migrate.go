package rules

// Section keys of a stored rule-set document.
const (
	keyVersion            = "version"
	keyPricing            = "pricing"
	keyStaffing           = "staffing"
	keyPrivateLabor       = "privateLabor"
	keyBuffetLabor        = "buffetLabor"
	keyCosts              = "costs"
	keyDistance           = "distance"
	keyProfitDistribution = "profitDistribution"
	keySafetyLimits       = "safetyLimits"
)

// fieldRename moves a version-1 key onto its current name within a section.
type fieldRename struct {
	section string
	from    string
	to      string
}

// v1Renames lists the version-1 field names. Slot fields were named after
// the hibachi business ("private dinner", "buffet") before being generalized,
// and the overflow chef role was folded into the full chef role.
var v1Renames = []fieldRename{
	{keyPricing, "privateDinnerBasePrice", "primaryBasePrice"},
	{keyPricing, "buffetBasePrice", "secondaryBasePrice"},
	{keyStaffing, "maxGuestsPerChefPrivate", "maxGuestsPerChefPrimary"},
	{keyStaffing, "maxGuestsPerChefBuffet", "maxGuestsPerChefSecondary"},
	{keyCosts, "foodCostPercentPrivate", "foodCostPercentPrimary"},
	{keyCosts, "foodCostPercentBuffet", "foodCostPercentSecondary"},
	{keyPrivateLabor, "overflowBasePayPercent", "fullBasePayPercent"},
	{keyPrivateLabor, "overflowCapPercent", "fullCapPercent"},
}

// Legacy two-owner split fields in profitDistribution.
const (
	legacyOwnerAPercent = "ownerAEquityPercent"
	legacyOwnerBPercent = "ownerBEquityPercent"
	legacyOwnerAName    = "ownerAName"
	legacyOwnerBName    = "ownerBName"
)

// Migrate converts a stored document to the current schema version. It
// returns a new document; stored is never modified. Documents already at
// CurrentVersion are copied through untouched.
func Migrate(stored map[string]any) map[string]any {
	out := make(map[string]any, len(stored))
	for k, v := range stored {
		if sec, ok := v.(map[string]any); ok {
			v = copySection(sec)
		}
		out[k] = v
	}

	if v, ok := number(stored, keyVersion); ok && v >= CurrentVersion {
		return out
	}

	for _, r := range v1Renames {
		sec, ok := out[r.section].(map[string]any)
		if !ok {
			continue
		}
		old, present := sec[r.from]
		if !present {
			continue
		}
		if cur, exists := sec[r.to]; !exists || cur == nil {
			sec[r.to] = old
		}
		delete(sec, r.from)
	}

	if sec, ok := out[keyProfitDistribution].(map[string]any); ok {
		migrateOwners(sec)
	}

	out[keyVersion] = CurrentVersion
	return out
}

// migrateOwners derives an owners list from the legacy single split when the
// document carries no owners of its own.
func migrateOwners(sec map[string]any) {
	a, hasA := number(sec, legacyOwnerAPercent)
	b, hasB := number(sec, legacyOwnerBPercent)
	nameA, _ := sec[legacyOwnerAName].(string)
	nameB, _ := sec[legacyOwnerBName].(string)
	for _, k := range []string{legacyOwnerAPercent, legacyOwnerBPercent, legacyOwnerAName, legacyOwnerBName} {
		delete(sec, k)
	}

	if list, ok := sec["owners"].([]any); ok && len(list) > 0 {
		return
	}
	if !hasA && !hasB {
		return
	}
	switch {
	case !hasA:
		a = 100 - b
	case !hasB:
		b = 100 - a
	}
	if nameA == "" {
		nameA = "Owner A"
	}
	if nameB == "" {
		nameB = "Owner B"
	}
	sec["owners"] = []any{
		map[string]any{"id": "owner-a", "name": nameA, "equityPercent": a},
		map[string]any{"id": "owner-b", "name": nameB, "equityPercent": b},
	}
}

func copySection(sec map[string]any) map[string]any {
	out := make(map[string]any, len(sec))
	for k, v := range sec {
		out[k] = v
	}
	return out
}
