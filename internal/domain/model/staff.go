package model

import (
	"errors"
	"strings"
)

// ErrUnknownRole is returned when a staff pay override names no known role.
var ErrUnknownRole = errors.New("unknown staff role")

// Role tags a staff position.
type Role string

// Known roles. RoleChef is the buffet/secondary chef.
const (
	RoleLead      Role = "lead"
	RoleFull      Role = "full"
	RoleAssistant Role = "assistant"
	RoleChef      Role = "chef"
)

// roleOverflow is the retired tag for extra chefs, now RoleFull.
const roleOverflow = "overflow"

// ParseRole maps a persisted role tag onto the closed Role set.
func ParseRole(tag string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case string(RoleLead):
		return RoleLead, true
	case string(RoleFull), roleOverflow:
		return RoleFull, true
	case string(RoleAssistant):
		return RoleAssistant, true
	case string(RoleChef):
		return RoleChef, true
	default:
		return "", false
	}
}

// IsChef reports whether the role shares the chef gratuity pool.
func (r Role) IsChef() bool {
	return r == RoleLead || r == RoleFull || r == RoleChef
}

// StaffPosition is one seat in a staffing plan.
type StaffPosition struct {
	Role           Role     `json:"role"`
	BasePayPercent float64  `json:"basePayPercent"`
	CapPercent     *float64 `json:"capPercent"`
	IsOwner        bool     `json:"isOwner"`
	// OwnerRole holds the id of the owner credited for this position.
	OwnerRole string `json:"ownerRole,omitempty"`
}

// StaffingPlan is the planner output.
type StaffingPlan struct {
	ChefRoles          []Role          `json:"chefRoles"`
	AssistantNeeded    bool            `json:"assistantNeeded"`
	TotalStaffCount    int             `json:"totalStaffCount"`
	Staff              []StaffPosition `json:"staff"`
	MatchedProfileID   string          `json:"matchedProfileId,omitempty"`
	MatchedProfileName string          `json:"matchedProfileName,omitempty"`
}

// LaborCompensation is the pay computed for one position.
type LaborCompensation struct {
	Role            Role     `json:"role"`
	BasePay         float64  `json:"basePay"`
	GratuityShare   float64  `json:"gratuityShare"`
	TotalCalculated float64  `json:"totalCalculated"`
	CapPercent      *float64 `json:"capPercent"`
	CapAmount       *float64 `json:"capAmount"`
	FinalPay        float64  `json:"finalPay"`
	WasCapped       bool     `json:"wasCapped"`
	ExcessToProfit  float64  `json:"excessToProfit"`
}
