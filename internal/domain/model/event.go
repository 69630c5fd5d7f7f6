// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEventType is returned by ParseEventType for values outside the
// primary/secondary slots. The engine itself never returns it.
var ErrUnknownEventType = errors.New("unknown event type")

// EventType selects one of the two pricing/staffing slots.
type EventType string

// Event type values. EventTypeAny is only meaningful on staffing profiles.
const (
	EventTypePrimary   EventType = "primary"
	EventTypeSecondary EventType = "secondary"
	EventTypeAny       EventType = "any"
)

// IsPrimary reports whether t selects the primary slot. Anything that is not
// exactly primary runs down the secondary path.
func (t EventType) IsPrimary() bool { return t == EventTypePrimary }

// Slot collapses t onto the slot the engine will actually use.
func (t EventType) Slot() EventType {
	if t.IsPrimary() {
		return EventTypePrimary
	}
	return EventTypeSecondary
}

// ParseEventType validates a booking's event type or pricing slot.
func ParseEventType(s string) (EventType, error) {
	switch EventType(strings.ToLower(strings.TrimSpace(s))) {
	case EventTypePrimary:
		return EventTypePrimary, nil
	case EventTypeSecondary:
		return EventTypeSecondary, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
}

// StaffPayOverride replaces a role's configured pay parameters for a single
// booking. Nil fields keep the configured value.
type StaffPayOverride struct {
	BasePayPercent       *float64 `json:"basePayPercent,omitempty"`
	CapPercent           *float64 `json:"capPercent,omitempty"`
	GratuitySplitPercent *float64 `json:"gratuitySplitPercent,omitempty"`
}

// EventInput is the booking-shaped record the engine prices.
type EventInput struct {
	Adults                  int                       `json:"adults"`
	Children                int                       `json:"children"`
	EventType               EventType                 `json:"eventType"`
	PricingSlot             EventType                 `json:"pricingSlot,omitempty"`
	DistanceMiles           float64                   `json:"distanceMiles"`
	PremiumAddOn            float64                   `json:"premiumAddOn"`
	StaffingProfileID       string                    `json:"staffingProfileId,omitempty"`
	StaffPayOverrides       map[Role]StaffPayOverride `json:"staffPayOverrides,omitempty"`
	SubtotalOverride        *float64                  `json:"subtotalOverride,omitempty"`
	FoodCostOverride        *float64                  `json:"foodCostOverride,omitempty"`
	GratuityPercentOverride *float64                  `json:"gratuityPercentOverride,omitempty"`
}

// GuestCount returns adults plus children.
func (in EventInput) GuestCount() int { return in.Adults + in.Children }

// Slot resolves the pricing slot, defaulting to the one implied by the event type.
func (in EventInput) Slot() EventType {
	if in.PricingSlot != "" {
		return in.PricingSlot.Slot()
	}
	return in.EventType.Slot()
}

// Validate applies the boundary checks callers owe the engine.
func (in EventInput) Validate() error {
	switch {
	case in.Adults < 0:
		return errors.New("adults must not be negative")
	case in.Children < 0:
		return errors.New("children must not be negative")
	case in.DistanceMiles < 0:
		return errors.New("distanceMiles must not be negative")
	case in.PremiumAddOn < 0:
		return errors.New("premiumAddOn must not be negative")
	}
	if _, err := ParseEventType(string(in.EventType)); err != nil {
		return err
	}
	if in.PricingSlot != "" {
		if _, err := ParseEventType(string(in.PricingSlot)); err != nil {
			return err
		}
	}
	for tag := range in.StaffPayOverrides {
		if _, ok := ParseRole(string(tag)); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRole, tag)
		}
	}
	return nil
}
