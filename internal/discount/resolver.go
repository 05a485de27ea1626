// Package discount resolves time-windowed percentage markdowns on inventory
// lines. A discount applies at time T when T falls inside its date window
// (inclusive on both ends) and, if hour bounds are set, T's hour of day falls
// inside the hour window. When several discounts apply the highest percentage
// wins; percentages are never added together.
package discount

import (
	"time"

	"boutique/internal/model"
)

// Applies reports whether the discount is active at the given time.
func Applies(d model.Discount, at time.Time) bool {
	if at.Before(d.StartDate) || at.After(d.EndDate) {
		return false
	}

	if d.StartHour == nil || d.EndHour == nil {
		return true
	}

	hour := at.Hour()
	return hour >= *d.StartHour && hour <= *d.EndHour
}

// HighestApplicable returns the highest applicable percentage among the given
// discounts at the given time, or 0 when none applies.
func HighestApplicable(discounts []model.Discount, at time.Time) float64 {
	var highest float64
	for _, d := range discounts {
		if Applies(d, at) && d.Percentage > highest {
			highest = d.Percentage
		}
	}
	return highest
}

// EffectiveUnitPrice applies a percentage markdown to a unit price.
func EffectiveUnitPrice(price, percentage float64) float64 {
	return price * (1 - percentage/100)
}

// LineTotal computes the discounted total for quantity units of an inventory
// line at the given time. Payment initiation and sale display both go through
// this function so the two computations agree for the same timestamp.
func LineTotal(inv *model.Inventory, quantity int, at time.Time) float64 {
	percentage := HighestApplicable(inv.Discounts, at)
	return EffectiveUnitPrice(inv.Price, percentage) * float64(quantity)
}
