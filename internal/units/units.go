// Package units provides conversions between physical display units,
// the canonical internal unit (inches), and screen pixels.
package units

import (
	"fmt"
	"math"
)

// Unit identifies a physical display unit.
type Unit int

const (
	Inches Unit = iota
	Centimeters
	Millimeters
)

// Conversion factors to inches.
const (
	cmPerInch = 2.54
	mmPerInch = 25.4
)

func (u Unit) String() string {
	switch u {
	case Inches:
		return "in"
	case Centimeters:
		return "cm"
	case Millimeters:
		return "mm"
	default:
		return "unknown"
	}
}

// ParseUnit parses a unit abbreviation as produced by String.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "in", "inches":
		return Inches, nil
	case "cm", "centimeters":
		return Centimeters, nil
	case "mm", "millimeters":
		return Millimeters, nil
	default:
		return Inches, fmt.Errorf("unknown unit %q", s)
	}
}

// All lists the supported units in display order.
func All() []Unit {
	return []Unit{Inches, Centimeters, Millimeters}
}

// ToCanonical converts a value in the given unit to inches.
func ToCanonical(value float64, unit Unit) float64 {
	switch unit {
	case Centimeters:
		return value / cmPerInch
	case Millimeters:
		return value / mmPerInch
	default:
		return value
	}
}

// FromCanonical converts a value in inches to the given unit.
func FromCanonical(inches float64, unit Unit) float64 {
	switch unit {
	case Centimeters:
		return inches * cmPerInch
	case Millimeters:
		return inches * mmPerInch
	default:
		return inches
	}
}

// ToPixels converts a value in the given unit to pixels at the given
// pixels-per-inch scale.
func ToPixels(value float64, unit Unit, scale float64) float64 {
	return ToCanonical(value, unit) * scale
}

// ToUnit converts a pixel distance to the given unit at the given
// pixels-per-inch scale.
func ToUnit(pixels float64, unit Unit, scale float64) float64 {
	return FromCanonical(pixels/scale, unit)
}

// FormatDual renders a canonical distance as a dual-unit label,
// e.g. `24" / 61cm`, with both values rounded to the nearest whole unit.
func FormatDual(inches float64) string {
	return fmt.Sprintf("%.0f\" / %.0fcm", math.Round(inches), math.Round(FromCanonical(inches, Centimeters)))
}
