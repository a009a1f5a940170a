// SPDX-License-Identifier: MIT
//
// A layout has a fixed positive dbu (database unit, typically 10⁻³ µm).
// Integer coordinates are in dbu; floating coordinates are in µm.
// Conversion is exact to within ±0.5 dbu.
package units

import "math"

// Dbu is the database-unit scaling factor of a layout: 1 dbu == Dbu µm.
type Dbu float64

// ToDbu converts a µm distance to the nearest dbu integer, rounding half
// away from zero so ToDbu(ToUm(n)) == n for all int64 n representable in
// the float64 range used by this package (spec.md §8 round-trip property).
func (d Dbu) ToDbu(x float64) int64 {
	return int64(math.Round(x / float64(d)))
}

// ToUm converts an integer dbu count to a µm distance.
func (d Dbu) ToUm(n int64) float64 {
	return float64(n) * float64(d)
}

// ToDbu rounds a µm distance to the nearest dbu integer under dbu.
func ToDbu(dbu Dbu, x float64) int64 { return dbu.ToDbu(x) }

// ToUm converts a dbu integer count to µm under dbu.
func ToUm(dbu Dbu, n int64) float64 { return dbu.ToUm(n) }
