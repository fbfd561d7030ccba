// Package units converts between the stored length unit (millimeters) and
// the working unit (inches) used by the geometry engine.
//
// Conversion happens at exactly two boundaries: when a cabinet spec is
// accepted, and when node geometry is emitted. Every converted value is
// quantized so repeated conversions settle on the same number instead of
// accumulating floating-point drift.
package units

import "math"

// MillimetersPerInch is the exact definition of the international inch.
const MillimetersPerInch = 25.4

// InchResolution is the quantization step for working-unit lengths.
// Values are held to the nearest thousandth of an inch.
const InchResolution = 0.001

// MillimeterResolution is the quantization step for stored-unit lengths.
const MillimeterResolution = 0.01

// Quantize rounds a length in inches to InchResolution.
func Quantize(in float64) float64 {
	return roundTo(in, InchResolution)
}

// MillimetersToInches converts a stored length to the working unit.
func MillimetersToInches(mm float64) float64 {
	return Quantize(mm / MillimetersPerInch)
}

// InchesToMillimeters converts a working length back to the stored unit.
func InchesToMillimeters(in float64) float64 {
	return roundTo(in*MillimetersPerInch, MillimeterResolution)
}

// roundTo rounds v to the nearest multiple of step. NaN and infinities pass
// through unchanged.
func roundTo(v, step float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r := math.Round(v/step) * step
	if r == 0 {
		return 0 // normalize -0
	}
	return r
}
