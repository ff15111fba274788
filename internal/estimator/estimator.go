// Package estimator converts per-point magnetic field power readings,
// sampled with a loop probe at 0, 45 and 90 degree orientations, into a
// 2D field direction and magnitude. The field direction stands in for the
// PCB current direction in downstream streamline visualization.
package estimator

import (
	"errors"
	"fmt"
	"math"
)

// Method selects the angle reconstruction formula.
type Method string

const (
	// MethodDifference computes theta = atan2(p90-p0, p45) on linear
	// powers. This is the default.
	MethodDifference Method = "difference"
	// MethodRatio computes theta = atan2(p90, p0) with a half-turn
	// correction driven by the 45 degree reading.
	MethodRatio Method = "ratio"
)

// ParseMethod validates a method name, mapping the empty string to the default.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", string(MethodDifference):
		return MethodDifference, nil
	case string(MethodRatio):
		return MethodRatio, nil
	default:
		return "", fmt.Errorf("unknown estimation method %q", s)
	}
}

var (
	// ErrMissingOrientation indicates one or more of the three readings
	// is absent for a point. The caller decides whether to skip the point
	// or substitute a sentinel.
	ErrMissingOrientation = errors.New("missing orientation reading")

	// ErrDegenerateMeasurement indicates all three linear powers are
	// exactly zero. The returned estimate carries theta 0 and magnitude 0;
	// the direction is undefined, not zero.
	ErrDegenerateMeasurement = errors.New("degenerate measurement: zero power at all orientations")
)

// DirectionEstimate is the per-point output: orientation in radians in
// [-pi, pi), magnitude in linear power units, and the unit direction
// components U = cos(theta), V = sin(theta).
type DirectionEstimate struct {
	Theta     float64
	Magnitude float64
	U         float64
	V         float64
}

// DBmToLinear converts a dBm power reading to linear milliwatts.
// Vector combination is only valid in linear units.
func DBmToLinear(dbm float64) float64 {
	return math.Pow(10, dbm/10)
}

// LinearToDBm converts linear milliwatts back to dBm.
func LinearToDBm(p float64) float64 {
	return 10 * math.Log10(p)
}

// Estimate computes the direction estimate for one grid point from its
// three dBm readings. Linear powers derived from finite dBm values are
// strictly positive, so ErrDegenerateMeasurement can only occur for
// readings of negative infinity.
func Estimate(p0DBm, p45DBm, p90DBm float64, m Method) (DirectionEstimate, error) {
	return EstimateLinear(DBmToLinear(p0DBm), DBmToLinear(p45DBm), DBmToLinear(p90DBm), m)
}

// EstimateLinear computes the direction estimate from already-linear
// values. Callers feeding calibrated amplitude proxies may pass signed
// values; that is the only case in which the ratio method's half-turn
// correction is reachable.
func EstimateLinear(l0, l45, l90 float64, m Method) (DirectionEstimate, error) {
	// atan2(0,0) is conventionally 0, but a zero-power point carries no
	// directional information. Report the zero estimate alongside the error
	// so callers can mark the point rather than plot a spurious direction.
	if l0 == 0 && l45 == 0 && l90 == 0 {
		return DirectionEstimate{}, ErrDegenerateMeasurement
	}

	var theta float64
	switch m {
	case MethodRatio:
		theta = math.Atan2(l90, l0)
		if expected45 := (l0 + l90) / math.Sqrt2; l45*expected45 < 0 {
			theta += math.Pi
		}
	default:
		theta = math.Atan2(l90-l0, l45)
	}
	theta = normalizeAngle(theta)

	return DirectionEstimate{
		Theta:     theta,
		Magnitude: math.Sqrt(l0*l0 + l90*l90),
		U:         math.Cos(theta),
		V:         math.Sin(theta),
	}, nil
}

// CombineIntensity folds the 0 and 90 degree readings into a single
// combined power in dBm, the quantity heatmap clients plot when no
// per-angle separation is wanted.
func CombineIntensity(p0DBm, p90DBm float64) float64 {
	l0 := DBmToLinear(p0DBm)
	l90 := DBmToLinear(p90DBm)
	return LinearToDBm(math.Sqrt(l0*l0 + l90*l90))
}

// normalizeAngle wraps an angle into [-pi, pi).
func normalizeAngle(theta float64) float64 {
	for theta >= math.Pi {
		theta -= 2 * math.Pi
	}
	for theta < -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}
