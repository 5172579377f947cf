package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Precision is the tolerance used when comparing positions and velocities.
const Precision = 0.00001

// Zero is the zero vector.
var Zero = mgl64.Vec3{}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Unit returns v scaled to length 1, or the zero vector when v has no length.
func Unit(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return Zero
	}
	return v.Mul(1 / l)
}

// Squeeze caps the magnitude of v at limit, preserving direction.
// A non-finite limit leaves v untouched.
func Squeeze(v mgl64.Vec3, limit float64) mgl64.Vec3 {
	if math.IsInf(limit, 1) || math.IsNaN(limit) {
		return v
	}
	if limit <= 0 {
		return Zero
	}
	if v.Len() <= limit {
		return v
	}
	return Unit(v).Mul(limit)
}

// Near reports whether a and b are within Precision of each other.
func Near(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < Precision
}

// NearZero reports whether v is within Precision of the zero vector.
func NearZero(v mgl64.Vec3) bool {
	return v.Len() < Precision
}

// ProjectXY drops the vertical component of v.
func ProjectXY(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), v.Y(), 0}
}
