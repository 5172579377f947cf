package remote

import (
	"fmt"
	"math"

	"github.com/cxd309/remotesim/internal/kinematics"
	"github.com/cxd309/remotesim/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
)

// Variant specialises a Remote with its battery formula and snapshot projection.
// Variants are values; the Remote itself is never subclassed.
type Variant struct {
	Name    string
	Mobile  bool // false for variants that may not declare motion
	usage   kinematics.UsageFunc
	project func(k Kinematics, s *State)
}

var (
	// Aerial remotes pay for horizontal and vertical thrust separately.
	Aerial = Variant{
		Name:   "aerial",
		Mobile: true,
		usage: func(r kinematics.Rates, a mgl64.Vec3) float64 {
			return r.Static + r.Horizontal*physics.ProjectXY(a).Len() + r.Vertical*math.Abs(a.Z())
		},
		project: func(k Kinematics, s *State) {
			vel, acc := k.Velocity(), k.Acceleration()
			s.Velocity, s.Acceleration = &vel, &acc
			if loc, ok := k.Location(); ok {
				alt := loc.Z()
				s.Altitude = &alt
			}
		},
	}

	// Ground remotes pay only for horizontal thrust and report a planar position.
	Ground = Variant{
		Name:   "ground",
		Mobile: true,
		usage: func(r kinematics.Rates, a mgl64.Vec3) float64 {
			return r.Static + r.Horizontal*physics.ProjectXY(a).Len()
		},
		project: func(k Kinematics, s *State) {
			vel := k.Velocity()
			s.Velocity = &vel
			if loc, ok := k.Location(); ok {
				p := orb.Point{loc.X(), loc.Y()}
				s.GroundPosition = &p
			}
		},
	}

	// Stationary remotes draw only their static rate and never move.
	Stationary = Variant{
		Name:    "stationary",
		usage:   kinematics.StaticUsage,
		project: func(Kinematics, *State) {},
	}
)

// Variants lists the known variants by name.
var Variants = map[string]Variant{
	Aerial.Name:     Aerial,
	Ground.Name:     Ground,
	Stationary.Name: Stationary,
}

// VariantNamed looks up a variant by its scenario name.
func VariantNamed(name string) (Variant, error) {
	v, ok := Variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown remote variant %q", name)
	}
	return v, nil
}

// Usage returns the variant's fuel formula.
func (v Variant) Usage() kinematics.UsageFunc { return v.usage }
