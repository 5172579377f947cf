package kinematics

import (
	"math"

	"github.com/cxd309/remotesim/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Motion holds a Remote's velocity, its last committed acceleration, and the caps
// both are held under.
type Motion struct {
	velocity        mgl64.Vec3
	acceleration    mgl64.Vec3
	maxVelocity     float64
	maxAcceleration float64
}

func newMotion(cfg MotionConfig) (*Motion, error) {
	m := &Motion{
		velocity:        cfg.InitialVelocity,
		maxVelocity:     math.Inf(1),
		maxAcceleration: math.Inf(1),
	}
	if cfg.MaxVelocity != nil {
		if *cfg.MaxVelocity < 0 || math.IsNaN(*cfg.MaxVelocity) {
			return nil, constraintf("max velocity", "invalid cap %g", *cfg.MaxVelocity)
		}
		m.maxVelocity = *cfg.MaxVelocity
	}
	if cfg.MaxAcceleration != nil {
		if *cfg.MaxAcceleration < 0 || math.IsNaN(*cfg.MaxAcceleration) {
			return nil, constraintf("max acceleration", "invalid cap %g", *cfg.MaxAcceleration)
		}
		m.maxAcceleration = *cfg.MaxAcceleration
	}
	if !physics.IsFinite(m.velocity) {
		return nil, constraintf("velocity", "non-finite initial velocity %v", m.velocity)
	}
	if m.velocity.Len() > m.maxVelocity {
		return nil, constraintf("velocity", "initial speed %g exceeds max velocity %g", m.velocity.Len(), m.maxVelocity)
	}
	return m, nil
}

// Speed returns the magnitude of the current velocity.
func (m *Motion) Speed() float64 { return m.velocity.Len() }

// IsMobile reports whether the motion can change position: it is moving, or its caps
// allow it to start moving.
func (m *Motion) IsMobile() bool {
	return m.Speed() > 0 || (m.maxVelocity > 0 && m.maxAcceleration > 0)
}

// accelerate clamps delta to the acceleration cap, records it, and integrates
// velocity for stepSize under the velocity cap.
func (m *Motion) accelerate(delta mgl64.Vec3, stepSize float64) mgl64.Vec3 {
	delta = physics.Squeeze(delta, m.maxAcceleration)
	m.acceleration = delta
	m.velocity = physics.Squeeze(m.velocity.Add(delta.Mul(stepSize)), m.maxVelocity)
	if physics.NearZero(m.velocity) {
		m.velocity = physics.Zero
	}
	return delta
}

// shiftVelocityTo returns the clamped acceleration that moves velocity to target within
// one step of stepSize seconds.
func (m *Motion) shiftVelocityTo(target mgl64.Vec3, stepSize float64) mgl64.Vec3 {
	target = physics.Squeeze(target, m.maxVelocity)
	delta := target.Sub(m.velocity).Mul(1 / stepSize)
	return physics.Squeeze(delta, m.maxAcceleration)
}
