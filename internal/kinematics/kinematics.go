// Package kinematics implements the physical component of a Remote: its location,
// velocity, acceleration and fuel, together with the bounded one-step operations
// used to move it.
//
// Direct setters reject out-of-bound values with a *ConstraintError. Bounded
// operations (UpdateBy, ShiftVelocityTo, ShiftLocationTo, UpdateVelocityBy)
// clamp to the caps and never fail.
package kinematics

import (
	"math"

	"github.com/cxd309/remotesim/internal/opt"
	"github.com/cxd309/remotesim/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Kinematics owns the optional location, motion and fuel of one Remote.
type Kinematics struct {
	home     opt.Option[mgl64.Vec3]
	location opt.Option[mgl64.Vec3]
	motion   opt.Option[*Motion]
	fuel     opt.Option[*Fuel]
	usage    UsageFunc
}

// New builds a Kinematics from cfg. usage is the variant's fuel formula; nil
// draws only the static rate.
func New(cfg Config, usage UsageFunc) (*Kinematics, error) {
	if usage == nil {
		usage = StaticUsage
	}
	k := &Kinematics{usage: usage}
	if cfg.Location != nil {
		if !physics.IsFinite(*cfg.Location) {
			return nil, constraintf("location", "non-finite location %v", *cfg.Location)
		}
		k.home = opt.Some(*cfg.Location)
		k.location = opt.Some(*cfg.Location)
	}
	if cfg.Motion != nil {
		m, err := newMotion(*cfg.Motion)
		if err != nil {
			return nil, err
		}
		k.motion = opt.Some(m)
	}
	if cfg.Fuel != nil {
		f, err := newFuel(*cfg.Fuel)
		if err != nil {
			return nil, err
		}
		k.fuel = opt.Some(f)
	}
	return k, nil
}

// Location returns the current location, if the component is physical.
func (k *Kinematics) Location() (mgl64.Vec3, bool) { return k.location.Get() }

// HomeLocation returns the location the Remote started at.
func (k *Kinematics) HomeLocation() (mgl64.Vec3, bool) { return k.home.Get() }

// HasLocation reports whether the Remote occupies a point in space.
func (k *Kinematics) HasLocation() bool { return k.location.IsSome() }

// IsMobile reports whether the Remote can move.
func (k *Kinematics) IsMobile() bool {
	m, ok := k.motion.Get()
	return ok && m.IsMobile()
}

// IsInMotion reports whether the Remote currently has a non-zero velocity.
func (k *Kinematics) IsInMotion() bool {
	return k.Speed() > 0
}

// Velocity returns the current velocity; the zero vector when not mobile.
func (k *Kinematics) Velocity() mgl64.Vec3 {
	if m, ok := k.motion.Get(); ok {
		return m.velocity
	}
	return physics.Zero
}

// Acceleration returns the acceleration committed by the last update.
func (k *Kinematics) Acceleration() mgl64.Vec3 {
	if m, ok := k.motion.Get(); ok {
		return m.acceleration
	}
	return physics.Zero
}

// Speed returns the magnitude of the current velocity.
func (k *Kinematics) Speed() float64 { return k.Velocity().Len() }

// MaxVelocity returns the velocity cap: 0 when not mobile, +Inf when unconstrained.
func (k *Kinematics) MaxVelocity() float64 {
	m, ok := k.motion.Get()
	if !ok || !m.IsMobile() {
		return 0
	}
	return m.maxVelocity
}

// MaxAcceleration returns the acceleration cap: 0 when not mobile, +Inf when unconstrained.
func (k *Kinematics) MaxAcceleration() float64 {
	m, ok := k.motion.Get()
	if !ok || !m.IsMobile() {
		return 0
	}
	return m.maxAcceleration
}

// HasFuel reports whether the Remote carries a fuel tank.
func (k *Kinematics) HasFuel() bool { return k.fuel.IsSome() }

// FuelAmount returns the fuel left; 0 without a tank.
func (k *Kinematics) FuelAmount() float64 {
	if f, ok := k.fuel.Get(); ok {
		return f.amount
	}
	return 0
}

// MaxFuel returns the tank capacity; +Inf when uncapped, 0 without a tank.
func (k *Kinematics) MaxFuel() float64 {
	if f, ok := k.fuel.Get(); ok {
		return f.max
	}
	return 0
}

// IsFuelEmpty reports whether a tank is present and empty.
func (k *Kinematics) IsFuelEmpty() bool {
	f, ok := k.fuel.Get()
	return ok && f.amount <= 0
}

// RemoteFuelUsage returns the per-second fuel draw for committing accel.
func (k *Kinematics) RemoteFuelUsage(accel mgl64.Vec3) float64 {
	f, ok := k.fuel.Get()
	if !ok {
		return 0
	}
	usage := k.usage(f.rates, accel)
	if usage < 0 || math.IsNaN(usage) {
		return 0
	}
	return usage
}

// SetLocationTo moves the Remote to location without integrating.
func (k *Kinematics) SetLocationTo(location mgl64.Vec3) error {
	if !k.location.IsSome() {
		return constraintf("location", "remote has no location")
	}
	if !physics.IsFinite(location) {
		return constraintf("location", "non-finite location %v", location)
	}
	k.location = opt.Some(location)
	return nil
}

// SetVelocityTo replaces the velocity; speeds above MaxVelocity are rejected.
func (k *Kinematics) SetVelocityTo(velocity mgl64.Vec3) error {
	m, ok := k.motion.Get()
	if !ok {
		return constraintf("velocity", "remote has no motion")
	}
	if !physics.IsFinite(velocity) {
		return constraintf("velocity", "non-finite velocity %v", velocity)
	}
	if velocity.Len() > m.maxVelocity {
		return constraintf("velocity", "speed %g exceeds max velocity %g", velocity.Len(), m.maxVelocity)
	}
	m.velocity = velocity
	return nil
}

// SetAccelerationTo replaces the recorded acceleration; magnitudes above
// MaxAcceleration are rejected.
func (k *Kinematics) SetAccelerationTo(accel mgl64.Vec3) error {
	m, ok := k.motion.Get()
	if !ok {
		return constraintf("acceleration", "remote has no motion")
	}
	if !physics.IsFinite(accel) {
		return constraintf("acceleration", "non-finite acceleration %v", accel)
	}
	if accel.Len() > m.maxAcceleration {
		return constraintf("acceleration", "magnitude %g exceeds max acceleration %g", accel.Len(), m.maxAcceleration)
	}
	m.acceleration = accel
	return nil
}

// SetFuelTo resets the tank to amount, which must lie in [0, MaxFuel].
func (k *Kinematics) SetFuelTo(amount float64) error {
	f, ok := k.fuel.Get()
	if !ok {
		return constraintf("fuel", "remote has no fuel")
	}
	if amount < 0 || amount > f.max || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return constraintf("fuel", "amount %g outside [0, %g]", amount, f.max)
	}
	f.amount = amount
	return nil
}

// Update coasts for one step: velocity is held and location integrated.
func (k *Kinematics) Update(stepSize float64) {
	k.UpdateBy(physics.Zero, stepSize)
}

// UpdateBy commits acceleration delta for one step. delta is clamped to
// MaxAcceleration and the resulting velocity to MaxVelocity; the location is then
// integrated and the fuel debited at RemoteFuelUsage(delta).
func (k *Kinematics) UpdateBy(delta mgl64.Vec3, stepSize float64) {
	if stepSize <= 0 || math.IsNaN(stepSize) || math.IsInf(stepSize, 0) {
		return
	}
	if !physics.IsFinite(delta) {
		delta = physics.Zero
	}
	if m, ok := k.motion.Get(); ok && m.IsMobile() {
		delta = m.accelerate(delta, stepSize)
		if loc, ok := k.location.Get(); ok {
			k.location = opt.Some(loc.Add(m.velocity.Mul(stepSize)))
		}
	} else {
		delta = physics.Zero
	}
	k.UpdateFuelBy(-k.RemoteFuelUsage(delta), stepSize)
}

// UpdateVelocityBy applies force as an impulse for one step without moving the
// Remote. force is clamped to MaxAcceleration, the result to MaxVelocity.
func (k *Kinematics) UpdateVelocityBy(force mgl64.Vec3, stepSize float64) {
	m, ok := k.motion.Get()
	if !ok || !m.IsMobile() || stepSize <= 0 || !physics.IsFinite(force) {
		return
	}
	force = physics.Squeeze(force, m.maxAcceleration)
	m.velocity = physics.Squeeze(m.velocity.Add(force.Mul(stepSize)), m.maxVelocity)
	if physics.NearZero(m.velocity) {
		m.velocity = physics.Zero
	}
}

// UpdateFuelBy adds amount·stepSize to the tank, clamped to [0, MaxFuel].
func (k *Kinematics) UpdateFuelBy(amount, stepSize float64) {
	if f, ok := k.fuel.Get(); ok {
		f.updateBy(amount, stepSize)
	}
}

// ShiftVelocityTo returns, without committing it, the clamped acceleration that
// moves the velocity toward target over one step.
func (k *Kinematics) ShiftVelocityTo(target mgl64.Vec3, stepSize float64) mgl64.Vec3 {
	m, ok := k.motion.Get()
	if !ok || !m.IsMobile() || stepSize <= 0 || !physics.IsFinite(target) {
		return physics.Zero
	}
	return m.shiftVelocityTo(target, stepSize)
}

// ShiftLocationTo returns, without committing it, the clamped acceleration for one
// step toward dest. maxVelocity and maxAcceleration may only tighten the Remote's
// own caps.
//
// The planned speed never exceeds the distance left in one step, nor the speed from
// which the Remote can still stop at dest braking at maxAcceleration in whole steps.
func (k *Kinematics) ShiftLocationTo(dest mgl64.Vec3, maxVelocity, maxAcceleration, stepSize float64) mgl64.Vec3 {
	loc, ok := k.location.Get()
	if !ok || !k.IsMobile() || stepSize <= 0 || !physics.IsFinite(dest) {
		return physics.Zero
	}
	maxVelocity = math.Min(maxVelocity, k.MaxVelocity())
	maxAcceleration = math.Min(maxAcceleration, k.MaxAcceleration())

	offset := dest.Sub(loc)
	dist := offset.Len()
	speed := math.Min(maxVelocity, dist/stepSize)
	if !math.IsInf(maxAcceleration, 1) {
		// Largest v with v·dt + v²/(2a) <= dist.
		u := maxAcceleration * stepSize
		speed = math.Min(speed, math.Sqrt(u*u+2*maxAcceleration*dist)-u)
	}
	target := physics.Unit(offset).Mul(speed)
	delta := target.Sub(k.Velocity()).Mul(1 / stepSize)
	return physics.Squeeze(delta, maxAcceleration)
}
