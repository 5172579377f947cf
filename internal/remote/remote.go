// Package remote implements the Remote: a simulated agent that composes optional
// kinematics, an optional sensor controller and an optional destination, and
// advances them one tick at a time from an intent.Set.
//
// A Remote is Active, Inactive or Done. Done is terminal and implies Inactive.
// A Remote with a fuel tank is disabled once the tank is empty, and a disabled
// Remote is never Active.
package remote

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/cxd309/remotesim/internal/intent"
	"github.com/cxd309/remotesim/internal/kinematics"
	"github.com/cxd309/remotesim/internal/logging"
	"github.com/cxd309/remotesim/internal/opt"
	"github.com/cxd309/remotesim/internal/physics"
	"github.com/cxd309/remotesim/internal/sensor"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrStepSize is returned by Update for a non-positive or non-finite step.
var ErrStepSize = errors.New("step size must be positive and finite")

// Kinematics is the physical component a Remote drives.
// *kinematics.Kinematics is the production implementation.
type Kinematics interface {
	Location() (mgl64.Vec3, bool)
	HomeLocation() (mgl64.Vec3, bool)
	HasLocation() bool
	Velocity() mgl64.Vec3
	Acceleration() mgl64.Vec3
	Speed() float64
	IsMobile() bool
	MaxVelocity() float64
	MaxAcceleration() float64

	HasFuel() bool
	IsFuelEmpty() bool
	FuelAmount() float64
	RemoteFuelUsage(accel mgl64.Vec3) float64

	SetLocationTo(location mgl64.Vec3) error
	SetVelocityTo(velocity mgl64.Vec3) error

	Update(stepSize float64)
	UpdateBy(delta mgl64.Vec3, stepSize float64)
	UpdateVelocityBy(force mgl64.Vec3, stepSize float64)
	UpdateFuelBy(amount, stepSize float64)
	ShiftVelocityTo(target mgl64.Vec3, stepSize float64) mgl64.Vec3
	ShiftLocationTo(dest mgl64.Vec3, maxVelocity, maxAcceleration, stepSize float64) mgl64.Vec3
}

// SensorController is the sensor component a Remote drives.
// *sensor.Controller is the production implementation.
type SensorController interface {
	ActivateSensors(ids ...string)
	ActivateAll()
	DeactivateSensors(ids ...string)
	DeactivateAll()
	SensorFuelUsage() float64
	SensorStates() []sensor.State
	HasSensorWithMatch(matchers []string) bool
}

var (
	_ Kinematics       = (*kinematics.Kinematics)(nil)
	_ SensorController = (*sensor.Controller)(nil)
)

// Remote is a single simulated agent.
type Remote struct {
	id      string
	team    string
	tags    []string
	variant Variant

	kinematics  opt.Option[Kinematics]
	sensors     opt.Option[SensorController]
	destination opt.Option[Destination]

	active bool
	done   bool

	logger *slog.Logger
}

// Option configures a Remote at construction.
type Option func(*Remote)

// WithLogger sets the logger lifecycle transitions and arrivals are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(r *Remote) { r.logger = l }
}

// WithKinematics replaces the kinematics built from the descriptor.
func WithKinematics(k Kinematics) Option {
	return func(r *Remote) { r.kinematics = opt.Some(k) }
}

// WithSensors replaces the sensor controller built from the descriptor.
func WithSensors(sc SensorController) Option {
	return func(r *Remote) { r.sensors = opt.Some(sc) }
}

// New creates a Remote from its descriptor.
func New(d Descriptor, opts ...Option) (*Remote, error) {
	if d.RemoteID == "" {
		return nil, errors.New("remote: missing remote_id")
	}
	variant, err := VariantNamed(d.Variant)
	if err != nil {
		return nil, fmt.Errorf("remote %q: %w", d.RemoteID, err)
	}
	r := &Remote{
		id:      d.RemoteID,
		team:    d.Team,
		tags:    d.Tags,
		variant: variant,
		active:  d.Active,
		logger:  logging.Discard(),
	}
	if d.Kinematics != nil {
		if d.Kinematics.Motion != nil && !variant.Mobile {
			return nil, fmt.Errorf("remote %q: %s remotes cannot declare motion", d.RemoteID, variant.Name)
		}
		k, err := kinematics.New(*d.Kinematics, variant.usage)
		if err != nil {
			return nil, fmt.Errorf("remote %q kinematics: %w", d.RemoteID, err)
		}
		r.kinematics = opt.Some[Kinematics](k)
	}
	if len(d.Sensors) > 0 {
		sc, err := sensor.NewController(d.Sensors)
		if err != nil {
			return nil, fmt.Errorf("remote %q sensors: %w", d.RemoteID, err)
		}
		r.sensors = opt.Some[SensorController](sc)
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = r.logger.With("remote_id", r.id)
	if r.active && !r.IsEnabled() {
		r.active = false
	}
	return r, nil
}

// ID returns the remote id.
func (r *Remote) ID() string { return r.id }

// Team returns the team the Remote plays for.
func (r *Remote) Team() string { return r.team }

// Variant returns the Remote's variant.
func (r *Remote) Variant() Variant { return r.variant }

// Kinematics returns the physical component, if any.
func (r *Remote) Kinematics() (Kinematics, bool) { return r.kinematics.Get() }

// Sensors returns the sensor controller, if any.
func (r *Remote) Sensors() (SensorController, bool) { return r.sensors.Get() }

// Destination returns the live travel order, if any.
func (r *Remote) Destination() (Destination, bool) { return r.destination.Get() }

// IsEnabled reports whether the Remote has fuel left, or needs none.
func (r *Remote) IsEnabled() bool {
	k, ok := r.kinematics.Get()
	return !ok || !k.IsFuelEmpty()
}

// IsActive reports whether the Remote is switched on and enabled.
func (r *Remote) IsActive() bool { return r.active && r.IsEnabled() }

// IsDone reports whether the Remote has been retired.
func (r *Remote) IsDone() bool { return r.done }

// HasTagMatch reports whether one of matchers names the Remote's id or one of its tags.
func (r *Remote) HasTagMatch(matchers []string) bool {
	for _, m := range matchers {
		if m == r.id || slices.Contains(r.tags, m) {
			return true
		}
	}
	return false
}

// HasSensorWithMatch reports whether the Remote carries a sensor matching one of matchers.
func (r *Remote) HasSensorWithMatch(matchers []string) bool {
	sc, ok := r.sensors.Get()
	return ok && sc.HasSensorWithMatch(matchers)
}

// Update advances the Remote by one tick of stepSize seconds under intentions.
// It returns an error only for an invalid stepSize.
func (r *Remote) Update(intentions intent.Set, stepSize float64) error {
	if stepSize <= 0 || math.IsNaN(stepSize) || math.IsInf(stepSize, 0) {
		return fmt.Errorf("remote %q: %w: %g", r.id, ErrStepSize, stepSize)
	}

	if !r.IsEnabled() || r.done {
		if r.active {
			r.setInactive("disabled")
		}
		r.forceStop(stepSize)
		return nil
	}

	// Lifecycle, in this order so DONE wins over STARTUP.
	if intentions.Startup() && !r.active {
		r.active = true
		r.logger.Debug("remote started")
	}
	if intentions.Shutdown() {
		r.setInactive("shutdown")
	}
	if intentions.Done() {
		r.setDone()
	}
	if !r.IsActive() {
		r.forceStop(stepSize)
		return nil
	}

	r.updateSensors(intentions, stepSize)
	if !r.IsEnabled() {
		r.setInactive("fuel exhausted by sensors")
		r.forceStop(stepSize)
		return nil
	}

	k, ok := r.kinematics.Get()
	if !ok || !k.HasLocation() {
		return nil
	}
	if intentions.IsEmpty() || !k.IsMobile() {
		k.Update(stepSize)
	} else {
		r.updateMotion(k, intentions, stepSize)
	}

	if !r.IsEnabled() {
		r.setInactive("fuel exhausted")
	}
	return nil
}

func (r *Remote) updateSensors(intentions intent.Set, stepSize float64) {
	sc, ok := r.sensors.Get()
	if !ok {
		return
	}
	if a, ok := intentions.Activate(); ok {
		if len(a.SensorIDs) == 0 {
			sc.ActivateAll()
		} else {
			sc.ActivateSensors(a.SensorIDs...)
		}
	}
	if d, ok := intentions.Deactivate(); ok {
		if len(d.SensorIDs) == 0 {
			sc.DeactivateAll()
		} else {
			sc.DeactivateSensors(d.SensorIDs...)
		}
	}
	if k, ok := r.kinematics.Get(); ok {
		k.UpdateFuelBy(-sc.SensorFuelUsage(), stepSize)
	}
}

// updateMotion applies the first matching motion intention. A push is applied
// first and does not end the evaluation.
func (r *Remote) updateMotion(k Kinematics, intentions intent.Set, stepSize float64) {
	if p, ok := intentions.Push(); ok && p.Force != physics.Zero {
		k.UpdateVelocityBy(p.Force, stepSize)
	}

	if intentions.Stop() {
		r.destination = opt.None[Destination]()
		k.UpdateBy(k.ShiftVelocityTo(physics.Zero, stepSize), stepSize)
		return
	}

	if g, ok := intentions.GoTo(); ok {
		loc, ok := g.Location.Get()
		if !ok {
			loc, ok = k.HomeLocation()
		}
		if !ok {
			k.Update(stepSize)
			return
		}
		d := NewDestination(loc, g.MaxVelocity, g.MaxAcceleration)
		r.destination = opt.Some(d)
		r.seek(k, d, stepSize)
		return
	}

	if m, ok := intentions.Move(); ok {
		if accel, ok := m.Acceleration.Get(); ok {
			r.destination = opt.None[Destination]()
			k.UpdateBy(accel, stepSize)
		} else if d, ok := r.destination.Get(); ok {
			r.seek(k, d, stepSize)
		} else {
			k.Update(stepSize)
		}
		return
	}

	if s, ok := intentions.Steer(); ok {
		if dir, ok := s.Direction.Get(); ok {
			r.destination = opt.None[Destination]()
			target := physics.Unit(dir).Mul(k.Speed())
			k.UpdateBy(k.ShiftVelocityTo(target, stepSize), stepSize)
			return
		}
		if d, ok := r.destination.Get(); ok {
			loc, _ := k.Location()
			target := physics.Unit(d.Location().Sub(loc)).Mul(k.Speed())
			k.UpdateBy(k.ShiftVelocityTo(target, stepSize), stepSize)
			return
		}
	}

	if d, ok := r.destination.Get(); ok {
		r.seek(k, d, stepSize)
		return
	}
	k.Update(stepSize)
}

// seek advances one step toward d. When the leg can be finished within the step
// the Remote lands on d exactly, at rest, and pays the remaining kinetic cost of
// the leg at once. A step that ends within Precision of d also lands.
func (r *Remote) seek(k Kinematics, d Destination, stepSize float64) {
	maxVelocity, maxAcceleration := d.caps(k.MaxVelocity(), k.MaxAcceleration())
	loc, _ := k.Location()
	state := physics.NewState(loc, k.Velocity(), maxVelocity, maxAcceleration)

	if physics.TimeToReachDest(state, d.Location()) > stepSize {
		k.UpdateBy(k.ShiftLocationTo(d.Location(), maxVelocity, maxAcceleration, stepSize), stepSize)
		if loc, _ := k.Location(); physics.Near(loc, d.Location()) {
			r.land(k, d)
		}
		return
	}

	k.UpdateFuelBy(-r.legCost(k, state, d.Location()), 1)
	r.land(k, d)
	k.UpdateBy(physics.Zero, stepSize)
}

// land puts the Remote on d at rest and clears the destination.
func (r *Remote) land(k Kinematics, d Destination) {
	if err := k.SetLocationTo(d.Location()); err != nil {
		r.logger.Debug("arrival location rejected", "error", err)
	}
	if err := k.SetVelocityTo(physics.Zero); err != nil {
		r.logger.Debug("arrival velocity rejected", "error", err)
	}
	r.destination = opt.None[Destination]()
	r.logger.Debug("destination reached", "location", d.Location())
}

// legCost estimates the kinetic fuel the rest of the leg would burn: the time
// spent thrusting in the planned profile, charged at the draw of full thrust
// above the static rate. Static draw is left to the per-step update.
func (r *Remote) legCost(k Kinematics, state physics.State, dest mgl64.Vec3) float64 {
	if math.IsInf(state.MaxAcceleration, 1) || !k.HasFuel() {
		return 0
	}
	dir := physics.Unit(dest.Sub(state.Location))
	if dir == physics.Zero {
		dir = physics.Unit(state.Velocity)
	}
	thrust := dir.Mul(state.MaxAcceleration)
	rate := k.RemoteFuelUsage(thrust) - k.RemoteFuelUsage(physics.Zero)
	return physics.PlanLeg(state, dest).Thrusting() * math.Max(rate, 0)
}

// forceStop drops the destination and decelerates under the acceleration cap.
func (r *Remote) forceStop(stepSize float64) {
	r.destination = opt.None[Destination]()
	k, ok := r.kinematics.Get()
	if !ok || k.Speed() == 0 {
		return
	}
	k.UpdateBy(k.ShiftVelocityTo(physics.Zero, stepSize), stepSize)
}

func (r *Remote) setInactive(reason string) {
	if sc, ok := r.sensors.Get(); ok {
		sc.DeactivateAll()
	}
	r.destination = opt.None[Destination]()
	if r.active {
		r.logger.Debug("remote inactive", "reason", reason)
	}
	r.active = false
}

func (r *Remote) setDone() {
	r.setInactive("done")
	r.done = true
	r.logger.Debug("remote done")
}
