package kinematics

import "math"

// Fuel is a bounded tank in [0, max]; max may be +Inf.
type Fuel struct {
	amount float64
	max    float64
	rates  Rates
}

func newFuel(cfg FuelConfig) (*Fuel, error) {
	f := &Fuel{max: math.Inf(1), rates: cfg.Usage}
	if cfg.Max != nil {
		if *cfg.Max < 0 || math.IsNaN(*cfg.Max) {
			return nil, constraintf("max fuel", "invalid cap %g", *cfg.Max)
		}
		f.max = *cfg.Max
	}
	switch {
	case cfg.Initial != nil:
		f.amount = *cfg.Initial
	case !math.IsInf(f.max, 1):
		f.amount = f.max
	default:
		return nil, constraintf("fuel", "an initial amount or a finite max is required")
	}
	if f.amount < 0 || f.amount > f.max || math.IsNaN(f.amount) || math.IsInf(f.amount, 0) {
		return nil, constraintf("fuel", "initial amount %g outside [0, %g]", f.amount, f.max)
	}
	for _, r := range []float64{cfg.Usage.Static, cfg.Usage.Horizontal, cfg.Usage.Vertical} {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, constraintf("fuel usage", "invalid rate %g", r)
		}
	}
	return f, nil
}

// updateBy adds amount·stepSize, clamped to [0, max].
func (f *Fuel) updateBy(amount, stepSize float64) {
	next := f.amount + amount*stepSize
	if math.IsNaN(next) {
		return
	}
	f.amount = math.Min(math.Max(next, 0), f.max)
}
