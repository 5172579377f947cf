package intent

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/remotesim/internal/opt"
	"github.com/go-gl/mathgl/mgl64"
)

// intentionJSON is the wire shape shared by every intention. The
// "intention_type" key selects which of the remaining fields apply.
type intentionJSON struct {
	Type            Type        `json:"intention_type"`
	SensorIDs       []string    `json:"sensor_ids,omitempty"`
	Location        *mgl64.Vec3 `json:"location,omitempty"`
	MaxVelocity     *float64    `json:"max_velocity,omitempty"`
	MaxAcceleration *float64    `json:"max_acceleration,omitempty"`
	Acceleration    *mgl64.Vec3 `json:"acceleration,omitempty"`
	Direction       *mgl64.Vec3 `json:"direction,omitempty"`
	Force           *mgl64.Vec3 `json:"force,omitempty"`
}

func fromPtr[T any](p *T) opt.Option[T] {
	if p == nil {
		return opt.None[T]()
	}
	return opt.Some(*p)
}

func toPtr[T any](o opt.Option[T]) *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

// Decode parses a single intention object.
func Decode(data []byte) (Intention, error) {
	var raw intentionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var in Intention
	switch raw.Type {
	case TypeStartup:
		in = Startup{}
	case TypeShutdown:
		in = Shutdown{}
	case TypeDone:
		in = Done{}
	case TypeStop:
		in = Stop{}
	case TypeActivate:
		in = Activate{SensorIDs: raw.SensorIDs}
	case TypeDeactivate:
		in = Deactivate{SensorIDs: raw.SensorIDs}
	case TypeGoTo:
		in = GoTo{
			Location:        fromPtr(raw.Location),
			MaxVelocity:     fromPtr(raw.MaxVelocity),
			MaxAcceleration: fromPtr(raw.MaxAcceleration),
		}
	case TypeMove:
		in = Move{Acceleration: fromPtr(raw.Acceleration)}
	case TypeSteer:
		in = Steer{Direction: fromPtr(raw.Direction)}
	case TypePush:
		if raw.Force == nil {
			return nil, fmt.Errorf("%w: push without \"force\"", ErrInvalidIntention)
		}
		in = Push{Force: *raw.Force}
	case "":
		return nil, fmt.Errorf("%w: missing \"intention_type\"", ErrInvalidIntention)
	default:
		return nil, fmt.Errorf("%w: unknown intention type %q", ErrInvalidIntention, raw.Type)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// Encode renders a single intention in its wire shape.
func Encode(in Intention) ([]byte, error) {
	raw := intentionJSON{Type: in.Type()}
	switch v := in.(type) {
	case Activate:
		raw.SensorIDs = v.SensorIDs
	case Deactivate:
		raw.SensorIDs = v.SensorIDs
	case GoTo:
		raw.Location = toPtr(v.Location)
		raw.MaxVelocity = toPtr(v.MaxVelocity)
		raw.MaxAcceleration = toPtr(v.MaxAcceleration)
	case Move:
		raw.Acceleration = toPtr(v.Acceleration)
	case Steer:
		raw.Direction = toPtr(v.Direction)
	case Push:
		raw.Force = &v.Force
	}
	return json.Marshal(raw)
}

// MarshalJSON implements json.Marshaler, rendering the Set as an array in slot order.
func (s Set) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, s.Len())
	for _, in := range s.Intentions() {
		b, err := Encode(in)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return json.Marshal(items)
}

// UnmarshalJSON implements json.Unmarshaler. The input is an array of intention
// objects; a repeated type is rejected with ErrDuplicateIntention.
func (s *Set) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	var set Set
	for i, item := range items {
		in, err := Decode(item)
		if err != nil {
			return fmt.Errorf("intention %d: %w", i, err)
		}
		if err := set.Add(in); err != nil {
			return fmt.Errorf("intention %d: %w", i, err)
		}
	}
	*s = set
	return nil
}
