package kinematics

import (
	"errors"
	"fmt"
)

// ErrConstraint is matched by every *ConstraintError.
var ErrConstraint = errors.New("kinematic constraint violated")

// ConstraintError reports a direct setter call that was rejected because the
// requested value exceeds a declared cap or is otherwise not representable.
type ConstraintError struct {
	Field  string
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("cannot set %s: %s", e.Field, e.Reason)
}

func (e *ConstraintError) Unwrap() error { return ErrConstraint }

func constraintf(field, format string, args ...any) error {
	return &ConstraintError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
