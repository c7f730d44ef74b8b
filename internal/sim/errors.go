package sim

import (
	"errors"

	"github.com/san-kum/partsim/internal/particle"
)

var (
	// ErrConfigViolation indicates a parameter mutation outside its bounds.
	ErrConfigViolation = errors.New("sim: parameter out of bounds")

	// ErrCapacityExceeded indicates a particle count above the store capacity.
	ErrCapacityExceeded = particle.ErrCapacityExceeded

	// ErrStyleInactive indicates a size adjustment for a style that is not selected.
	ErrStyleInactive = errors.New("sim: render style not active")
)
