package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidStop matches any InvalidStopError via errors.Is.
var ErrInvalidStop = errors.New("invalid stop")

// InvalidStopError reports a stop id that does not resolve to a stop position.
type InvalidStopError struct {
	StopID StopID
}

func (e *InvalidStopError) Error() string {
	return fmt.Sprintf("invalid stop: stop_id=%d does not resolve to a position", e.StopID)
}

func (e *InvalidStopError) Is(target error) bool { return target == ErrInvalidStop }
