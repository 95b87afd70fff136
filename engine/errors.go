package engine

import (
	"errors"
	"fmt"
)

// ErrDiscarded is returned by LoadAndPlay when the load was superseded
// by Stop or another load before it finished.
var ErrDiscarded = errors.New("load discarded")

// ErrResourceLost is the cause of a LoadError for a resource that stopped by itself.
var ErrResourceLost = errors.New("audio resource stopped unexpectedly")

// LoadError reports that a track could not be acquired or started.
type LoadError struct {
	TrackID string
	Cause   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.TrackID, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// safely runs fn, turning a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return fn()
}
