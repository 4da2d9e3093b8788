// Package actuator performs the real-world effect of a confirmed
// command: media keys and system volume. Implementations never panic
// for a missing platform capability; they report false and the caller
// logs it.
package actuator

import (
	"go.uber.org/zap"

	"github.com/ayusman/maestro/internal/config"
)

// Status describes the actuator's view of the playback target.
type Status struct {
	Volume     int    `json:"volume"`
	Controller string `json:"controller"`
}

// Actuator is the narrow capability surface the dispatcher drives.
// Action methods return false on platform-specific failure; a false
// result is logged by the caller and never retried. Amounts are
// percentage points in [1,100].
type Actuator interface {
	PlayPause() bool
	NextTrack() bool
	PrevTrack() bool
	VolumeUp(amount int) bool
	VolumeDown(amount int) bool
	Status() Status
	Close() error
}

// New resolves a backend name to a concrete Actuator. The choice is
// made once at startup and never changes at runtime. An unknown name
// falls back to the system backend with a warning.
func New(backend string, log *zap.Logger) Actuator {
	switch backend {
	case config.BackendNoop:
		return NewNoop(log)
	case config.BackendSystem:
		return NewSystem(log)
	default:
		log.Warn("unknown actuator backend, falling back to system",
			zap.String("backend", backend))
		return NewSystem(log)
	}
}

// validAmount bounds volume changes to the contract range.
func validAmount(amount int) bool {
	return amount >= 1 && amount <= 100
}
