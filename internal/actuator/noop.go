package actuator

import (
	"sync"

	"go.uber.org/zap"
)

// Noop acknowledges every command without touching the OS. It serves
// headless deployments where attaching to a real audio backend is
// unwanted, while still tracking volume so status reporting works.
type Noop struct {
	log *zap.Logger

	mu     sync.Mutex
	volume int
}

// NewNoop creates the no-op actuator.
func NewNoop(log *zap.Logger) *Noop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Noop{log: log, volume: 50}
}

// PlayPause logs and succeeds.
func (n *Noop) PlayPause() bool {
	n.log.Debug("noop actuator: play/pause")
	return true
}

// NextTrack logs and succeeds.
func (n *Noop) NextTrack() bool {
	n.log.Debug("noop actuator: next track")
	return true
}

// PrevTrack logs and succeeds.
func (n *Noop) PrevTrack() bool {
	n.log.Debug("noop actuator: previous track")
	return true
}

// VolumeUp adjusts the tracked volume only.
func (n *Noop) VolumeUp(amount int) bool {
	if !validAmount(amount) {
		return false
	}
	n.mu.Lock()
	n.volume = min(100, n.volume+amount)
	n.mu.Unlock()
	n.log.Debug("noop actuator: volume up", zap.Int("amount", amount))
	return true
}

// VolumeDown adjusts the tracked volume only.
func (n *Noop) VolumeDown(amount int) bool {
	if !validAmount(amount) {
		return false
	}
	n.mu.Lock()
	n.volume = max(0, n.volume-amount)
	n.mu.Unlock()
	n.log.Debug("noop actuator: volume down", zap.Int("amount", amount))
	return true
}

// Status reports the tracked volume.
func (n *Noop) Status() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Status{Volume: n.volume, Controller: "noop"}
}

// Close has nothing to release.
func (n *Noop) Close() error {
	return nil
}
