package actuator

import (
	"fmt"
	"sync"
)

// Mock is a test actuator that records every call and can be told to
// fail. Safe for concurrent use.
type Mock struct {
	mu     sync.Mutex
	calls  []string
	fail   bool
	volume int
}

// NewMock creates a Mock with volume at 50.
func NewMock() *Mock {
	return &Mock{volume: 50}
}

// SetFail makes all subsequent action calls return false.
func (m *Mock) SetFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

// Calls returns a copy of the recorded call log. Failed calls are
// recorded too: the dispatcher still invoked the actuator.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) record(call string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return !m.fail
}

// PlayPause records the call.
func (m *Mock) PlayPause() bool { return m.record("play_pause") }

// NextTrack records the call.
func (m *Mock) NextTrack() bool { return m.record("next_track") }

// PrevTrack records the call.
func (m *Mock) PrevTrack() bool { return m.record("prev_track") }

// VolumeUp records the call with its amount.
func (m *Mock) VolumeUp(amount int) bool {
	if !validAmount(amount) {
		return false
	}
	m.mu.Lock()
	m.volume = min(100, m.volume+amount)
	m.mu.Unlock()
	return m.record(fmt.Sprintf("volume_up:%d", amount))
}

// VolumeDown records the call with its amount.
func (m *Mock) VolumeDown(amount int) bool {
	if !validAmount(amount) {
		return false
	}
	m.mu.Lock()
	m.volume = max(0, m.volume-amount)
	m.mu.Unlock()
	return m.record(fmt.Sprintf("volume_down:%d", amount))
}

// Status reports the tracked volume.
func (m *Mock) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{Volume: m.volume, Controller: "mock"}
}

// Close has nothing to release.
func (m *Mock) Close() error { return nil }
