// Package gesture implements the signal-processing core: temporal
// landmark smoothing, depth compensation, priority-ordered
// classification, and hold/cooldown confirmation of gestures.
package gesture

import (
	"time"
)

// Label identifies a raw or confirmed gesture classification.
type Label string

// Recognized gesture labels, in classification priority order.
const (
	LabelNone       Label = "none"
	LabelFist       Label = "fist"
	LabelPinch      Label = "pinch"
	LabelPinchOpen  Label = "pinch_open"
	LabelPinchClose Label = "pinch_close"
	LabelSwipeLeft  Label = "swipe_left"
	LabelSwipeRight Label = "swipe_right"
)

// Directional reports whether the label is a directional pinch, which
// confirms on its own debounce clock instead of the shared cooldown.
func (l Label) Directional() bool {
	return l == LabelPinchOpen || l == LabelPinchClose
}

// Impulse reports whether the label marks a completed motion rather
// than a held pose. Impulse labels appear for a single frame, so the
// hold gate cannot apply to them; the motion thresholds that produced
// them already established intent.
func (l Label) Impulse() bool {
	return l == LabelSwipeLeft || l == LabelSwipeRight
}

// Actionable reports whether a confirmation of this label maps to a
// command. Plain pinch and none track hold state but never confirm.
func (l Label) Actionable() bool {
	switch l {
	case LabelFist, LabelPinchOpen, LabelPinchClose, LabelSwipeLeft, LabelSwipeRight:
		return true
	}
	return false
}

// Event is one per-frame, per-track classification result. Ephemeral:
// produced once per frame and never persisted.
type Event struct {
	Track     int                `json:"track"`
	Label     Label              `json:"label"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// State is the per-track mutable record behind classification and
// confirmation. It is owned exclusively by one Engine and must never
// be shared across engines or goroutines.
type State struct {
	// Confirmation tracking.
	CurrentLabel       Label
	LabelStart         time.Time
	LastConfirmed      time.Time
	LastPinchConfirmed time.Time

	// Swipe anchor: the position/time displacement is measured from.
	AnchorSet  bool
	AnchorX    float64
	AnchorY    float64
	AnchorTime time.Time

	// Previous-frame pinch distance; valid only while PinchActive.
	PinchActive bool
	PrevPinchCM float64

	// LastSeen drives the hand-loss grace period.
	LastSeen time.Time
}

// NewState returns a State at its initial values.
func NewState() *State {
	return &State{CurrentLabel: LabelNone}
}
