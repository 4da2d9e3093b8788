package gesture

import (
	"github.com/ayusman/maestro/internal/config"
)

// Confirmer turns noisy per-frame labels into at most one confirmed
// command per deliberate gesture. Pose labels must persist for the hold
// time before they can confirm, and confirmations share a cooldown so a
// held gesture fires at a bounded rate. Two exceptions: directional
// pinches run on their own short debounce so continuous volume
// adjustment stays responsive, and swipes skip the hold gate entirely
// because the classifier emits them for exactly one frame, after the
// motion itself has crossed the displacement and velocity thresholds.
type Confirmer struct {
	tuning config.Tuning
}

// NewConfirmer creates a Confirmer with the given tuning.
func NewConfirmer(tuning config.Tuning) *Confirmer {
	return &Confirmer{tuning: tuning}
}

// SetTuning replaces the tuning parameters.
func (c *Confirmer) SetTuning(tuning config.Tuning) {
	c.tuning = tuning
}

// Update advances the track's confirmation state with one raw event
// and reports whether the event's label confirmed this frame.
//
// A change of label restarts the hold timer, and for pose labels never
// confirms. Labels that map to no command (none, plain pinch) keep the
// hold tracking honest but are never confirmed and never touch the
// cooldown clocks, so an idle hand cannot delay the next deliberate
// gesture.
func (c *Confirmer) Update(st *State, ev Event) bool {
	now := ev.Timestamp

	if ev.Label != st.CurrentLabel {
		st.CurrentLabel = ev.Label
		st.LabelStart = now
		if !ev.Label.Impulse() {
			return false
		}
	}

	if !ev.Label.Actionable() {
		return false
	}

	if !ev.Label.Impulse() && now.Sub(st.LabelStart) < c.tuning.HoldTime() {
		return false
	}

	if ev.Label.Directional() {
		if now.Sub(st.LastPinchConfirmed) < c.tuning.PinchDebounce() {
			return false
		}
		st.LastPinchConfirmed = now
		return true
	}

	if now.Sub(st.LastConfirmed) < c.tuning.Cooldown() {
		return false
	}
	st.LastConfirmed = now
	return true
}
