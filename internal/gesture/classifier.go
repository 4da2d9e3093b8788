package gesture

import (
	"math"
	"time"

	"github.com/ayusman/maestro/internal/config"
	"github.com/ayusman/maestro/internal/landmark"
)

// minClosedFingers is how many of the five fingers must fold for a
// fist. Four tolerates an imperfectly tucked thumb.
const minClosedFingers = 4

// Classifier maps one smoothed hand observation to a raw gesture
// label plus numeric metrics. Candidates are evaluated in strict
// priority order (fist, pinch, swipe) so exactly one label wins per
// frame. Classification mutates the track's State: the swipe anchor
// and the previous pinch distance live there.
type Classifier struct {
	tuning config.Tuning
}

// NewClassifier creates a Classifier with the given tuning.
func NewClassifier(tuning config.Tuning) *Classifier {
	return &Classifier{tuning: tuning}
}

// SetTuning replaces the tuning parameters.
func (c *Classifier) SetTuning(tuning config.Tuning) {
	c.tuning = tuning
}

// Classify evaluates one smoothed hand against the gesture candidates
// and returns the winning event. depthCM is the current depth estimate
// for the track; now is the frame timestamp.
func (c *Classifier) Classify(hand *landmark.Hand, depthCM float64, st *State, now time.Time) Event {
	ev := Event{
		Label:     LabelNone,
		Timestamp: now,
		Metrics:   map[string]float64{"depth": depthCM},
	}

	if c.isFist(hand) {
		ev.Label = LabelFist
		ev.Metrics["confidence"] = float64(c.countClosed(hand)) / 5
		// Not a pinch frame, so the pinch baseline must not survive
		// it and measure motion across the gap.
		st.PinchActive = false
		return ev
	}

	pinchCM, pinching := c.pinchDistance(hand, depthCM)
	if pinching {
		ev.Label = LabelPinch
		ev.Metrics["pinch_distance"] = pinchCM

		if st.PinchActive {
			delta := pinchCM - st.PrevPinchCM
			if math.Abs(delta) > c.tuning.PinchDeadzoneCM {
				if delta > 0 {
					ev.Label = LabelPinchOpen
				} else {
					ev.Label = LabelPinchClose
				}
				ev.Metrics["volume_delta"] = delta
			}
		}
		st.PinchActive = true
		st.PrevPinchCM = pinchCM
		return ev
	}
	// Gap in pinching: a stale distance must not measure motion
	// across it.
	st.PinchActive = false

	if label, metrics := c.detectSwipe(hand, depthCM, st, now); label != LabelNone {
		ev.Label = label
		for k, v := range metrics {
			ev.Metrics[k] = v
		}
	}

	return ev
}

// isFist reports whether at least minClosedFingers fingertips have
// folded to or below their base joints.
func (c *Classifier) isFist(hand *landmark.Hand) bool {
	return c.countClosed(hand) >= minClosedFingers
}

// countClosed counts fingers whose tip sits at or below its base in
// image coordinates (y grows downward), within the tolerance.
func (c *Classifier) countClosed(hand *landmark.Hand) int {
	closed := 0
	for i := range landmark.FingerTips {
		tip := hand.Points[landmark.FingerTips[i]]
		base := hand.Points[landmark.FingerBases[i]]
		if tip.Y >= base.Y-c.tuning.FistTolerance {
			closed++
		}
	}
	return closed
}

// pinchDistance returns the thumb-to-index distance in centimeters and
// whether it is close enough to count as a pinch.
func (c *Classifier) pinchDistance(hand *landmark.Hand, depthCM float64) (float64, bool) {
	cm := distanceCM(hand.Points[landmark.ThumbTip], hand.Points[landmark.IndexTip], depthCM)
	return cm, cm < c.tuning.PinchMaxDistanceCM
}

// detectSwipe measures wrist displacement against the track's anchor.
// A qualifying horizontal motion emits once and re-anchors; an anchor
// that goes stale without firing is re-anchored silently.
func (c *Classifier) detectSwipe(hand *landmark.Hand, depthCM float64, st *State, now time.Time) (Label, map[string]float64) {
	wrist := hand.Points[landmark.Wrist]

	if !st.AnchorSet {
		st.AnchorSet = true
		st.AnchorX = wrist.X
		st.AnchorY = wrist.Y
		st.AnchorTime = now
		return LabelNone, nil
	}

	dx := wrist.X - st.AnchorX
	dy := wrist.Y - st.AnchorY
	norm := math.Sqrt(dx*dx + dy*dy)

	elapsed := now.Sub(st.AnchorTime).Seconds()
	velocity := 0.0
	if elapsed > 0 {
		velocity = norm / elapsed
	}

	displacementCM := norm * 100 * (depthCM / referenceDepthCM)

	label := LabelNone
	if displacementCM > c.tuning.SwipeThresholdCM &&
		velocity > c.tuning.SwipeMinVelocity &&
		math.Abs(dx) > 2*math.Abs(dy) {
		if dx > 0 {
			label = LabelSwipeRight
		} else {
			label = LabelSwipeLeft
		}
		st.AnchorX = wrist.X
		st.AnchorY = wrist.Y
		st.AnchorTime = now
	}

	// Stale baseline: too old to measure a deliberate motion against.
	if elapsed > c.tuning.SwipeAnchorTimeout().Seconds() {
		st.AnchorX = wrist.X
		st.AnchorY = wrist.Y
		st.AnchorTime = now
	}

	if label == LabelNone {
		return LabelNone, nil
	}
	return label, map[string]float64{
		"displacement_cm": displacementCM,
		"velocity":        velocity,
	}
}
