// Package detector turns video frames into hand-landmark observations
// using an external landmark model. The model is consumed, never
// built: detection quality is the model's problem, everything after it
// is ours.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/maestro/internal/landmark"
)

// Detector analyzes one frame and returns the hands found in it. An
// empty result is a normal observation, not an error; errors are
// reserved for model or transport failure.
type Detector interface {
	Detect(frame *gocv.Mat) ([]landmark.Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config bounds the detection workload.
type Config struct {
	// MaxHands caps how many hands one frame may report; extra
	// detections are discarded highest-index first.
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns defaults tuned for one-handed control.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.7,
	}
}
