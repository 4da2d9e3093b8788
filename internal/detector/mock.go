package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/maestro/internal/landmark"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []landmark.Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []landmark.Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]landmark.Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FistHand returns a preset hand with all five fingers curled into the
// palm, so every fingertip sits below its reference joint.
func FistHand() landmark.Hand {
	hand := landmark.Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at base
	hand.Points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb folded across the palm
	hand.Points[landmark.ThumbCMC] = landmark.Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	hand.Points[landmark.ThumbMCP] = landmark.Point3D{X: 0.57, Y: 0.70, Z: 0.0}
	hand.Points[landmark.ThumbIP] = landmark.Point3D{X: 0.55, Y: 0.72, Z: -0.01}
	hand.Points[landmark.ThumbTip] = landmark.Point3D{X: 0.52, Y: 0.74, Z: -0.01}

	// Index finger curled, tip below the knuckle
	hand.Points[landmark.IndexMCP] = landmark.Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	hand.Points[landmark.IndexPIP] = landmark.Point3D{X: 0.55, Y: 0.64, Z: -0.03}
	hand.Points[landmark.IndexDIP] = landmark.Point3D{X: 0.54, Y: 0.68, Z: -0.04}
	hand.Points[landmark.IndexTip] = landmark.Point3D{X: 0.53, Y: 0.72, Z: -0.02}

	// Middle finger curled
	hand.Points[landmark.MiddleMCP] = landmark.Point3D{X: 0.50, Y: 0.68, Z: 0.0}
	hand.Points[landmark.MiddlePIP] = landmark.Point3D{X: 0.50, Y: 0.63, Z: -0.03}
	hand.Points[landmark.MiddleDIP] = landmark.Point3D{X: 0.49, Y: 0.67, Z: -0.04}
	hand.Points[landmark.MiddleTip] = landmark.Point3D{X: 0.48, Y: 0.72, Z: -0.02}

	// Ring finger curled
	hand.Points[landmark.RingMCP] = landmark.Point3D{X: 0.45, Y: 0.69, Z: 0.0}
	hand.Points[landmark.RingPIP] = landmark.Point3D{X: 0.45, Y: 0.64, Z: -0.03}
	hand.Points[landmark.RingDIP] = landmark.Point3D{X: 0.44, Y: 0.68, Z: -0.04}
	hand.Points[landmark.RingTip] = landmark.Point3D{X: 0.43, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	hand.Points[landmark.PinkyMCP] = landmark.Point3D{X: 0.40, Y: 0.71, Z: 0.0}
	hand.Points[landmark.PinkyPIP] = landmark.Point3D{X: 0.40, Y: 0.67, Z: -0.03}
	hand.Points[landmark.PinkyDIP] = landmark.Point3D{X: 0.39, Y: 0.70, Z: -0.04}
	hand.Points[landmark.PinkyTip] = landmark.Point3D{X: 0.38, Y: 0.73, Z: -0.02}

	return hand
}

// OpenPalmHand returns a preset hand with all fingers extended outward.
func OpenPalmHand() landmark.Hand {
	hand := landmark.Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at base
	hand.Points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	hand.Points[landmark.ThumbCMC] = landmark.Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	hand.Points[landmark.ThumbMCP] = landmark.Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	hand.Points[landmark.ThumbIP] = landmark.Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	hand.Points[landmark.ThumbTip] = landmark.Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	hand.Points[landmark.IndexMCP] = landmark.Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	hand.Points[landmark.IndexPIP] = landmark.Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	hand.Points[landmark.IndexDIP] = landmark.Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	hand.Points[landmark.IndexTip] = landmark.Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	hand.Points[landmark.MiddleMCP] = landmark.Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	hand.Points[landmark.MiddlePIP] = landmark.Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	hand.Points[landmark.MiddleDIP] = landmark.Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	hand.Points[landmark.MiddleTip] = landmark.Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	hand.Points[landmark.RingMCP] = landmark.Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	hand.Points[landmark.RingPIP] = landmark.Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	hand.Points[landmark.RingDIP] = landmark.Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	hand.Points[landmark.RingTip] = landmark.Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	hand.Points[landmark.PinkyMCP] = landmark.Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	hand.Points[landmark.PinkyPIP] = landmark.Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	hand.Points[landmark.PinkyDIP] = landmark.Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	hand.Points[landmark.PinkyTip] = landmark.Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return hand
}

// PinchHand returns a hand whose thumb and index fingertips sit gapCM
// centimeters apart. The wrist-to-knuckle span is fixed so the hand
// reads as exactly 30cm deep, where one normalized unit equals 100cm;
// that keeps the requested gap exact after depth scaling. The remaining
// fingers are extended so the pose cannot read as a fist.
func PinchHand(gapCM float64) landmark.Hand {
	hand := landmark.Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	half := gapCM / 100 / 2

	// Wrist and middle knuckle 0.02 apart pins depth at 30cm
	hand.Points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.6, Z: 0.0}
	hand.Points[landmark.MiddleMCP] = landmark.Point3D{X: 0.5, Y: 0.58, Z: 0.0}

	// Thumb and index converge on the pinch point
	hand.Points[landmark.ThumbCMC] = landmark.Point3D{X: 0.54, Y: 0.59, Z: 0.0}
	hand.Points[landmark.ThumbMCP] = landmark.Point3D{X: 0.53, Y: 0.57, Z: 0.0}
	hand.Points[landmark.ThumbIP] = landmark.Point3D{X: 0.52, Y: 0.56, Z: 0.0}
	hand.Points[landmark.ThumbTip] = landmark.Point3D{X: 0.5 - half, Y: 0.55, Z: 0.0}

	hand.Points[landmark.IndexMCP] = landmark.Point3D{X: 0.51, Y: 0.58, Z: 0.0}
	hand.Points[landmark.IndexPIP] = landmark.Point3D{X: 0.51, Y: 0.57, Z: 0.0}
	hand.Points[landmark.IndexDIP] = landmark.Point3D{X: 0.51, Y: 0.56, Z: 0.0}
	hand.Points[landmark.IndexTip] = landmark.Point3D{X: 0.5 + half, Y: 0.55, Z: 0.0}

	// Middle, ring, and pinky extended upward
	hand.Points[landmark.MiddlePIP] = landmark.Point3D{X: 0.50, Y: 0.50, Z: 0.0}
	hand.Points[landmark.MiddleDIP] = landmark.Point3D{X: 0.50, Y: 0.45, Z: 0.0}
	hand.Points[landmark.MiddleTip] = landmark.Point3D{X: 0.50, Y: 0.40, Z: 0.0}

	hand.Points[landmark.RingMCP] = landmark.Point3D{X: 0.48, Y: 0.58, Z: 0.0}
	hand.Points[landmark.RingPIP] = landmark.Point3D{X: 0.48, Y: 0.51, Z: 0.0}
	hand.Points[landmark.RingDIP] = landmark.Point3D{X: 0.48, Y: 0.46, Z: 0.0}
	hand.Points[landmark.RingTip] = landmark.Point3D{X: 0.48, Y: 0.41, Z: 0.0}

	hand.Points[landmark.PinkyMCP] = landmark.Point3D{X: 0.46, Y: 0.59, Z: 0.0}
	hand.Points[landmark.PinkyPIP] = landmark.Point3D{X: 0.46, Y: 0.53, Z: 0.0}
	hand.Points[landmark.PinkyDIP] = landmark.Point3D{X: 0.46, Y: 0.48, Z: 0.0}
	hand.Points[landmark.PinkyTip] = landmark.Point3D{X: 0.46, Y: 0.43, Z: 0.0}

	return hand
}

// NeutralHandAt returns an open hand whose wrist sits at (x, y), for
// driving wrist-travel sequences. The whole hand translates rigidly
// with the wrist. Depth reads as exactly 30cm, and the thumb-index gap
// is wide enough that the pose never reads as a pinch or a fist.
func NeutralHandAt(x, y float64) landmark.Hand {
	hand := landmark.Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	at := func(dx, dy float64) landmark.Point3D {
		return landmark.Point3D{X: x + dx, Y: y + dy, Z: 0.0}
	}

	// Wrist and middle knuckle 0.02 apart pins depth at 30cm
	hand.Points[landmark.Wrist] = at(0, 0)
	hand.Points[landmark.MiddleMCP] = at(0, -0.02)

	// Thumb extended to the side, far from the index tip
	hand.Points[landmark.ThumbCMC] = at(-0.04, -0.01)
	hand.Points[landmark.ThumbMCP] = at(-0.07, -0.02)
	hand.Points[landmark.ThumbIP] = at(-0.09, -0.04)
	hand.Points[landmark.ThumbTip] = at(-0.11, -0.06)

	// Index finger extended upward
	hand.Points[landmark.IndexMCP] = at(0.02, -0.02)
	hand.Points[landmark.IndexPIP] = at(0.04, -0.05)
	hand.Points[landmark.IndexDIP] = at(0.06, -0.07)
	hand.Points[landmark.IndexTip] = at(0.08, -0.09)

	// Middle finger extended upward
	hand.Points[landmark.MiddlePIP] = at(0.0, -0.06)
	hand.Points[landmark.MiddleDIP] = at(0.0, -0.09)
	hand.Points[landmark.MiddleTip] = at(0.0, -0.12)

	// Ring finger extended upward
	hand.Points[landmark.RingMCP] = at(-0.02, -0.02)
	hand.Points[landmark.RingPIP] = at(-0.03, -0.05)
	hand.Points[landmark.RingDIP] = at(-0.04, -0.08)
	hand.Points[landmark.RingTip] = at(-0.05, -0.10)

	// Pinky finger extended upward
	hand.Points[landmark.PinkyMCP] = at(-0.04, -0.01)
	hand.Points[landmark.PinkyPIP] = at(-0.05, -0.04)
	hand.Points[landmark.PinkyDIP] = at(-0.06, -0.06)
	hand.Points[landmark.PinkyTip] = at(-0.07, -0.08)

	return hand
}
