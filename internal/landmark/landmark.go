// Package landmark defines the hand-landmark data model shared by the
// capture, detection, and gesture pipelines.
package landmark

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingerTips and FingerBases pair each fingertip with the joint it folds
// toward when the finger closes. For the thumb the reference joint is the
// MCP rather than the CMC, which tracks the tip too loosely.
var (
	FingerTips  = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}
	FingerBases = [5]int{ThumbMCP, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
)

// Point3D represents a 3D point in space with x, y, z coordinates.
// X and Y are normalized to [0,1] relative to the frame; Z is the
// model's relative depth and carries no metric unit.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand represents the 21 hand landmarks detected for a single hand.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance returns the Euclidean distance between two points in the image
// plane. Z is deliberately excluded: the model's depth output is relative,
// so geometric thresholds operate on x and y only.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Distance3D returns the full Euclidean distance including the model's
// relative depth component. Hand-span measurement uses this form.
func Distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
