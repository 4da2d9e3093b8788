package gesture

import (
	"github.com/ayusman/maestro/internal/landmark"
)

const (
	// referenceDepthCM is the distance at which normalized screen
	// distances map to centimeters with a factor of 100.
	referenceDepthCM = 30.0

	// spanScale converts a normalized wrist-to-middle-MCP span into
	// the inverse-depth relationship. Calibrated empirically: at
	// 30 cm a typical hand spans about 0.2 of the frame.
	spanScale = 50.0

	// depthWindow is the rolling-mean length for depth estimates.
	depthWindow = 5
)

// DepthEstimator derives an approximate hand-to-camera distance from
// hand geometry, per track. A larger on-screen span means a closer
// hand; the estimate is clamped to the configured bounds and smoothed
// over a short rolling window.
type DepthEstimator struct {
	minCM   float64
	maxCM   float64
	history map[int][]float64
}

// NewDepthEstimator creates a DepthEstimator clamping to [minCM, maxCM].
func NewDepthEstimator(minCM, maxCM float64) *DepthEstimator {
	return &DepthEstimator{
		minCM:   minCM,
		maxCM:   maxCM,
		history: make(map[int][]float64),
	}
}

// Estimate returns the smoothed depth in centimeters for a track. The
// result is always within the clamp bounds, including for degenerate
// inputs such as a zero span.
func (d *DepthEstimator) Estimate(track int, hand *landmark.Hand) float64 {
	span := landmark.Distance3D(hand.Points[landmark.Wrist], hand.Points[landmark.MiddleMCP])

	depth := d.maxCM
	if span > 1e-9 {
		depth = referenceDepthCM / (span * spanScale)
	}
	if depth < d.minCM {
		depth = d.minCM
	}
	if depth > d.maxCM {
		depth = d.maxCM
	}

	buf := append(d.history[track], depth)
	if len(buf) > depthWindow {
		buf = buf[len(buf)-depthWindow:]
	}
	d.history[track] = buf

	var sum float64
	for _, v := range buf {
		sum += v
	}
	return sum / float64(len(buf))
}

// Reset discards the rolling window for a track.
func (d *DepthEstimator) Reset(track int) {
	delete(d.history, track)
}

// SetBounds changes the clamp range and discards buffered samples, so
// every value entering the rolling mean respects the new bounds.
func (d *DepthEstimator) SetBounds(minCM, maxCM float64) {
	d.minCM = minCM
	d.maxCM = maxCM
	d.history = make(map[int][]float64)
}

// distanceCM converts a normalized image-plane distance to approximate
// centimeters using the depth estimate: the same physical motion spans
// fewer normalized units when the hand is farther away.
func distanceCM(a, b landmark.Point3D, depthCM float64) float64 {
	return landmark.Distance(a, b) * 100 * (depthCM / referenceDepthCM)
}
