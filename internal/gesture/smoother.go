package gesture

import (
	"math"

	"github.com/ayusman/maestro/internal/landmark"
)

// Smoother reduces per-landmark jitter with an exponentially weighted
// average over a bounded history of raw positions, kept per track and
// landmark index. Output never leaves the range of the buffered
// samples: it is a convex combination, so a still hand converges
// instead of drifting.
type Smoother struct {
	size    int
	buffers map[int]*trackHistory
}

type trackHistory struct {
	points [landmark.NumLandmarks][]landmark.Point3D
}

// NewSmoother creates a Smoother with the given window size.
func NewSmoother(size int) *Smoother {
	if size < 1 {
		size = 1
	}
	return &Smoother{
		size:    size,
		buffers: make(map[int]*trackHistory),
	}
}

// Smooth appends the raw landmarks to the track's history and returns
// the weighted average per landmark index. The first observation for
// an index passes through unchanged. The input hand is not modified.
func (s *Smoother) Smooth(track int, raw *landmark.Hand) landmark.Hand {
	hist, ok := s.buffers[track]
	if !ok {
		hist = &trackHistory{}
		s.buffers[track] = hist
	}

	out := landmark.Hand{
		Handedness: raw.Handedness,
		Score:      raw.Score,
	}

	for idx := 0; idx < landmark.NumLandmarks; idx++ {
		buf := append(hist.points[idx], raw.Points[idx])
		if len(buf) > s.size {
			buf = buf[len(buf)-s.size:]
		}
		hist.points[idx] = buf
		out.Points[idx] = weightedAverage(buf)
	}

	return out
}

// Reset discards the buffered history for a track. Called when the
// track is lost so a reappearing hand starts fresh.
func (s *Smoother) Reset(track int) {
	delete(s.buffers, track)
}

// SetSize changes the window size. Existing histories shrink on their
// next append.
func (s *Smoother) SetSize(size int) {
	if size >= 1 {
		s.size = size
	}
}

// weightedAverage combines buffered samples with exponential weights
// spanning e^-2 (oldest) to e^0 (newest), normalized to sum to 1.
func weightedAverage(buf []landmark.Point3D) landmark.Point3D {
	n := len(buf)
	if n == 1 {
		return buf[0]
	}

	var sum float64
	weights := make([]float64, n)
	for i := range weights {
		w := math.Exp(-2 + 2*float64(i)/float64(n-1))
		weights[i] = w
		sum += w
	}

	var avg landmark.Point3D
	for i, p := range buf {
		w := weights[i] / sum
		avg.X += p.X * w
		avg.Y += p.Y * w
		avg.Z += p.Z * w
	}
	return avg
}
