package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/maestro/internal/landmark"
)

// uniformHand returns a hand with every landmark at the same point.
func uniformHand(x, y, z float64) landmark.Hand {
	var hand landmark.Hand
	for i := range hand.Points {
		hand.Points[i] = landmark.Point3D{X: x, Y: y, Z: z}
	}
	return hand
}

func TestSmoother_FirstObservationPassesThrough(t *testing.T) {
	s := NewSmoother(7)

	raw := uniformHand(0.3, 0.6, -0.1)
	raw.Handedness = "Right"
	raw.Score = 0.9

	out := s.Smooth(0, &raw)

	for i := range out.Points {
		if out.Points[i] != raw.Points[i] {
			t.Fatalf("landmark %d: expected passthrough %v, got %v", i, raw.Points[i], out.Points[i])
		}
	}
	if out.Handedness != "Right" {
		t.Errorf("expected handedness %q, got %q", "Right", out.Handedness)
	}
	if out.Score != 0.9 {
		t.Errorf("expected score 0.9, got %f", out.Score)
	}
}

func TestSmoother_OutputStaysWithinSampleRange(t *testing.T) {
	s := NewSmoother(7)

	xs := []float64{0.2, 0.8, 0.4, 0.6, 0.1, 0.9, 0.5, 0.3}
	lo, hi := xs[0], xs[0]

	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}

		raw := uniformHand(x, x/2, 0)
		out := s.Smooth(0, &raw)

		got := out.Points[landmark.Wrist].X
		if got < lo-1e-9 || got > hi+1e-9 {
			t.Errorf("smoothed x %f outside sample range [%f, %f]", got, lo, hi)
		}
		gotY := out.Points[landmark.Wrist].Y
		if gotY < lo/2-1e-9 || gotY > hi/2+1e-9 {
			t.Errorf("smoothed y %f outside sample range [%f, %f]", gotY, lo/2, hi/2)
		}
	}
}

func TestSmoother_RecentSamplesWeighHeavier(t *testing.T) {
	s := NewSmoother(7)

	for i := 0; i < 6; i++ {
		raw := uniformHand(0, 0, 0)
		s.Smooth(0, &raw)
	}
	raw := uniformHand(1, 0, 0)
	out := s.Smooth(0, &raw)

	got := out.Points[landmark.Wrist].X
	uniform := 1.0 / 7.0
	if got <= uniform {
		t.Errorf("expected exponential weighting to pull above uniform mean %f, got %f", uniform, got)
	}
	if got >= 1.0 {
		t.Errorf("expected smoothed value below the newest sample, got %f", got)
	}
}

func TestSmoother_StillHandConverges(t *testing.T) {
	s := NewSmoother(7)

	var out landmark.Hand
	for i := 0; i < 10; i++ {
		raw := uniformHand(0.4, 0.7, 0.2)
		out = s.Smooth(0, &raw)
	}

	p := out.Points[landmark.IndexTip]
	if math.Abs(p.X-0.4) > 1e-9 || math.Abs(p.Y-0.7) > 1e-9 || math.Abs(p.Z-0.2) > 1e-9 {
		t.Errorf("expected still hand to converge to (0.4, 0.7, 0.2), got %v", p)
	}
}

func TestSmoother_WindowEvictsOldSamples(t *testing.T) {
	s := NewSmoother(3)

	for i := 0; i < 3; i++ {
		raw := uniformHand(0, 0, 0)
		s.Smooth(0, &raw)
	}

	var out landmark.Hand
	for i := 0; i < 3; i++ {
		raw := uniformHand(1, 0, 0)
		out = s.Smooth(0, &raw)
	}

	got := out.Points[landmark.Wrist].X
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected window of three identical samples to average to 1.0, got %f", got)
	}
}

func TestSmoother_ResetClearsHistory(t *testing.T) {
	s := NewSmoother(7)

	for i := 0; i < 4; i++ {
		raw := uniformHand(0.2, 0.2, 0)
		s.Smooth(0, &raw)
	}

	s.Reset(0)

	raw := uniformHand(0.9, 0.9, 0)
	out := s.Smooth(0, &raw)

	if out.Points[landmark.Wrist].X != 0.9 {
		t.Errorf("expected passthrough after reset, got %f", out.Points[landmark.Wrist].X)
	}
}

func TestSmoother_TracksAreIndependent(t *testing.T) {
	s := NewSmoother(7)

	rawA := uniformHand(0.2, 0.2, 0)
	rawB := uniformHand(0.8, 0.8, 0)
	s.Smooth(0, &rawA)
	s.Smooth(1, &rawB)

	rawA2 := uniformHand(0.4, 0.4, 0)
	outA := s.Smooth(0, &rawA2)
	outB := s.Smooth(1, &rawB)

	gotA := outA.Points[landmark.Wrist].X
	if gotA < 0.2 || gotA > 0.4 {
		t.Errorf("track 0 smoothed x %f outside its own sample range [0.2, 0.4]", gotA)
	}

	gotB := outB.Points[landmark.Wrist].X
	if math.Abs(gotB-0.8) > 1e-9 {
		t.Errorf("track 1 polluted by track 0 history: expected 0.8, got %f", gotB)
	}
}

func TestNewSmoother_CoercesWindowToMinimum(t *testing.T) {
	s := NewSmoother(0)

	raw := uniformHand(0.2, 0, 0)
	s.Smooth(0, &raw)

	raw = uniformHand(0.9, 0, 0)
	out := s.Smooth(0, &raw)

	if out.Points[landmark.Wrist].X != 0.9 {
		t.Errorf("expected window of 1 to pass latest sample through, got %f", out.Points[landmark.Wrist].X)
	}
}

func TestSmoother_SetSizeShrinksWindow(t *testing.T) {
	s := NewSmoother(7)

	for i := 0; i < 5; i++ {
		raw := uniformHand(0, 0, 0)
		s.Smooth(0, &raw)
	}

	s.SetSize(1)

	raw := uniformHand(1, 0, 0)
	out := s.Smooth(0, &raw)

	if math.Abs(out.Points[landmark.Wrist].X-1.0) > 1e-9 {
		t.Errorf("expected shrunk window to hold only the newest sample, got %f", out.Points[landmark.Wrist].X)
	}
}
