package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionGate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{
			name:      "default threshold",
			threshold: 1.0,
		},
		{
			name:      "high threshold",
			threshold: 5.0,
		},
		{
			name:      "low threshold",
			threshold: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewMotionGate(tt.threshold)
			if gate == nil {
				t.Fatal("NewMotionGate returned nil")
			}
			defer gate.Close()

			if gate.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", gate.threshold, tt.threshold)
			}

			if gate.initialized {
				t.Error("gate should not be initialized before the first frame")
			}
		})
	}
}

func TestMotionGate_StillScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	gate := NewMotionGate(1.0) // 1% threshold
	defer gate.Close()

	// Two identical black frames
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()

	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame only establishes the baseline
	moving, changePercent := gate.Changed(&frame1)
	if moving {
		t.Error("first frame should not report motion")
	}
	if changePercent != 0 {
		t.Errorf("first frame changePercent = %f, want 0", changePercent)
	}

	// An identical second frame should not report motion
	moving, changePercent = gate.Changed(&frame2)
	if moving {
		t.Errorf("identical frames should not report motion, changePercent = %f", changePercent)
	}
}

func TestMotionGate_SceneChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	gate := NewMotionGate(1.0) // 1% threshold
	defer gate.Close()

	blackFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blackFrame.Close()

	whiteFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer whiteFrame.Close()
	whiteFrame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	// First frame establishes the baseline
	moving, _ := gate.Changed(&blackFrame)
	if moving {
		t.Error("first frame should not report motion")
	}

	// A completely different frame should report motion
	moving, changePercent := gate.Changed(&whiteFrame)
	if !moving {
		t.Errorf("black to white should report motion, changePercent = %f", changePercent)
	}

	// Nearly every pixel changed
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, expected > 50%% for black to white transition", changePercent)
	}
}

func TestMotionGate_NilAndEmptyFrames(t *testing.T) {
	gate := NewMotionGate(1.0)
	defer gate.Close()

	moving, changePercent := gate.Changed(nil)
	if moving || changePercent != 0 {
		t.Errorf("nil frame: got (%v, %f), want (false, 0)", moving, changePercent)
	}

	empty := gocv.NewMat()
	defer empty.Close()

	moving, changePercent = gate.Changed(&empty)
	if moving || changePercent != 0 {
		t.Errorf("empty frame: got (%v, %f), want (false, 0)", moving, changePercent)
	}
}

func TestMotionGate_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	gate := NewMotionGate(1.0)
	defer gate.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	gate.Changed(&frame)

	if !gate.initialized {
		t.Error("gate should be initialized after the first frame")
	}

	// Reset discards the baseline
	gate.Reset()

	if gate.initialized {
		t.Error("gate should not be initialized after Reset")
	}

	if !gate.prevGray.Empty() {
		t.Error("prevGray should be empty after Reset")
	}
}

func TestMotionGate_SetThreshold(t *testing.T) {
	gate := NewMotionGate(1.0)
	defer gate.Close()

	if gate.threshold != 1.0 {
		t.Errorf("initial threshold = %f, want 1.0", gate.threshold)
	}

	gate.SetThreshold(5.0)
	if gate.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after SetThreshold", gate.threshold)
	}

	gate.SetThreshold(0.5)
	if gate.threshold != 0.5 {
		t.Errorf("threshold = %f, want 0.5 after SetThreshold", gate.threshold)
	}
}

func TestMotionGate_SetThreshold_Negative(t *testing.T) {
	gate := NewMotionGate(1.0)
	defer gate.Close()

	// Non-positive thresholds are ignored
	gate.SetThreshold(-1.0)
	if gate.threshold != 1.0 {
		t.Errorf("negative threshold should be ignored, got %f, want 1.0", gate.threshold)
	}

	gate.SetThreshold(0)
	if gate.threshold != 1.0 {
		t.Errorf("zero threshold should be ignored, got %f, want 1.0", gate.threshold)
	}
}

func TestMotionGate_Close_Multiple(t *testing.T) {
	gate := NewMotionGate(1.0)

	// Close is idempotent
	gate.Close()
	gate.Close()
}

func TestMotionGate_Changed_AfterClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	gate := NewMotionGate(1.0)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	gate.Changed(&frame)
	gate.Close()

	// After Close the next frame re-establishes the baseline
	moving, _ := gate.Changed(&frame)
	if moving {
		t.Error("first frame after Close should not report motion")
	}
}
