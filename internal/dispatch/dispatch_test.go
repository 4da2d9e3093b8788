package dispatch

import (
	"testing"
	"time"

	"github.com/ayusman/maestro/internal/actuator"
	"github.com/ayusman/maestro/internal/gesture"
)

func confirmedEvent(label gesture.Label, delta float64) gesture.Event {
	ev := gesture.Event{
		Track:     0,
		Label:     label,
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if delta != 0 {
		ev.Metrics = map[string]float64{"volume_delta": delta}
	}
	return ev
}

func TestDispatcher_CommandTable(t *testing.T) {
	tests := []struct {
		name     string
		label    gesture.Label
		delta    float64
		wantKind Kind
		wantCall string
	}{
		{
			name:     "fist toggles playback",
			label:    gesture.LabelFist,
			wantKind: PlayPause,
			wantCall: "play_pause",
		},
		{
			name:     "swipe right skips forward",
			label:    gesture.LabelSwipeRight,
			wantKind: NextTrack,
			wantCall: "next_track",
		},
		{
			name:     "swipe left skips backward",
			label:    gesture.LabelSwipeLeft,
			wantKind: PrevTrack,
			wantCall: "prev_track",
		},
		{
			name:     "pinch open raises volume",
			label:    gesture.LabelPinchOpen,
			delta:    2.5,
			wantKind: VolumeUp,
			wantCall: "volume_up:3",
		},
		{
			name:     "pinch close lowers volume",
			label:    gesture.LabelPinchClose,
			delta:    -2.5,
			wantKind: VolumeDown,
			wantCall: "volume_down:3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := actuator.NewMock()
			d := New(mock, 1.0, nil)

			cmd, ok := d.Dispatch(confirmedEvent(tt.label, tt.delta))
			if !ok {
				t.Fatalf("expected %q to map to a command", tt.label)
			}
			if cmd.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, cmd.Kind)
			}

			calls := mock.Calls()
			if len(calls) != 1 {
				t.Fatalf("expected exactly 1 actuator call, got %d", len(calls))
			}
			if calls[0] != tt.wantCall {
				t.Errorf("expected actuator call %q, got %q", tt.wantCall, calls[0])
			}
		})
	}
}

func TestDispatcher_UnmappedLabelsAreIgnored(t *testing.T) {
	mock := actuator.NewMock()
	d := New(mock, 1.0, nil)

	for _, label := range []gesture.Label{gesture.LabelNone, gesture.LabelPinch} {
		if _, ok := d.Dispatch(confirmedEvent(label, 0)); ok {
			t.Errorf("expected %q to map to no command", label)
		}
	}

	if calls := mock.Calls(); len(calls) != 0 {
		t.Errorf("expected no actuator calls, got %v", calls)
	}
	if s := d.Stats(); s.Dispatched != 0 {
		t.Errorf("expected 0 dispatched, got %d", s.Dispatched)
	}
}

func TestDispatcher_VolumeSteps(t *testing.T) {
	tests := []struct {
		name        string
		sensitivity float64
		delta       float64
		wantAmount  int
	}{
		{
			name:        "delta scales one to one",
			sensitivity: 1.0,
			delta:       2.5,
			wantAmount:  3,
		},
		{
			name:        "tiny delta clamps to the minimum step",
			sensitivity: 1.0,
			delta:       0.2,
			wantAmount:  1,
		},
		{
			name:        "huge delta clamps to the maximum step",
			sensitivity: 1.0,
			delta:       40.0,
			wantAmount:  10,
		},
		{
			name:        "sensitivity multiplies the delta",
			sensitivity: 2.0,
			delta:       2.5,
			wantAmount:  5,
		},
		{
			name:        "negative delta uses its magnitude",
			sensitivity: 1.0,
			delta:       -2.5,
			wantAmount:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(actuator.NewMock(), tt.sensitivity, nil)

			cmd, ok := d.Dispatch(confirmedEvent(gesture.LabelPinchOpen, tt.delta))
			if !ok {
				t.Fatal("expected pinch_open to map to a command")
			}
			if cmd.Amount != tt.wantAmount {
				t.Errorf("expected amount %d, got %d", tt.wantAmount, cmd.Amount)
			}
		})
	}
}

func TestDispatcher_SetSensitivityAppliesToNextDispatch(t *testing.T) {
	mock := actuator.NewMock()
	d := New(mock, 1.0, nil)

	cmd, _ := d.Dispatch(confirmedEvent(gesture.LabelPinchOpen, 2.5))
	if cmd.Amount != 3 {
		t.Fatalf("expected amount 3 at sensitivity 1.0, got %d", cmd.Amount)
	}

	d.SetSensitivity(2.0)

	cmd, _ = d.Dispatch(confirmedEvent(gesture.LabelPinchOpen, 2.5))
	if cmd.Amount != 5 {
		t.Errorf("expected amount 5 at sensitivity 2.0, got %d", cmd.Amount)
	}
}

func TestDispatcher_FailuresAreCountedNotRetried(t *testing.T) {
	mock := actuator.NewMock()
	mock.SetFail(true)
	d := New(mock, 1.0, nil)

	cmd, ok := d.Dispatch(confirmedEvent(gesture.LabelFist, 0))
	if !ok {
		t.Fatal("a failing actuator must not unmap the label")
	}
	if cmd.Kind != PlayPause {
		t.Errorf("expected kind %q, got %q", PlayPause, cmd.Kind)
	}

	// The actuator was invoked exactly once
	if calls := mock.Calls(); len(calls) != 1 {
		t.Errorf("expected 1 actuator call, got %d", len(calls))
	}

	s := d.Stats()
	if s.Dispatched != 1 {
		t.Errorf("expected 1 dispatched, got %d", s.Dispatched)
	}
	if s.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", s.Failures)
	}
}

func TestDispatcher_StatsSnapshot(t *testing.T) {
	mock := actuator.NewMock()
	d := New(mock, 1.0, nil)

	d.Dispatch(confirmedEvent(gesture.LabelFist, 0))
	d.Dispatch(confirmedEvent(gesture.LabelFist, 0))
	d.Dispatch(confirmedEvent(gesture.LabelPinchOpen, 2.5))

	s := d.Stats()
	if s.Dispatched != 3 {
		t.Errorf("expected 3 dispatched, got %d", s.Dispatched)
	}
	if s.PerKind[PlayPause] != 2 {
		t.Errorf("expected 2 play_pause, got %d", s.PerKind[PlayPause])
	}
	if s.PerKind[VolumeUp] != 1 {
		t.Errorf("expected 1 volume_up, got %d", s.PerKind[VolumeUp])
	}
	if s.LastCommand == nil {
		t.Fatal("expected a last command")
	}
	if s.LastCommand.Kind != VolumeUp {
		t.Errorf("expected last command %q, got %q", VolumeUp, s.LastCommand.Kind)
	}
	if s.LastTime.IsZero() {
		t.Error("expected last dispatch time to be recorded")
	}

	// The snapshot is detached: mutating it leaves the dispatcher alone
	s.PerKind[PlayPause] = 99
	s.LastCommand.Amount = 99

	fresh := d.Stats()
	if fresh.PerKind[PlayPause] != 2 {
		t.Errorf("snapshot mutation leaked: expected 2 play_pause, got %d", fresh.PerKind[PlayPause])
	}
	if fresh.LastCommand.Amount != 3 {
		t.Errorf("snapshot mutation leaked: expected amount 3, got %d", fresh.LastCommand.Amount)
	}
}
