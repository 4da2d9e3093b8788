// Package dispatch maps confirmed gestures to media commands and
// forwards them to the actuator.
package dispatch

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/maestro/internal/actuator"
	"github.com/ayusman/maestro/internal/gesture"
)

// Kind identifies a media-control command.
type Kind string

// Command kinds.
const (
	PlayPause  Kind = "play_pause"
	NextTrack  Kind = "next_track"
	PrevTrack  Kind = "prev_track"
	VolumeUp   Kind = "volume_up"
	VolumeDown Kind = "volume_down"
)

// Volume step bounds per dispatched command.
const (
	minVolumeStep = 1
	maxVolumeStep = 10
)

// Command is an immutable media-control instruction. Amount is the
// volume step for volume commands and zero otherwise.
type Command struct {
	Kind   Kind `json:"kind"`
	Amount int  `json:"amount,omitempty"`
}

// Stats is a snapshot of dispatcher activity for status reporting.
type Stats struct {
	Dispatched  uint64          `json:"dispatched"`
	Failures    uint64          `json:"failures"`
	PerKind     map[Kind]uint64 `json:"per_kind"`
	LastCommand *Command        `json:"last_command,omitempty"`
	LastTime    time.Time       `json:"last_time,omitempty"`
}

// Dispatcher converts confirmed gesture events into commands and
// drives the actuator. Actuator failures are logged and counted, never
// retried; the next confirmation proceeds normally.
type Dispatcher struct {
	act actuator.Actuator
	log *zap.Logger

	mu          sync.Mutex
	sensitivity float64
	dispatched  uint64
	failures    uint64
	perKind     map[Kind]uint64
	lastCommand *Command
	lastTime    time.Time
}

// New creates a Dispatcher. sensitivity scales a pinch's centimeter
// delta into volume steps.
func New(act actuator.Actuator, sensitivity float64, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		act:         act,
		log:         log,
		sensitivity: sensitivity,
		perKind:     make(map[Kind]uint64),
	}
}

// SetSensitivity replaces the pinch volume scaling, applied to the
// next dispatch.
func (d *Dispatcher) SetSensitivity(sensitivity float64) {
	d.mu.Lock()
	d.sensitivity = sensitivity
	d.mu.Unlock()
}

// Dispatch maps one confirmed event to its command and forwards it to
// the actuator. It reports the command and whether the label mapped to
// one. Gesture state is never consulted or altered here.
func (d *Dispatcher) Dispatch(ev gesture.Event) (Command, bool) {
	cmd, ok := d.command(ev)
	if !ok {
		return Command{}, false
	}

	sent := d.forward(cmd)

	d.mu.Lock()
	d.dispatched++
	d.perKind[cmd.Kind]++
	if !sent {
		d.failures++
	}
	c := cmd
	d.lastCommand = &c
	d.lastTime = ev.Timestamp
	d.mu.Unlock()

	if sent {
		d.log.Info("command dispatched",
			zap.String("kind", string(cmd.Kind)),
			zap.Int("amount", cmd.Amount),
			zap.String("label", string(ev.Label)))
	} else {
		d.log.Warn("actuator rejected command",
			zap.String("kind", string(cmd.Kind)),
			zap.Int("amount", cmd.Amount))
	}
	return cmd, true
}

// Stats returns a snapshot of dispatcher activity.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	perKind := make(map[Kind]uint64, len(d.perKind))
	for k, v := range d.perKind {
		perKind[k] = v
	}
	s := Stats{
		Dispatched: d.dispatched,
		Failures:   d.failures,
		PerKind:    perKind,
		LastTime:   d.lastTime,
	}
	if d.lastCommand != nil {
		c := *d.lastCommand
		s.LastCommand = &c
	}
	return s
}

// command maps a label and its metrics to a Command.
func (d *Dispatcher) command(ev gesture.Event) (Command, bool) {
	switch ev.Label {
	case gesture.LabelFist:
		return Command{Kind: PlayPause}, true
	case gesture.LabelSwipeRight:
		return Command{Kind: NextTrack}, true
	case gesture.LabelSwipeLeft:
		return Command{Kind: PrevTrack}, true
	case gesture.LabelPinchOpen:
		return Command{Kind: VolumeUp, Amount: d.volumeSteps(ev)}, true
	case gesture.LabelPinchClose:
		return Command{Kind: VolumeDown, Amount: d.volumeSteps(ev)}, true
	}
	return Command{}, false
}

// volumeSteps scales the pinch delta into a bounded volume step.
func (d *Dispatcher) volumeSteps(ev gesture.Event) int {
	d.mu.Lock()
	sensitivity := d.sensitivity
	d.mu.Unlock()

	delta := math.Abs(ev.Metrics["volume_delta"])
	steps := int(math.Round(delta * sensitivity))
	if steps < minVolumeStep {
		steps = minVolumeStep
	}
	if steps > maxVolumeStep {
		steps = maxVolumeStep
	}
	return steps
}

// forward invokes the actuator method for the command.
func (d *Dispatcher) forward(cmd Command) bool {
	switch cmd.Kind {
	case PlayPause:
		return d.act.PlayPause()
	case NextTrack:
		return d.act.NextTrack()
	case PrevTrack:
		return d.act.PrevTrack()
	case VolumeUp:
		return d.act.VolumeUp(cmd.Amount)
	case VolumeDown:
		return d.act.VolumeDown(cmd.Amount)
	}
	return false
}
