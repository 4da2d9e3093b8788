// Package app assembles the capture, detection, gesture, and dispatch
// stages into the running pipeline and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/maestro/internal/capture"
	"github.com/ayusman/maestro/internal/config"
	"github.com/ayusman/maestro/internal/detector"
	"github.com/ayusman/maestro/internal/dispatch"
	"github.com/ayusman/maestro/internal/gesture"
)

// Capture cadence. The producer idles at a low rate until the motion
// gate sees a scene change, then raises the rate while someone is
// interacting.
const (
	// IdleFPS is the frame rate when the scene is still.
	IdleFPS = 5
	// ActiveFPS is the frame rate while motion is present.
	ActiveFPS = 15
	// IdleTimeout is how long after the last motion the producer
	// drops back to the idle rate.
	IdleTimeout = 2 * time.Second

	// DefaultMotionThreshold is the changed-pixel percentage that
	// wakes the pipeline.
	DefaultMotionThreshold = 1.0
)

// Broadcaster fans pipeline observations out to stream clients. Calls
// must not block; a slow consumer loses events.
type Broadcaster interface {
	Broadcast(topic string, payload any)
}

// Options carries the collaborators App is wired from. Camera,
// Detector, Engine, and Dispatcher are required.
type Options struct {
	Camera          capture.Camera
	Detector        detector.Detector
	Engine          *gesture.Engine
	Dispatcher      *dispatch.Dispatcher
	MotionThreshold float64
	Broadcaster     Broadcaster
	Log             *zap.Logger
}

// Stats is a point-in-time snapshot of pipeline activity.
type Stats struct {
	SessionID       string                   `json:"session_id"`
	Enabled         bool                     `json:"enabled"`
	UptimeSeconds   float64                  `json:"uptime_seconds"`
	FramesProcessed uint64                   `json:"frames_processed"`
	FramesDropped   uint64                   `json:"frames_dropped"`
	Events          map[gesture.Label]uint64 `json:"events"`
	Dispatch        dispatch.Stats           `json:"dispatch"`
}

// CommandMessage is the stream payload for a dispatched command.
type CommandMessage struct {
	Command   dispatch.Command `json:"command"`
	Label     gesture.Label    `json:"label"`
	Track     int              `json:"track"`
	Timestamp time.Time        `json:"timestamp"`
}

// App runs the frame pipeline: a producer goroutine acquires frames,
// gates them on motion, and turns them into landmark observations; a
// consumer goroutine runs the gesture engine and dispatches confirmed
// commands. The two meet at a single-slot handoff, so processing lag
// can never queue stale frames.
type App struct {
	sessionID  string
	camera     capture.Camera
	gate       *capture.MotionGate
	det        detector.Detector
	engine     *gesture.Engine
	dispatcher *dispatch.Dispatcher
	slot       *capture.FrameSlot
	broadcast  Broadcaster
	log        *zap.Logger

	frames atomic.Uint64

	mu      sync.RWMutex
	enabled bool
	started time.Time
	tuning  config.Tuning
	pending *config.Tuning
	events  map[gesture.Label]uint64
}

// New wires an App from its collaborators. The pipeline starts
// enabled; SetEnabled pauses it.
func New(opts Options) (*App, error) {
	if opts.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if opts.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("app: engine is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("app: dispatcher is required")
	}

	threshold := opts.MotionThreshold
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &App{
		sessionID:  uuid.NewString(),
		camera:     opts.Camera,
		gate:       capture.NewMotionGate(threshold),
		det:        opts.Detector,
		engine:     opts.Engine,
		dispatcher: opts.Dispatcher,
		slot:       capture.NewFrameSlot(),
		broadcast:  opts.Broadcaster,
		log:        log,
		enabled:    true,
		tuning:     opts.Engine.Tuning(),
		events:     make(map[gesture.Label]uint64),
	}, nil
}

// Run opens the camera and drives the pipeline until the context is
// canceled or one side fails. Acquired resources are released on every
// exit path.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(IdleFPS)

	a.mu.Lock()
	a.started = time.Now()
	a.mu.Unlock()

	a.log.Info("pipeline started")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.produce(ctx) })
	g.Go(func() error { return a.consume(ctx) })
	err := g.Wait()

	if cerr := a.camera.Close(); cerr != nil {
		a.log.Warn("close camera", zap.Error(cerr))
	}
	a.gate.Close()
	if derr := a.det.Close(); derr != nil {
		a.log.Warn("close detector", zap.Error(derr))
	}
	a.log.Info("pipeline stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// SetEnabled pauses or resumes processing. While paused the producer
// reads no frames and the gesture engine sees nothing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if !changed {
		return
	}
	if enabled {
		// The paused baseline is stale; the next frame rebuilds it.
		a.gate.Reset()
	}
	a.log.Info("pipeline enabled changed", zap.Bool("enabled", enabled))
}

// Enabled reports whether the pipeline is processing frames.
func (a *App) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// ApplyTuning validates new tuning and schedules it. The consumer
// installs it between frames, so a frame never sees a half-applied
// parameter set.
func (a *App) ApplyTuning(t config.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	a.tuning = t
	a.pending = &t
	a.mu.Unlock()
	return nil
}

// Tuning returns the most recently accepted tuning.
func (a *App) Tuning() config.Tuning {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tuning
}

// Stats returns a snapshot of pipeline activity.
func (a *App) Stats() Stats {
	a.mu.RLock()
	events := make(map[gesture.Label]uint64, len(a.events))
	for k, v := range a.events {
		events[k] = v
	}
	enabled := a.enabled
	var uptime float64
	if !a.started.IsZero() {
		uptime = time.Since(a.started).Seconds()
	}
	a.mu.RUnlock()

	return Stats{
		SessionID:       a.sessionID,
		Enabled:         enabled,
		UptimeSeconds:   uptime,
		FramesProcessed: a.frames.Load(),
		FramesDropped:   a.slot.Dropped(),
		Events:          events,
		Dispatch:        a.dispatcher.Stats(),
	}
}

func (a *App) takePending() *config.Tuning {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.pending
	a.pending = nil
	return t
}

func (a *App) countEvent(label gesture.Label) {
	a.mu.Lock()
	a.events[label]++
	a.mu.Unlock()
}

func (a *App) publish(topic string, payload any) {
	if a.broadcast == nil {
		return
	}
	a.broadcast.Broadcast(topic, payload)
}
