package gesture

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ayusman/maestro/internal/config"
	"github.com/ayusman/maestro/internal/landmark"
)

// Engine runs the full per-frame chain for every tracked hand:
// smoothing, depth estimation, classification, and confirmation. It
// exclusively owns all per-track state; it is not safe for concurrent
// use and is driven by a single processing goroutine.
type Engine struct {
	tuning     config.Tuning
	smoother   *Smoother
	depth      *DepthEstimator
	classifier *Classifier
	confirmer  *Confirmer
	states     map[int]*State
	log        *zap.Logger
}

// NewEngine creates an Engine, validating the tuning first.
func NewEngine(tuning config.Tuning, log *zap.Logger) (*Engine, error) {
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		tuning:     tuning,
		smoother:   NewSmoother(tuning.BufferSize),
		depth:      NewDepthEstimator(tuning.MinDepthCM, tuning.MaxDepthCM),
		classifier: NewClassifier(tuning),
		confirmer:  NewConfirmer(tuning),
		states:     make(map[int]*State),
		log:        log,
	}, nil
}

// Process runs one frame through the pipeline. It returns the raw
// event per detected hand and any confirmations that fired this frame.
// A frame with no hands is normal; it ages tracks toward reset.
func (e *Engine) Process(frame *landmark.Frame) (events []Event, confirmed []Event) {
	now := frame.Timestamp

	seen := make(map[int]bool, len(frame.Hands))
	for i := range frame.Hands {
		track := i
		seen[track] = true

		st, ok := e.states[track]
		if !ok {
			st = NewState()
			e.states[track] = st
		}
		st.LastSeen = now

		smoothed := e.smoother.Smooth(track, &frame.Hands[i])
		depthCM := e.depth.Estimate(track, &smoothed)

		ev := e.classifier.Classify(&smoothed, depthCM, st, now)
		ev.Track = track
		events = append(events, ev)

		if e.confirmer.Update(st, ev) {
			confirmed = append(confirmed, ev)
			e.log.Debug("gesture confirmed",
				zap.Int("track", track),
				zap.String("label", string(ev.Label)),
				zap.Float64("depth_cm", depthCM))
		}
	}

	// Tracks absent from this frame reset once the grace period
	// expires. A track that reappears later starts from scratch.
	for track, st := range e.states {
		if seen[track] {
			continue
		}
		if now.Sub(st.LastSeen) > e.tuning.HandLossGrace() {
			delete(e.states, track)
			e.smoother.Reset(track)
			e.depth.Reset(track)
			e.log.Debug("track reset after loss", zap.Int("track", track))
		}
	}

	return events, confirmed
}

// ApplyTuning validates and installs new tuning parameters. The caller
// must serialize this with Process; the application swaps tuning
// between frames, never during one.
func (e *Engine) ApplyTuning(tuning config.Tuning) error {
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("apply tuning: %w", err)
	}
	e.tuning = tuning
	e.smoother.SetSize(tuning.BufferSize)
	e.depth.SetBounds(tuning.MinDepthCM, tuning.MaxDepthCM)
	e.classifier.SetTuning(tuning)
	e.confirmer.SetTuning(tuning)
	e.log.Info("tuning applied")
	return nil
}

// Tuning returns the active tuning parameters.
func (e *Engine) Tuning() config.Tuning {
	return e.tuning
}

// TrackCount returns how many hands currently hold live state.
func (e *Engine) TrackCount() int {
	return len(e.states)
}
