package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/maestro/internal/gesture"
	"github.com/ayusman/maestro/internal/landmark"
)

// produce acquires camera frames on a motion-gated cadence and turns
// them into landmark observations for the consumer. Still scenes are
// sampled at IdleFPS and never reach the detector.
func (a *App) produce(ctx context.Context) error {
	interval := time.Second / IdleFPS
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	active := false
	var lastMotion time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if !a.Enabled() {
			continue
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			a.log.Warn("read frame", zap.Error(err))
			continue
		}

		moving, changed := a.gate.Changed(frame)
		now := time.Now()
		if moving {
			lastMotion = now
			if !active {
				active = true
				a.camera.SetFPS(ActiveFPS)
				ticker.Reset(time.Second / ActiveFPS)
				a.log.Debug("motion detected", zap.Float64("changed_percent", changed))
			}
		} else if active && now.Sub(lastMotion) > IdleTimeout {
			active = false
			a.camera.SetFPS(IdleFPS)
			ticker.Reset(time.Second / IdleFPS)
			a.log.Debug("scene idle")
		}

		if !active {
			frame.Close()
			continue
		}

		hands, err := a.det.Detect(frame)
		width, height := frame.Cols(), frame.Rows()
		frame.Close()
		if err != nil {
			a.log.Warn("detect hands", zap.Error(err))
			continue
		}

		// Empty observations still go through: the engine needs them
		// to expire tracks whose hand left the scene.
		a.slot.Put(&landmark.Frame{
			Timestamp: now,
			Width:     width,
			Height:    height,
			Hands:     hands,
		})
	}
}

// consume drains the frame slot, runs the gesture engine, and
// dispatches confirmed events. Pending tuning is installed between
// frames.
func (a *App) consume(ctx context.Context) error {
	for {
		frame, err := a.slot.Next(ctx)
		if err != nil {
			return err
		}

		if t := a.takePending(); t != nil {
			if err := a.engine.ApplyTuning(*t); err != nil {
				a.log.Warn("apply tuning", zap.Error(err))
			} else {
				a.dispatcher.SetSensitivity(t.PinchSensitivity)
				a.log.Info("tuning applied")
			}
		}

		a.frames.Add(1)

		raw, confirmed := a.engine.Process(frame)
		for _, ev := range raw {
			if ev.Label == gesture.LabelNone {
				continue
			}
			a.countEvent(ev.Label)
			a.publish("gesture", ev)
		}
		for _, ev := range confirmed {
			cmd, ok := a.dispatcher.Dispatch(ev)
			if !ok {
				continue
			}
			a.log.Info("command dispatched",
				zap.String("command", string(cmd.Kind)),
				zap.Int("amount", cmd.Amount),
				zap.String("gesture", string(ev.Label)),
				zap.Int("track", ev.Track))
			a.publish("command", CommandMessage{
				Command:   cmd,
				Label:     ev.Label,
				Track:     ev.Track,
				Timestamp: ev.Timestamp,
			})
		}
	}
}
