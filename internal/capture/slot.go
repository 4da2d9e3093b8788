package capture

import (
	"context"
	"sync/atomic"

	"github.com/ayusman/maestro/internal/landmark"
)

// FrameSlot is a single-slot, latest-frame-wins handoff between the
// acquisition producer and the processing consumer. A frame the
// consumer has not taken by the time the next one arrives is dropped,
// never queued: end-to-end latency stays bounded by one frame
// regardless of how far processing falls behind.
//
// Intended for one producer; any number of consumers may call Next,
// each frame is delivered to exactly one of them.
type FrameSlot struct {
	ch      chan *landmark.Frame
	dropped atomic.Uint64
}

// NewFrameSlot creates an empty slot.
func NewFrameSlot() *FrameSlot {
	return &FrameSlot{ch: make(chan *landmark.Frame, 1)}
}

// Put publishes a frame, displacing an undelivered stale one.
func (s *FrameSlot) Put(f *landmark.Frame) {
	for {
		select {
		case s.ch <- f:
			return
		default:
		}
		select {
		case <-s.ch:
			s.dropped.Add(1)
		default:
		}
	}
}

// Next blocks until a frame is available or the context is done.
func (s *FrameSlot) Next(ctx context.Context) (*landmark.Frame, error) {
	select {
	case f := <-s.ch:
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dropped reports how many stale frames have been displaced.
func (s *FrameSlot) Dropped() uint64 {
	return s.dropped.Load()
}
