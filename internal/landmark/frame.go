package landmark

import "time"

// Frame is one timestamped observation from a landmark source: zero or
// more detected hands plus the dimensions of the image they were
// detected in. A frame with no hands is a normal observation, not an
// error. Frames are immutable once produced.
type Frame struct {
	Timestamp time.Time
	Width     int
	Height    int
	Hands     []Hand
}

// Empty reports whether the frame contains no detected hands.
func (f *Frame) Empty() bool {
	return len(f.Hands) == 0
}
