package actuator

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// System drives OS-wide media keys and master volume, so it works with
// whatever application currently owns playback. Linux uses playerctl
// and amixer; macOS uses AppleScript. Each action is one short-lived
// subprocess; no handle is held between calls.
type System struct {
	goos string
	log  *zap.Logger

	mu     sync.Mutex
	volume int
}

// NewSystem creates the system-wide actuator for the current OS.
func NewSystem(log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	s := &System{
		goos:   runtime.GOOS,
		log:    log,
		volume: 50,
	}
	log.Info("system actuator initialized", zap.String("os", s.goos))
	return s
}

// PlayPause toggles playback.
func (s *System) PlayPause() bool {
	switch s.goos {
	case "linux":
		return s.run("playerctl", "play-pause")
	case "darwin":
		return s.run("osascript", "-e", appleMediaKey(100))
	}
	return false
}

// NextTrack skips forward.
func (s *System) NextTrack() bool {
	switch s.goos {
	case "linux":
		return s.run("playerctl", "next")
	case "darwin":
		return s.run("osascript", "-e", appleMediaKey(101))
	}
	return false
}

// PrevTrack skips backward.
func (s *System) PrevTrack() bool {
	switch s.goos {
	case "linux":
		return s.run("playerctl", "previous")
	case "darwin":
		return s.run("osascript", "-e", appleMediaKey(98))
	}
	return false
}

// VolumeUp raises master volume by amount percentage points.
func (s *System) VolumeUp(amount int) bool {
	return s.adjustVolume(amount, true)
}

// VolumeDown lowers master volume by amount percentage points.
func (s *System) VolumeDown(amount int) bool {
	return s.adjustVolume(amount, false)
}

func (s *System) adjustVolume(amount int, up bool) bool {
	if !validAmount(amount) {
		return false
	}

	var ok bool
	switch s.goos {
	case "linux":
		ok = s.run("amixer", amixerArgs(amount, up)...)
	case "darwin":
		ok = s.run("osascript", "-e", appleVolumeDelta(amount, up))
	default:
		return false
	}

	if ok {
		s.mu.Lock()
		if up {
			s.volume += amount
		} else {
			s.volume -= amount
		}
		if s.volume > 100 {
			s.volume = 100
		}
		if s.volume < 0 {
			s.volume = 0
		}
		s.mu.Unlock()
	}
	return ok
}

// Status reports the tracked volume. The real master volume may drift
// if something else adjusts it; the tracked value stays within [0,100]
// and is good enough for display.
func (s *System) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Volume: s.volume, Controller: "system"}
}

// Close releases nothing: every action is a finished subprocess.
func (s *System) Close() error {
	return nil
}

// run executes one command and reports success. Failures carry the
// combined output for the log and nothing else; the caller moves on.
func (s *System) run(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		s.log.Warn("actuator command failed",
			zap.String("command", name),
			zap.Strings("args", args),
			zap.Error(fmt.Errorf("%w: %s", err, string(output))))
		return false
	}
	return true
}

// amixerArgs builds the pulse master volume adjustment arguments.
func amixerArgs(amount int, up bool) []string {
	dir := "+"
	if !up {
		dir = "-"
	}
	return []string{"-D", "pulse", "sset", "Master", fmt.Sprintf("%d%%%s", amount, dir)}
}

// appleMediaKey presses a media key via System Events.
// 100 is play/pause, 101 next, 98 previous.
func appleMediaKey(code int) string {
	return fmt.Sprintf("tell application \"System Events\"\n\tkey code %d\nend tell", code)
}

// appleVolumeDelta shifts output volume relative to its current value.
func appleVolumeDelta(amount int, up bool) string {
	sign := "+"
	if !up {
		sign = "-"
	}
	return fmt.Sprintf("set volume output volume ((output volume of (get volume settings)) %s %d)", sign, amount)
}
