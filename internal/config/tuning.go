package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning is the gesture recognition parameter surface. Every field is
// validated before use; a pipeline never sees an invalid Tuning. The
// zero value is not usable; start from DefaultTuning.
type Tuning struct {
	// Swipe trigger sensitivity. Velocity is measured in normalized
	// screen units per second, displacement in approximate
	// centimeters after depth compensation.
	SwipeThresholdCM     float64 `yaml:"swipe_threshold_cm" json:"swipe_threshold_cm"`
	SwipeMinVelocity     float64 `yaml:"swipe_min_velocity" json:"swipe_min_velocity"`
	SwipeAnchorTimeoutMs int     `yaml:"swipe_anchor_timeout_ms" json:"swipe_anchor_timeout_ms"`

	// Pinch validity, direction deadzone, and volume magnitude.
	PinchDeadzoneCM    float64 `yaml:"pinch_deadzone_cm" json:"pinch_deadzone_cm"`
	PinchMinDistanceCM float64 `yaml:"pinch_min_distance_cm" json:"pinch_min_distance_cm"`
	PinchMaxDistanceCM float64 `yaml:"pinch_max_distance_cm" json:"pinch_max_distance_cm"`
	PinchSensitivity   float64 `yaml:"pinch_volume_sensitivity" json:"pinch_volume_sensitivity"`
	PinchDebounceMs    int     `yaml:"pinch_debounce_ms" json:"pinch_debounce_ms"`

	// FistTolerance is the normalized-Y slack allowed when testing
	// whether a fingertip has folded below its base joint.
	FistTolerance float64 `yaml:"fist_confidence_threshold" json:"fist_confidence_threshold"`

	// Confirmation timing.
	HoldTimeMs      int `yaml:"gesture_hold_time_ms" json:"gesture_hold_time_ms"`
	CooldownMs      int `yaml:"gesture_cooldown_ms" json:"gesture_cooldown_ms"`
	HandLossGraceMs int `yaml:"hand_loss_grace_ms" json:"hand_loss_grace_ms"`

	// Smoothing window per landmark index.
	BufferSize int `yaml:"landmark_buffer_size" json:"landmark_buffer_size"`

	// Depth clamp bounds in centimeters.
	MinDepthCM float64 `yaml:"min_depth_cm" json:"min_depth_cm"`
	MaxDepthCM float64 `yaml:"max_depth_cm" json:"max_depth_cm"`
}

// DefaultTuning returns the calibrated defaults.
func DefaultTuning() Tuning {
	return Tuning{
		SwipeThresholdCM:     15,
		SwipeMinVelocity:     0.3,
		SwipeAnchorTimeoutMs: 1000,
		PinchDeadzoneCM:      2,
		PinchMinDistanceCM:   3,
		PinchMaxDistanceCM:   15,
		PinchSensitivity:     3,
		PinchDebounceMs:      100,
		FistTolerance:        0.02,
		HoldTimeMs:           250,
		CooldownMs:           800,
		HandLossGraceMs:      150,
		BufferSize:           7,
		MinDepthCM:           10,
		MaxDepthCM:           60,
	}
}

// LoadTuning reads a tuning file, overlaying its values on the
// defaults so a partial file is usable. A missing file yields the
// defaults without error.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return t, fmt.Errorf("read tuning file: %w", err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return t, nil
}

// Save writes the tuning to a YAML file.
func (t Tuning) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write tuning file: %w", err)
	}
	return nil
}

// Validate checks every tuning parameter. Invalid values are rejected
// before any frame is processed.
func (t Tuning) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{t.SwipeThresholdCM > 0, fmt.Sprintf("swipe_threshold_cm must be > 0, got %v", t.SwipeThresholdCM)},
		{t.SwipeMinVelocity > 0, fmt.Sprintf("swipe_min_velocity must be > 0, got %v", t.SwipeMinVelocity)},
		{t.SwipeAnchorTimeoutMs > 0, fmt.Sprintf("swipe_anchor_timeout_ms must be > 0, got %d", t.SwipeAnchorTimeoutMs)},
		{t.PinchDeadzoneCM > 0, fmt.Sprintf("pinch_deadzone_cm must be > 0, got %v", t.PinchDeadzoneCM)},
		{t.PinchMinDistanceCM > 0, fmt.Sprintf("pinch_min_distance_cm must be > 0, got %v", t.PinchMinDistanceCM)},
		{t.PinchMaxDistanceCM > t.PinchMinDistanceCM, fmt.Sprintf("pinch_max_distance_cm must be > pinch_min_distance_cm, got %v <= %v", t.PinchMaxDistanceCM, t.PinchMinDistanceCM)},
		{t.PinchSensitivity > 0, fmt.Sprintf("pinch_volume_sensitivity must be > 0, got %v", t.PinchSensitivity)},
		{t.PinchDebounceMs > 0, fmt.Sprintf("pinch_debounce_ms must be > 0, got %d", t.PinchDebounceMs)},
		{t.FistTolerance > 0 && t.FistTolerance < 1, fmt.Sprintf("fist_confidence_threshold must be in (0,1), got %v", t.FistTolerance)},
		{t.HoldTimeMs > 0, fmt.Sprintf("gesture_hold_time_ms must be > 0, got %d", t.HoldTimeMs)},
		{t.CooldownMs > 0, fmt.Sprintf("gesture_cooldown_ms must be > 0, got %d", t.CooldownMs)},
		{t.HandLossGraceMs >= 0, fmt.Sprintf("hand_loss_grace_ms must be >= 0, got %d", t.HandLossGraceMs)},
		{t.BufferSize >= 1, fmt.Sprintf("landmark_buffer_size must be >= 1, got %d", t.BufferSize)},
		{t.MinDepthCM > 0, fmt.Sprintf("min_depth_cm must be > 0, got %v", t.MinDepthCM)},
		{t.MaxDepthCM > t.MinDepthCM, fmt.Sprintf("max_depth_cm must be > min_depth_cm, got %v <= %v", t.MaxDepthCM, t.MinDepthCM)},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("tuning: %s", c.msg)
		}
	}
	return nil
}

// HoldTime returns the confirmation hold duration.
func (t Tuning) HoldTime() time.Duration { return time.Duration(t.HoldTimeMs) * time.Millisecond }

// Cooldown returns the shared post-confirmation cooldown.
func (t Tuning) Cooldown() time.Duration { return time.Duration(t.CooldownMs) * time.Millisecond }

// PinchDebounce returns the independent rate limit for directional
// pinch confirmations.
func (t Tuning) PinchDebounce() time.Duration {
	return time.Duration(t.PinchDebounceMs) * time.Millisecond
}

// SwipeAnchorTimeout returns how long a swipe anchor stays valid.
func (t Tuning) SwipeAnchorTimeout() time.Duration {
	return time.Duration(t.SwipeAnchorTimeoutMs) * time.Millisecond
}

// HandLossGrace returns how long a track survives without
// observations before its state is reset.
func (t Tuning) HandLossGrace() time.Duration {
	return time.Duration(t.HandLossGraceMs) * time.Millisecond
}
