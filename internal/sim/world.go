// Package sim provides a small synthetic environment for driving transition
// models without real sensors. The world is a ring of one-hot feature states;
// an agent can steer it by setting a goal on the feature it wants next.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/boshu2/becca/internal/numeric"
)

// Config describes a world and how long to run it.
type Config struct {
	Features        int     `json:"features" yaml:"features"`
	Steps           int     `json:"steps" yaml:"steps"`
	Seed            int64   `json:"seed" yaml:"seed"`
	RewardedFeature int     `json:"rewarded_feature" yaml:"rewarded_feature"`
	Compliance      float64 `json:"compliance" yaml:"compliance"`
}

// DefaultConfig returns a four-state ring rewarding the last state.
func DefaultConfig() Config {
	return Config{
		Features:        4,
		Steps:           200,
		Seed:            1,
		RewardedFeature: 3,
		Compliance:      0.8,
	}
}

// Validate checks the ranges Run and NewWorld depend on.
func (c Config) Validate() error {
	switch {
	case c.Features <= 0:
		return fmt.Errorf("%w: features must be positive, got %d", ErrInvalidConfig, c.Features)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, c.Steps)
	case c.RewardedFeature < 0 || c.RewardedFeature >= c.Features:
		return fmt.Errorf("%w: rewarded feature %d outside [0,%d)", ErrInvalidConfig, c.RewardedFeature, c.Features)
	case !(c.Compliance >= 0 && c.Compliance <= 1):
		return fmt.Errorf("%w: compliance must be in [0,1], got %v", ErrInvalidConfig, c.Compliance)
	}
	return nil
}

// World is a ring of feature states. Not safe for concurrent use.
type World struct {
	cfg   Config
	rng   *rand.Rand
	state int
}

// NewWorld starts a world in state 0.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &World{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// State is the index of the active feature.
func (w *World) State() int { return w.state }

// Observe returns the one-hot feature vector and the reward for the current state.
func (w *World) Observe() ([]float64, float64) {
	features := make([]float64, w.cfg.Features)
	features[w.state] = 1
	if w.state == w.cfg.RewardedFeature {
		return features, 1
	}
	return features, 0
}

// Advance moves to the next state. With probability Compliance the world jumps
// to the strongest goal feature it has; otherwise it follows the ring. A goal
// with no positive entry is ignored.
func (w *World) Advance(goal []float64) int {
	target := -1
	if g := numeric.ArgMax(goal); g >= 0 && g < w.cfg.Features && goal[g] > 0 {
		target = g
	}
	if target >= 0 && w.rng.Float64() < w.cfg.Compliance {
		w.state = target
	} else {
		w.state = (w.state + 1) % w.cfg.Features
	}
	return w.state
}
