package transition

import "fmt"

// Params holds the learning constants of a transition model.
type Params struct {
	// AgingTimeConstant sets how slowly transition counts are forgotten.
	AgingTimeConstant float64 `yaml:"aging_time_constant" json:"aging_time_constant"`

	// TransitionUpdateRate is the floor of the per-transition learning rate.
	TransitionUpdateRate float64 `yaml:"transition_update_rate" json:"transition_update_rate"`

	// MaxUpdateRate caps the per-transition learning rate.
	MaxUpdateRate float64 `yaml:"max_update_rate" json:"max_update_rate"`

	// GoalDecayRate is the fraction of every goal lost per deliberation.
	GoalDecayRate float64 `yaml:"goal_decay_rate" json:"goal_decay_rate"`

	// InitialUncertainty seeds every reward uncertainty entry.
	InitialUncertainty float64 `yaml:"initial_uncertainty" json:"initial_uncertainty"`

	// MatchExponent sharpens cause/effect co-activation.
	MatchExponent float64 `yaml:"match_exponent" json:"match_exponent"`

	// CauseDecayRate is the fraction of the cause trace lost per update.
	CauseDecayRate float64 `yaml:"cause_decay_rate" json:"cause_decay_rate"`
}

// DefaultParams returns the standard learning constants.
func DefaultParams() Params {
	return Params{
		AgingTimeConstant:    1e6,
		TransitionUpdateRate: 0.1,
		MaxUpdateRate:        0.5,
		GoalDecayRate:        0.1,
		InitialUncertainty:   0.5,
		MatchExponent:        4,
		CauseDecayRate:       0.33,
	}
}

// Validate checks every constant is in its usable range.
func (p Params) Validate() error {
	rates := []struct {
		value float64
		field string
	}{
		{p.TransitionUpdateRate, "transition_update_rate"},
		{p.GoalDecayRate, "goal_decay_rate"},
		{p.InitialUncertainty, "initial_uncertainty"},
		{p.CauseDecayRate, "cause_decay_rate"},
	}
	for _, r := range rates {
		if r.value <= 0 || r.value >= 1 {
			return fmt.Errorf("%s = %v, want 0 < x < 1: %w", r.field, r.value, ErrInvalidParams)
		}
	}
	// Rates above 0.5 let reward_value overshoot [0,1].
	if p.MaxUpdateRate <= 0 || p.MaxUpdateRate > 0.5 {
		return fmt.Errorf("max_update_rate = %v, want 0 < x <= 0.5: %w", p.MaxUpdateRate, ErrInvalidParams)
	}
	if p.AgingTimeConstant <= 0 {
		return fmt.Errorf("aging_time_constant = %v, want > 0: %w", p.AgingTimeConstant, ErrInvalidParams)
	}
	if p.MatchExponent <= 0 {
		return fmt.Errorf("match_exponent = %v, want > 0: %w", p.MatchExponent, ErrInvalidParams)
	}
	return nil
}
