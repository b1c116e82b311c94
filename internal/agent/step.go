package agent

import (
	"context"
	"fmt"

	"github.com/boshu2/becca/internal/transition"
)

// StepResult is everything one update → score → deliberate cycle produced.
type StepResult struct {
	Model        string                  `json:"model" yaml:"model"`
	TimeStep     int                     `json:"time_step" yaml:"time_step"`
	Reward       float64                 `json:"reward" yaml:"reward"`
	Activations  []float64               `json:"activations" yaml:"activations"`
	GoalValues   []float64               `json:"goal_values" yaml:"goal_values"`
	Deliberation transition.Deliberation `json:"deliberation" yaml:"deliberation"`
}

// Goal returns the goal vector over the observed features.
func (r StepResult) Goal() []float64 {
	return r.Deliberation.Goal
}

// Step runs one serialized cycle on m. A nil scorer means ZeroScorer.
func Step(ctx context.Context, m *transition.Model, scorer GoalValueScorer, features []float64, reward float64) (StepResult, error) {
	if m == nil {
		return StepResult{}, ErrNilModel
	}
	if scorer == nil {
		scorer = ZeroScorer{}
	}

	act, err := m.Update(ctx, features, reward)
	if err != nil {
		return StepResult{}, fmt.Errorf("update %s: %w", m.Name(), err)
	}

	gv := scorer.Score(act, m.Goal(), m.Capacity())
	d, err := m.DeliberateReport(ctx, gv)
	if err != nil {
		return StepResult{}, fmt.Errorf("deliberate %s: %w", m.Name(), err)
	}

	return StepResult{
		Model:        m.Name(),
		TimeStep:     m.TimeSteps(),
		Reward:       reward,
		Activations:  act,
		GoalValues:   gv,
		Deliberation: d,
	}, nil
}
