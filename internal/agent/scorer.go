// Package agent wires transition models into the per-step control loop:
// update with the latest features and reward, score the resulting transition
// activations against the current goals, then deliberate.
package agent

import "github.com/boshu2/becca/internal/numeric"

// GoalValueScorer assigns a goal value to every transition of an n-feature
// model. activations is the n*n row-major vector returned by Update and goal
// is the model's current goal vector. The result must be n*n long.
type GoalValueScorer interface {
	Score(activations, goal []float64, n int) []float64
}

// ScorerFunc adapts a plain function to GoalValueScorer.
type ScorerFunc func(activations, goal []float64, n int) []float64

// Score calls f.
func (f ScorerFunc) Score(activations, goal []float64, n int) []float64 {
	return f(activations, goal, n)
}

// EffectGoalScorer values a transition by how strongly it is active and how
// much its effect feature is currently wanted: gv[i*n+j] = act[i*n+j] * goal[j].
type EffectGoalScorer struct{}

// Score implements GoalValueScorer.
func (EffectGoalScorer) Score(activations, goal []float64, n int) []float64 {
	out := make([]float64, n*n)
	g, err := numeric.Pad(goal, n)
	if err != nil {
		g = goal[:n]
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i*n + j
			if k < len(activations) {
				out[k] = activations[k] * g[j]
			}
		}
	}
	return out
}

// ZeroScorer leaves every goal value at zero, so deliberation is driven by
// reward estimates and exploration alone.
type ZeroScorer struct{}

// Score implements GoalValueScorer.
func (ZeroScorer) Score(_, _ []float64, n int) []float64 {
	return make([]float64, n*n)
}
