package transition

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is a serialisable copy of model state for inspection.
// LogCount holds log(count+1) so that rare and frequent transitions
// share a readable scale.
type Snapshot struct {
	ID                string      `json:"id" yaml:"id"`
	Name              string      `json:"name" yaml:"name"`
	Capacity          int         `json:"capacity" yaml:"capacity"`
	NumFeatureInputs  int         `json:"num_feature_inputs" yaml:"num_feature_inputs"`
	TimeSteps         int         `json:"time_steps" yaml:"time_steps"`
	CurrentReward     float64     `json:"current_reward" yaml:"current_reward"`
	Goal              []float64   `json:"goal" yaml:"goal"`
	Cause             []float64   `json:"cause" yaml:"cause"`
	Effect            []float64   `json:"effect" yaml:"effect"`
	RewardValue       [][]float64 `json:"reward_value" yaml:"reward_value"`
	RewardUncertainty [][]float64 `json:"reward_uncertainty" yaml:"reward_uncertainty"`
	LogCount          [][]float64 `json:"log_count" yaml:"log_count"`
}

// Snapshot copies the current model state.
func (m *Model) Snapshot() Snapshot {
	logCount := mat.DenseCopyOf(m.count)
	logCount.Apply(func(_, _ int, v float64) float64 {
		return math.Log(v + 1)
	}, logCount)

	return Snapshot{
		ID:                m.id,
		Name:              m.name,
		Capacity:          m.capacity,
		NumFeatureInputs:  m.numFeatureInputs,
		TimeSteps:         m.timeSteps,
		CurrentReward:     m.currentReward,
		Goal:              m.Goal(),
		Cause:             m.Cause(),
		Effect:            m.Effect(),
		RewardValue:       rows(m.rewardValue),
		RewardUncertainty: rows(m.rewardUncertainty),
		LogCount:          rows(logCount),
	}
}

func rows(d *mat.Dense) [][]float64 {
	r, _ := d.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, d)
	}
	return out
}
