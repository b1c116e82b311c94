package transition

import (
	"context"
	"fmt"
	"math"

	"github.com/boshu2/becca/internal/numeric"
	"github.com/zoobzio/capitan"
	"gonum.org/v1/gonum/mat"
)

// Deliberation is the full breakdown of one goal selection. Per-feature slices
// are N long and indexed by effect feature.
type Deliberation struct {
	RewardValueByFeature []float64 `json:"reward_value_by_feature" yaml:"reward_value_by_feature"`
	GoalValueByFeature   []float64 `json:"goal_value_by_feature" yaml:"goal_value_by_feature"`
	CountByFeature       []float64 `json:"count_by_feature" yaml:"count_by_feature"`
	ExplorationVote      []float64 `json:"exploration_vote" yaml:"exploration_vote"`
	TotalVote            []float64 `json:"total_vote" yaml:"total_vote"`
	AdjustedVote         []float64 `json:"adjusted_vote" yaml:"adjusted_vote"`
	BoundedTotalVote     []float64 `json:"bounded_total_vote" yaml:"bounded_total_vote"`

	// GoalFeature is the index that won this round.
	GoalFeature int `json:"goal_feature" yaml:"goal_feature"`

	// Goal is the goal vector after selection, truncated to the observed features.
	Goal []float64 `json:"goal" yaml:"goal"`
}

// Deliberate picks the next goal feature and returns the goal vector for the
// observed features. goalValueByTransition holds one externally scored value
// per transition in the same row-major order Update returns.
func (m *Model) Deliberate(ctx context.Context, goalValueByTransition []float64) ([]float64, error) {
	d, err := m.DeliberateReport(ctx, goalValueByTransition)
	if err != nil {
		return nil, err
	}
	return d.Goal, nil
}

// DeliberateReport runs Deliberate and returns every intermediate vote.
//
// GoalValueByFeature is reported for diagnostics only; it does not take part
// in the vote.
func (m *Model) DeliberateReport(ctx context.Context, goalValueByTransition []float64) (Deliberation, error) {
	n := m.capacity
	if len(goalValueByTransition) != n*n {
		err := fmt.Errorf("got %d goal values, want %d: %w", len(goalValueByTransition), n*n, ErrShapeMismatch)
		return Deliberation{}, m.reject(ctx, "deliberate", err)
	}
	p := m.params

	effect := mat.Col(nil, 0, m.effect)
	goal := m.goal.RawVector().Data
	for i := range goal {
		goal[i] *= (1 - effect[i]) * (1 - p.GoalDecayRate)
	}

	// similarity[i,j] = effect[i]: transitions out of active causes count most.
	similarity := numeric.Tile(effect)

	estimated := mat.NewDense(n, n, nil)
	confidence := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			unc := m.rewardUncertainty.At(i, j)
			sample := m.rewardValue.At(i, j) + unc*(m.rng.Float64()*2-1)
			estimated.Set(i, j, numeric.Clamp(sample, 0, 1))
			confidence.Set(i, j, similarity.At(i, j)/(unc+numeric.Epsilon))
		}
	}
	rewardByFeature, err := numeric.WeightedAverage(estimated, confidence)
	if err != nil {
		return Deliberation{}, m.reject(ctx, "deliberate", err)
	}

	goalValues := mat.NewDense(n, n, append([]float64(nil), goalValueByTransition...))
	var weightedGoals mat.Dense
	weightedGoals.MulElem(goalValues.T(), similarity)
	goalByFeature := numeric.BoundedSumAxis(&weightedGoals)

	countByFeature, err := numeric.WeightedAverage(m.count, similarity)
	if err != nil {
		return Deliberation{}, m.reject(ctx, "deliberate", err)
	}

	exploration := make([]float64, n)
	for j := range exploration {
		denominator := float64(m.numFeatureInputs)*(countByFeature[j]+1)*m.rng.Float64() + numeric.Epsilon
		if j >= m.numFeatureInputs {
			// Slots no input has reached are never explored.
			continue
		}
		exploration[j] = math.Min(1, (1-m.currentReward)/denominator)
	}

	total := make([]float64, n)
	adjusted := make([]float64, n)
	for j := range total {
		total[j] = rewardByFeature[j] + exploration[j]
		// Features already pursued are less likely to win again.
		adjusted[j] = total[j] * (1 - goal[j])
	}
	winner := numeric.ArgMax(adjusted)

	bounded, err := numeric.BoundedSum(rewardByFeature, exploration)
	if err != nil {
		return Deliberation{}, m.reject(ctx, "deliberate", err)
	}
	goal[winner] = math.Max(bounded[winner], goal[winner])

	capitan.Emit(ctx, GoalSelected,
		FieldModelName.Field(m.name),
		FieldModelID.Field(m.id),
		FieldTimeStep.Field(m.timeSteps),
		FieldGoalFeature.Field(winner),
		FieldGoalValue.Field(float32(goal[winner])),
	)

	return Deliberation{
		RewardValueByFeature: rewardByFeature,
		GoalValueByFeature:   goalByFeature,
		CountByFeature:       countByFeature,
		ExplorationVote:      exploration,
		TotalVote:            total,
		AdjustedVote:         adjusted,
		BoundedTotalVote:     bounded,
		GoalFeature:          winner,
		Goal:                 append([]float64(nil), goal[:m.numFeatureInputs]...),
	}, nil
}
