package transition

import (
	"context"
	"fmt"
	"math"

	"github.com/boshu2/becca/internal/numeric"
	"github.com/zoobzio/capitan"
	"gonum.org/v1/gonum/mat"
)

// Update folds one step of feature activity and reward into the transition
// statistics and returns the N*N transition activations in row-major order
// (index cause*N + effect).
//
// featureInput may be shorter than the model capacity; missing features are
// treated as inactive. Activity and reward must lie in [0,1]; anything else
// is rejected before any state changes.
func (m *Model) Update(ctx context.Context, featureInput []float64, reward float64) ([]float64, error) {
	if err := m.validateUpdate(featureInput, reward); err != nil {
		return nil, m.reject(ctx, "update", err)
	}

	n := m.capacity
	p := m.params

	input, err := numeric.Pad(featureInput, n)
	if err != nil {
		return nil, m.reject(ctx, "update", err)
	}

	// The previous effect becomes the freshest part of the cause trace.
	previousEffect := mat.Col(nil, 0, m.effect)
	decayedCause := mat.Col(nil, 0, m.cause)
	for i := range decayedCause {
		decayedCause[i] *= 1 - p.CauseDecayRate
	}
	cause, err := numeric.BoundedSum(previousEffect, decayedCause)
	if err != nil {
		return nil, m.reject(ctx, "update", err)
	}
	if len(featureInput) > m.numFeatureInputs {
		m.numFeatureInputs = len(featureInput)
	}
	m.cause = mat.NewVecDense(n, cause)
	m.effect = mat.NewVecDense(n, input)

	activities := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			activities[i*n+j] = math.Pow(cause[i]*input[j], p.MatchExponent)
		}
	}

	count := m.count.RawMatrix().Data
	value := m.rewardValue.RawMatrix().Data
	uncertainty := m.rewardUncertainty.RawMatrix().Data
	var totalActivation float64
	for k, a := range activities {
		totalActivation += a

		// Sparse transitions learn fast, well-visited ones settle.
		rate := a * ((1-p.TransitionUpdateRate)/(count[k]+numeric.Epsilon) + p.TransitionUpdateRate)
		rate = math.Min(p.MaxUpdateRate, rate)
		difference := math.Abs(reward - value[k])

		count[k] += a
		count[k] -= math.Min(1/(p.AgingTimeConstant*count[k]+numeric.Epsilon), count[k])

		value[k] += (reward - value[k]) * rate
		uncertainty[k] += (difference - uncertainty[k]) * rate
	}

	m.currentReward = reward
	m.timeSteps++

	capitan.Emit(ctx, ModelUpdated,
		FieldModelName.Field(m.name),
		FieldModelID.Field(m.id),
		FieldTimeStep.Field(m.timeSteps),
		FieldReward.Field(float32(reward)),
		FieldActiveFeatures.Field(countActive(input)),
		FieldActivation.Field(float32(totalActivation)),
	)

	return activities, nil
}

func (m *Model) validateUpdate(featureInput []float64, reward float64) error {
	if len(featureInput) > m.capacity {
		return fmt.Errorf("%d features for capacity %d: %w", len(featureInput), m.capacity, ErrInputTooLong)
	}
	for i, x := range featureInput {
		if math.IsNaN(x) || x < 0 || x > 1 {
			return fmt.Errorf("feature %d = %v: %w", i, x, ErrInvalidActivity)
		}
	}
	if math.IsNaN(reward) || reward < 0 || reward > 1 {
		return fmt.Errorf("reward = %v: %w", reward, ErrRewardOutOfRange)
	}
	return nil
}

func countActive(v []float64) int {
	active := 0
	for _, x := range v {
		if x > 0 {
			active++
		}
	}
	return active
}
