// Package transition implements the learning core of the agent: a model of
// cause → effect feature transitions that tracks co-activation counts, a
// smoothed reward estimate and its uncertainty for every ordered feature pair,
// and turns those statistics into a per-feature goal vector.
//
// # State
//
// A Model owns three N×N matrices indexed [cause, effect] (count, reward
// value, reward uncertainty) and three N-length vectors (cause trace, current
// effect, goal). N is fixed by New and never changes.
//
// # Calling sequence
//
// Each time step the caller runs Update with the current feature activity and
// reward, scores the returned transition activations elsewhere, then passes
// those per-transition goal values to Deliberate. Deliberate reads state left
// by the immediately preceding Update.
//
// # Concurrency
//
// A Model is not safe for concurrent use. Independent models share no state
// and may be driven from different goroutines.
package transition

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"gonum.org/v1/gonum/mat"
)

// Source supplies uniform random numbers in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Model is a transition model for one named feature vocabulary.
type Model struct {
	id       string
	name     string
	capacity int
	params   Params
	rng      Source

	count             *mat.Dense
	rewardValue       *mat.Dense
	rewardUncertainty *mat.Dense

	cause  *mat.VecDense
	effect *mat.VecDense
	goal   *mat.VecDense

	timeSteps        int
	numFeatureInputs int
	currentReward    float64
}

// Option configures a Model at construction.
type Option func(*Model)

// WithParams replaces the default learning constants.
func WithParams(p Params) Option {
	return func(m *Model) {
		m.params = p
	}
}

// WithRand sets the random source used during deliberation.
func WithRand(src Source) Option {
	return func(m *Model) {
		if src != nil {
			m.rng = src
		}
	}
}

// WithSeed seeds a private random source. Every seed, zero included, is
// reproducible; omit the option for a clock-seeded source.
func WithSeed(seed int64) Option {
	return func(m *Model) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// New allocates a model with room for maxNumFeatures features.
func New(ctx context.Context, maxNumFeatures int, name string, opts ...Option) (*Model, error) {
	if maxNumFeatures <= 0 {
		return nil, ErrInvalidCapacity
	}

	m := &Model{
		id:       uuid.New().String(),
		name:     name,
		capacity: maxNumFeatures,
		params:   DefaultParams(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.params.Validate(); err != nil {
		return nil, err
	}

	n := maxNumFeatures
	m.count = mat.NewDense(n, n, nil)
	m.rewardValue = mat.NewDense(n, n, nil)
	uncertainty := make([]float64, n*n)
	for i := range uncertainty {
		uncertainty[i] = m.params.InitialUncertainty
	}
	m.rewardUncertainty = mat.NewDense(n, n, uncertainty)
	m.cause = mat.NewVecDense(n, nil)
	m.effect = mat.NewVecDense(n, nil)
	m.goal = mat.NewVecDense(n, nil)

	capitan.Emit(ctx, ModelCreated,
		FieldModelName.Field(m.name),
		FieldModelID.Field(m.id),
		FieldCapacity.Field(n),
	)

	return m, nil
}

// ID returns the unique identifier assigned at construction.
func (m *Model) ID() string { return m.id }

// Name returns the label given at construction.
func (m *Model) Name() string { return m.name }

// Capacity returns the fixed feature capacity N.
func (m *Model) Capacity() int { return m.capacity }

// Params returns the learning constants in use.
func (m *Model) Params() Params { return m.params }

// NumFeatureInputs returns the longest feature input seen so far.
func (m *Model) NumFeatureInputs() int { return m.numFeatureInputs }

// TimeSteps returns the number of successful updates.
func (m *Model) TimeSteps() int { return m.timeSteps }

// CurrentReward returns the reward passed to the last update.
func (m *Model) CurrentReward() float64 { return m.currentReward }

// Goal returns a copy of the full N-length goal vector.
func (m *Model) Goal() []float64 { return mat.Col(nil, 0, m.goal) }

// Cause returns a copy of the cause trace.
func (m *Model) Cause() []float64 { return mat.Col(nil, 0, m.cause) }

// Effect returns a copy of the current effect vector.
func (m *Model) Effect() []float64 { return mat.Col(nil, 0, m.effect) }

// Count returns a copy of the transition count matrix.
func (m *Model) Count() *mat.Dense { return mat.DenseCopyOf(m.count) }

// RewardValue returns a copy of the reward estimate matrix.
func (m *Model) RewardValue() *mat.Dense { return mat.DenseCopyOf(m.rewardValue) }

// RewardUncertainty returns a copy of the reward uncertainty matrix.
func (m *Model) RewardUncertainty() *mat.Dense { return mat.DenseCopyOf(m.rewardUncertainty) }

func (m *Model) reject(ctx context.Context, op string, err error) error {
	capitan.Error(ctx, CallRejected,
		FieldModelName.Field(m.name),
		FieldModelID.Field(m.id),
		FieldOperation.Field(op),
		FieldError.Field(err),
	)
	return err
}
