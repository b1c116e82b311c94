package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/boshu2/becca/internal/transition"
	"github.com/boshu2/becca/internal/worker"
)

// Input is one model's observation for a step.
type Input struct {
	Features []float64 `json:"features" yaml:"features"`
	Reward   float64   `json:"reward" yaml:"reward"`
}

// Hub holds independently owned models, typically one per sensing modality,
// and steps them concurrently. Each model is touched by at most one goroutine
// per Step. Registration is not safe to run alongside Step.
type Hub struct {
	scorer GoalValueScorer
	models map[string]*transition.Model
	order  []string
	pool   *worker.Pool[hubJob, StepResult]
}

type hubJob struct {
	model *transition.Model
	input Input
}

// NewHub creates an empty hub. concurrency <= 0 uses one worker per CPU.
func NewHub(scorer GoalValueScorer, concurrency int) *Hub {
	if scorer == nil {
		scorer = ZeroScorer{}
	}
	return &Hub{
		scorer: scorer,
		models: make(map[string]*transition.Model),
		pool:   worker.NewPool[hubJob, StepResult](concurrency),
	}
}

// Add registers m under its name.
func (h *Hub) Add(m *transition.Model) error {
	if m == nil {
		return ErrNilModel
	}
	if _, ok := h.models[m.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateModel, m.Name())
	}
	h.models[m.Name()] = m
	h.order = append(h.order, m.Name())
	return nil
}

// Names lists registered models in registration order.
func (h *Hub) Names() []string {
	return append([]string(nil), h.order...)
}

// Model returns the named model.
func (h *Hub) Model(name string) (*transition.Model, bool) {
	m, ok := h.models[name]
	return m, ok
}

// Step advances every model that has an entry in inputs. Models without an
// input are left untouched. Results are keyed by model name; per-model
// failures are joined into the returned error and omitted from the map.
func (h *Hub) Step(ctx context.Context, inputs map[string]Input) (map[string]StepResult, error) {
	var unknown []string
	for name := range inputs {
		if _, ok := h.models[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, unknown)
	}

	jobs := make([]hubJob, 0, len(inputs))
	for _, name := range h.order {
		if in, ok := inputs[name]; ok {
			jobs = append(jobs, hubJob{model: h.models[name], input: in})
		}
	}

	results := h.pool.Process(ctx, jobs, func(ctx context.Context, j hubJob) (StepResult, error) {
		return Step(ctx, j.model, h.scorer, j.input.Features, j.input.Reward)
	})

	out := make(map[string]StepResult, len(results))
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		out[jobs[r.Index].model.Name()] = r.Value
	}
	return out, errors.Join(errs...)
}
