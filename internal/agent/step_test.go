package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/boshu2/becca/internal/transition"
)

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func newModel(t *testing.T, name string, n int) *transition.Model {
	t.Helper()
	m, err := transition.New(context.Background(), n, name, transition.WithRand(constSource(0.5)))
	if err != nil {
		t.Fatalf("transition.New: %v", err)
	}
	return m
}

func TestStep(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, "vision", 3)

	if _, err := Step(ctx, m, EffectGoalScorer{}, []float64{1, 0}, 0); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	res, err := Step(ctx, m, EffectGoalScorer{}, []float64{0, 1}, 1)
	if err != nil {
		t.Fatalf("Step 2: %v", err)
	}

	if res.Model != "vision" || res.TimeStep != 2 || res.Reward != 1 {
		t.Fatalf("result header = %q/%d/%v", res.Model, res.TimeStep, res.Reward)
	}
	if len(res.Activations) != 9 || len(res.GoalValues) != 9 {
		t.Fatalf("activations=%d goal values=%d, want 9 each", len(res.Activations), len(res.GoalValues))
	}
	if res.Activations[0*3+1] <= 0 {
		t.Fatalf("transition 0->1 not active: %v", res.Activations)
	}
	if len(res.Goal()) != 2 {
		t.Fatalf("Goal() len = %d, want 2", len(res.Goal()))
	}
	if w := res.Deliberation.GoalFeature; w < 0 || w >= 3 {
		t.Fatalf("GoalFeature = %d out of range", w)
	}
}

func TestStepNilScorer(t *testing.T) {
	m := newModel(t, "audio", 2)
	res, err := Step(context.Background(), m, nil, []float64{1}, 0)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	for k, v := range res.GoalValues {
		if v != 0 {
			t.Fatalf("GoalValues[%d] = %v, want 0", k, v)
		}
	}
}

func TestStepErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := Step(ctx, nil, nil, nil, 0); !errors.Is(err, ErrNilModel) {
		t.Fatalf("Step(nil) err = %v, want ErrNilModel", err)
	}

	m := newModel(t, "touch", 2)
	if _, err := Step(ctx, m, nil, []float64{1, 1, 1}, 0); !errors.Is(err, transition.ErrInputTooLong) {
		t.Fatalf("Step(long) err = %v, want ErrInputTooLong", err)
	}

	bad := ScorerFunc(func(_, _ []float64, _ int) []float64 { return []float64{1} })
	if _, err := Step(ctx, m, bad, []float64{1}, 0); !errors.Is(err, transition.ErrShapeMismatch) {
		t.Fatalf("Step(bad scorer) err = %v, want ErrShapeMismatch", err)
	}
}
