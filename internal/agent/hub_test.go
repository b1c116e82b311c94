package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/boshu2/becca/internal/transition"
)

func TestHubAdd(t *testing.T) {
	h := NewHub(nil, 2)
	if err := h.Add(newModel(t, "a", 2)); err != nil {
		t.Fatalf("Add(a): %v", err)
	}
	if err := h.Add(newModel(t, "b", 3)); err != nil {
		t.Fatalf("Add(b): %v", err)
	}
	if err := h.Add(newModel(t, "a", 4)); !errors.Is(err, ErrDuplicateModel) {
		t.Fatalf("Add(dup) err = %v, want ErrDuplicateModel", err)
	}
	if err := h.Add(nil); !errors.Is(err, ErrNilModel) {
		t.Fatalf("Add(nil) err = %v, want ErrNilModel", err)
	}

	names := h.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("Names() = %v, want [a b]", names)
	}
	if m, ok := h.Model("b"); !ok || m.Capacity() != 3 {
		t.Fatalf("Model(b) = %v, %v", m, ok)
	}
}

func TestHubStep(t *testing.T) {
	ctx := context.Background()
	h := NewHub(EffectGoalScorer{}, 0)
	for _, name := range []string{"vision", "audio", "touch"} {
		if err := h.Add(newModel(t, name, 3)); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}

	inputs := map[string]Input{
		"vision": {Features: []float64{1, 0, 0}, Reward: 0},
		"audio":  {Features: []float64{0, 1}, Reward: 0.5},
	}
	results, err := h.Step(ctx, inputs)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Step returned %d results, want 2", len(results))
	}
	if results["audio"].Reward != 0.5 || results["audio"].Model != "audio" {
		t.Fatalf("audio result = %+v", results["audio"])
	}

	touch, _ := h.Model("touch")
	if touch.TimeSteps() != 0 {
		t.Fatalf("touch stepped without input: %d", touch.TimeSteps())
	}
	vision, _ := h.Model("vision")
	if vision.TimeSteps() != 1 {
		t.Fatalf("vision TimeSteps = %d, want 1", vision.TimeSteps())
	}
}

func TestHubStepMatchesSequential(t *testing.T) {
	ctx := context.Background()
	seq := []Input{
		{Features: []float64{1, 0, 0}},
		{Features: []float64{0, 1, 0}},
		{Features: []float64{0, 0, 1}, Reward: 1},
		{Features: []float64{1, 0, 0}},
	}

	h := NewHub(EffectGoalScorer{}, 4)
	for _, name := range []string{"x", "y"} {
		if err := h.Add(newModel(t, name, 3)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	solo := newModel(t, "solo", 3)

	for step, in := range seq {
		results, err := h.Step(ctx, map[string]Input{"x": in, "y": in})
		if err != nil {
			t.Fatalf("hub step %d: %v", step, err)
		}
		want, err := Step(ctx, solo, EffectGoalScorer{}, in.Features, in.Reward)
		if err != nil {
			t.Fatalf("solo step %d: %v", step, err)
		}
		for _, name := range []string{"x", "y"} {
			got := results[name].Goal()
			if len(got) != len(want.Goal()) {
				t.Fatalf("step %d %s goal len = %d, want %d", step, name, len(got), len(want.Goal()))
			}
			for k := range got {
				if got[k] != want.Goal()[k] {
					t.Fatalf("step %d %s goal[%d] = %v, want %v", step, name, k, got[k], want.Goal()[k])
				}
			}
		}
	}
}

func TestHubStepErrors(t *testing.T) {
	ctx := context.Background()
	h := NewHub(nil, 2)
	if err := h.Add(newModel(t, "a", 2)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h.Add(newModel(t, "b", 2)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := h.Step(ctx, map[string]Input{"nope": {}}); !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("Step(unknown) err = %v, want ErrUnknownModel", err)
	}

	results, err := h.Step(ctx, map[string]Input{
		"a": {Features: []float64{1}},
		"b": {Features: []float64{1}, Reward: 2},
	})
	if !errors.Is(err, transition.ErrRewardOutOfRange) {
		t.Fatalf("Step err = %v, want ErrRewardOutOfRange", err)
	}
	if _, ok := results["a"]; !ok {
		t.Fatal("healthy model result dropped")
	}
	if _, ok := results["b"]; ok {
		t.Fatal("failed model result present")
	}
}
