package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/boshu2/becca/internal/agent"
	"github.com/boshu2/becca/internal/transition"
)

func newHub(t *testing.T, capacities ...int) *agent.Hub {
	t.Helper()
	h := agent.NewHub(agent.EffectGoalScorer{}, 2)
	for i, n := range capacities {
		m, err := transition.New(context.Background(), n, string(rune('a'+i)), transition.WithSeed(int64(i+1)))
		if err != nil {
			t.Fatalf("transition.New: %v", err)
		}
		if err := h.Add(m); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return h
}

func TestRunHub(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 25
	h := newHub(t, 4, 6, 8)

	var hooked int
	records, summaries, err := RunHub(context.Background(), cfg, h, func(string, Record) { hooked++ })
	if err != nil {
		t.Fatalf("RunHub: %v", err)
	}
	if hooked != 75 {
		t.Fatalf("hook called %d times, want 75", hooked)
	}
	if len(summaries) != 3 {
		t.Fatalf("summaries = %d, want 3", len(summaries))
	}
	for i, name := range []string{"a", "b", "c"} {
		if summaries[i].Model != name || summaries[i].Steps != 25 {
			t.Fatalf("summary[%d] = %+v", i, summaries[i])
		}
		if summaries[i].Deliberation == nil {
			t.Fatalf("summary[%d] missing deliberation", i)
		}
		if len(records[name]) != 25 {
			t.Fatalf("records[%s] = %d, want 25", name, len(records[name]))
		}
		m, _ := h.Model(name)
		if m.TimeSteps() != 25 {
			t.Fatalf("model %s TimeSteps = %d", name, m.TimeSteps())
		}
	}
}

func TestRunHubMatchesRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 30

	records, _, err := RunHub(context.Background(), cfg, newHub(t, 4), nil)
	if err != nil {
		t.Fatalf("RunHub: %v", err)
	}

	solo, err := transition.New(context.Background(), 4, "a", transition.WithSeed(1))
	if err != nil {
		t.Fatalf("transition.New: %v", err)
	}
	want, _, err := Run(context.Background(), cfg, solo, agent.EffectGoalScorer{}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range want {
		got := records["a"][i]
		if got.Active != want[i].Active || got.GoalFeature != want[i].GoalFeature {
			t.Fatalf("step %d: hub %+v, solo %+v", i, got, want[i])
		}
	}
}

func TestRunHubTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	if _, _, err := RunHub(context.Background(), cfg, newHub(t, 8, 2), nil); !errors.Is(err, ErrWorldTooLarge) {
		t.Fatalf("RunHub err = %v, want ErrWorldTooLarge", err)
	}
}
