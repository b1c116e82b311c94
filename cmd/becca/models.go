package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/boshu2/becca/internal/agent"
	"github.com/boshu2/becca/internal/config"
	"github.com/boshu2/becca/internal/formatter"
	"github.com/boshu2/becca/internal/sim"
	"github.com/boshu2/becca/internal/transition"
)

// Flags shared by the commands that build and run models.
var (
	modelCapacity int
	simSteps      int
	simSeed       int64
	simFeatures   int
	simRewarded   int
	simCompliance float64
	scorerName    string
)

func scorerFor(name string) (agent.GoalValueScorer, error) {
	switch name {
	case "", "effect":
		return agent.EffectGoalScorer{}, nil
	case "zero":
		return agent.ZeroScorer{}, nil
	}
	return nil, fmt.Errorf("unknown scorer %q (want effect or zero)", name)
}

// newModels builds count models from cfg. Model i is seeded with seed+i+1.
func newModels(ctx context.Context, cfg *config.Config, count int) ([]*transition.Model, error) {
	models := make([]*transition.Model, 0, count)
	for i := 0; i < count; i++ {
		name := "model"
		if count > 1 {
			name = fmt.Sprintf("model-%d", i)
		}
		m, err := transition.New(ctx, cfg.Model.Capacity, name,
			transition.WithParams(cfg.Params()),
			transition.WithSeed(cfg.Simulate.Seed+int64(i)+1),
		)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		models = append(models, m)
	}
	return models, nil
}

// traceWriter appends simulation steps to a JSONL file. The first write
// error is kept and reported by Close.
type traceWriter struct {
	f   *os.File
	fmt *formatter.JSONLFormatter
	err error
}

func openTrace(path string) (*traceWriter, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}
	return &traceWriter{f: f, fmt: formatter.NewJSONLFormatter()}, nil
}

func (t *traceWriter) write(model string, rec sim.Record) {
	if t == nil || t.err != nil {
		return
	}
	t.err = t.fmt.Format(t.f, model, rec)
}

func (t *traceWriter) Close() error {
	if t == nil {
		return nil
	}
	closeErr := t.f.Close()
	if t.err != nil {
		return fmt.Errorf("write trace: %w", t.err)
	}
	return closeErr
}

// writeMarkdownSnapshots renders one markdown report per model.
func writeMarkdownSnapshots(w io.Writer, models []*transition.Model) error {
	mf := formatter.NewMarkdownFormatter()
	for i, m := range models {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := mf.Format(w, m.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}
