package sim

import (
	"context"
	"fmt"

	"github.com/boshu2/becca/internal/agent"
	"github.com/boshu2/becca/internal/transition"
)

// RunHub gives every model in h its own world and steps them together for
// cfg.Steps steps. World i is seeded with cfg.Seed+i so models see different
// but reproducible trajectories. Summaries come back in hub order.
func RunHub(ctx context.Context, cfg Config, h *agent.Hub, hook func(model string, rec Record)) (map[string][]Record, []Summary, error) {
	names := h.Names()
	worlds := make(map[string]*World, len(names))
	for i, name := range names {
		m, _ := h.Model(name)
		if cfg.Features > m.Capacity() {
			return nil, nil, fmt.Errorf("%w: %s: %d > %d", ErrWorldTooLarge, name, cfg.Features, m.Capacity())
		}
		wcfg := cfg
		wcfg.Seed = cfg.Seed + int64(i)
		w, err := NewWorld(wcfg)
		if err != nil {
			return nil, nil, err
		}
		worlds[name] = w
	}

	records := make(map[string][]Record, len(names))
	last := make(map[string]*transition.Deliberation, len(names))
	summaries := func() []Summary {
		out := make([]Summary, 0, len(names))
		for _, name := range names {
			out = append(out, summarize(name, records[name], last[name]))
		}
		return out
	}

	for step := 0; step < cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return records, summaries(), err
		}

		inputs := make(map[string]agent.Input, len(names))
		active := make(map[string]int, len(names))
		for _, name := range names {
			features, reward := worlds[name].Observe()
			inputs[name] = agent.Input{Features: features, Reward: reward}
			active[name] = worlds[name].State()
		}

		results, err := h.Step(ctx, inputs)
		if err != nil {
			return records, summaries(), fmt.Errorf("step %d: %w", step, err)
		}

		for _, name := range names {
			res := results[name]
			rec := Record{
				Step:        step,
				Active:      active[name],
				Reward:      inputs[name].Reward,
				GoalFeature: res.Deliberation.GoalFeature,
				Goal:        res.Goal(),
			}
			records[name] = append(records[name], rec)
			last[name] = &res.Deliberation
			if hook != nil {
				hook(name, rec)
			}
			worlds[name].Advance(rec.Goal)
		}
	}

	return records, summaries(), nil
}
