package sim

import (
	"context"
	"fmt"

	"github.com/boshu2/becca/internal/agent"
	"github.com/boshu2/becca/internal/transition"
)

// Record is one step of a run.
type Record struct {
	Step        int       `json:"step" yaml:"step"`
	Active      int       `json:"active" yaml:"active"`
	Reward      float64   `json:"reward" yaml:"reward"`
	GoalFeature int       `json:"goal_feature" yaml:"goal_feature"`
	Goal        []float64 `json:"goal" yaml:"goal"`
}

// Summary aggregates a run.
type Summary struct {
	Model         string    `json:"model" yaml:"model"`
	Steps         int       `json:"steps" yaml:"steps"`
	TotalReward   float64   `json:"total_reward" yaml:"total_reward"`
	RewardRate    float64   `json:"reward_rate" yaml:"reward_rate"`
	DistinctGoals int       `json:"distinct_goals" yaml:"distinct_goals"`
	FinalGoal     []float64 `json:"final_goal" yaml:"final_goal"`

	// Deliberation is the breakdown of the last goal selection.
	Deliberation *transition.Deliberation `json:"deliberation,omitempty" yaml:"deliberation,omitempty"`
}

// Run drives m through cfg.Steps steps of a fresh world. The step hook, when
// non-nil, sees every record as it is produced.
func Run(ctx context.Context, cfg Config, m *transition.Model, scorer agent.GoalValueScorer, hook func(Record)) ([]Record, Summary, error) {
	if m == nil {
		return nil, Summary{}, agent.ErrNilModel
	}
	w, err := NewWorld(cfg)
	if err != nil {
		return nil, Summary{}, err
	}
	if cfg.Features > m.Capacity() {
		return nil, Summary{}, fmt.Errorf("%w: %d > %d", ErrWorldTooLarge, cfg.Features, m.Capacity())
	}

	records := make([]Record, 0, cfg.Steps)
	var last *transition.Deliberation
	for step := 0; step < cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return records, summarize(m.Name(), records, last), err
		}

		active := w.State()
		features, reward := w.Observe()
		res, err := agent.Step(ctx, m, scorer, features, reward)
		if err != nil {
			return records, summarize(m.Name(), records, last), fmt.Errorf("step %d: %w", step, err)
		}
		last = &res.Deliberation

		rec := Record{
			Step:        step,
			Active:      active,
			Reward:      reward,
			GoalFeature: res.Deliberation.GoalFeature,
			Goal:        res.Goal(),
		}
		records = append(records, rec)
		if hook != nil {
			hook(rec)
		}
		w.Advance(rec.Goal)
	}
	return records, summarize(m.Name(), records, last), nil
}

func summarize(model string, records []Record, last *transition.Deliberation) Summary {
	s := Summary{Model: model, Steps: len(records), Deliberation: last}
	goals := make(map[int]struct{})
	for _, r := range records {
		s.TotalReward += r.Reward
		goals[r.GoalFeature] = struct{}{}
	}
	s.DistinctGoals = len(goals)
	if len(records) > 0 {
		s.RewardRate = s.TotalReward / float64(len(records))
		s.FinalGoal = records[len(records)-1].Goal
	}
	return s
}
