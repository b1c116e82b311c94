package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/boshu2/becca/internal/agent"
	"github.com/boshu2/becca/internal/formatter"
	"github.com/boshu2/becca/internal/numeric"
	"github.com/boshu2/becca/internal/sim"
	"github.com/boshu2/becca/internal/transition"
)

var (
	simModels  int
	simWorkers int
	simTrace   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run models against a synthetic ring world",
	Long: `Run one or more transition models against a ring of one-hot feature
states. The world follows each model's goal with probability --compliance
and otherwise advances around the ring; the --rewarded feature pays 1.

With --models above 1 every model gets its own world and all of them are
stepped concurrently.

Examples:
  becca simulate --steps 500
  becca simulate --models 4 --workers 2 -o json
  becca simulate --trace run.jsonl`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addModelFlags(simulateCmd)
	simulateCmd.Flags().IntVar(&simModels, "models", 1, "Number of independent models")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Concurrent model workers (0 = one per CPU)")
	simulateCmd.Flags().StringVar(&simTrace, "trace", "", "Write every step to this JSONL file")
}

// addModelFlags registers the model and world flags shared by simulate and inspect.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&modelCapacity, "capacity", 16, "Maximum number of features per model")
	cmd.Flags().IntVar(&simSteps, "steps", 200, "Time steps to run")
	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Random seed for world and models")
	cmd.Flags().IntVar(&simFeatures, "features", 4, "Number of world states")
	cmd.Flags().IntVar(&simRewarded, "rewarded", 3, "Index of the rewarded feature")
	cmd.Flags().Float64Var(&simCompliance, "compliance", 0.8, "Probability the world follows the goal")
	cmd.Flags().StringVar(&scorerName, "scorer", "effect", "Goal value scorer (effect, zero)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := appConfig

	scorer, err := scorerFor(scorerName)
	if err != nil {
		return err
	}
	models, err := newModels(ctx, cfg, cfg.Simulate.Models)
	if err != nil {
		return err
	}
	trace, err := openTrace(simTrace)
	if err != nil {
		return err
	}

	VerbosePrintf("Simulating %d model(s) for %d steps over %d features\n",
		len(models), cfg.Simulate.Steps, cfg.Simulate.Features)

	var summaries []sim.Summary
	if len(models) == 1 {
		var s sim.Summary
		_, s, err = sim.Run(ctx, cfg.SimConfig(), models[0], scorer, func(rec sim.Record) {
			trace.write(models[0].Name(), rec)
		})
		summaries = []sim.Summary{s}
	} else {
		hub := agent.NewHub(scorer, cfg.Simulate.Workers)
		for _, m := range models {
			if err := hub.Add(m); err != nil {
				return err
			}
		}
		_, summaries, err = sim.RunHub(ctx, cfg.SimConfig(), hub, trace.write)
	}
	if closeErr := trace.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	return outputSimulate(cmd.OutOrStdout(), summaries, models)
}

func outputSimulate(w io.Writer, summaries []sim.Summary, models []*transition.Model) error {
	format := GetOutput()
	if handled, err := writeStructured(w, format, summaries); handled {
		return err
	}
	if format == "markdown" {
		return writeMarkdownSnapshots(w, models)
	}

	tbl := formatter.NewTable(w, "MODEL", "STEPS", "REWARD", "RATE", "GOALS", "TOP GOAL")
	for _, s := range summaries {
		top := "-"
		if i := numeric.ArgMax(s.FinalGoal); i >= 0 {
			top = fmt.Sprintf("%d (%s)", i, formatter.FormatFloat(s.FinalGoal[i], 3))
		}
		tbl.AddRow(
			s.Model,
			fmt.Sprintf("%d", s.Steps),
			formatter.FormatFloat(s.TotalReward, 0),
			formatter.FormatFloat(s.RewardRate, 3),
			fmt.Sprintf("%d", s.DistinctGoals),
			top,
		)
	}
	return tbl.Render()
}
