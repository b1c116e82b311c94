package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/boshu2/becca/internal/formatter"
	"github.com/boshu2/becca/internal/sim"
	"github.com/boshu2/becca/internal/transition"
)

var inspectMatrices bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Run one model and print its learned state",
	Long: `Train a single model on the synthetic world, then print its goal, cause
and effect vectors, the last deliberation breakdown, and the reward value
and log count matrices over the observed features.

Examples:
  becca inspect --steps 1000
  becca inspect -o markdown > model.md
  becca inspect -o json`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addModelFlags(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectMatrices, "matrices", true, "Include reward and count matrices in table output")
}

// inspectOutput is the structured form of an inspection.
type inspectOutput struct {
	Snapshot     transition.Snapshot      `json:"snapshot" yaml:"snapshot"`
	Summary      sim.Summary              `json:"summary" yaml:"summary"`
	Deliberation *transition.Deliberation `json:"deliberation,omitempty" yaml:"deliberation,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := appConfig

	scorer, err := scorerFor(scorerName)
	if err != nil {
		return err
	}
	models, err := newModels(ctx, cfg, 1)
	if err != nil {
		return err
	}
	m := models[0]

	_, summary, err := sim.Run(ctx, cfg.SimConfig(), m, scorer, nil)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	d := summary.Deliberation
	summary.Deliberation = nil
	return outputInspect(cmd.OutOrStdout(), inspectOutput{Snapshot: m.Snapshot(), Summary: summary, Deliberation: d})
}

func outputInspect(w io.Writer, out inspectOutput) error {
	format := GetOutput()
	if handled, err := writeStructured(w, format, out); handled {
		return err
	}
	if format == "markdown" {
		return formatter.NewMarkdownFormatter().Format(w, out.Snapshot)
	}

	s := out.Snapshot
	fmt.Fprintf(w, "Model:    %s (%s)\n", s.Name, s.ID)
	fmt.Fprintf(w, "Steps:    %d\n", s.TimeSteps)
	fmt.Fprintf(w, "Features: %d of %d\n", s.NumFeatureInputs, s.Capacity)
	fmt.Fprintf(w, "Reward:   %s (rate %s)\n\n",
		formatter.FormatFloat(s.CurrentReward, 2), formatter.FormatFloat(out.Summary.RewardRate, 3))

	n := s.NumFeatureInputs
	names := []string{"goal", "cause", "effect"}
	vectors := [][]float64{head(s.Goal, n), head(s.Cause, n), head(s.Effect, n)}
	if d := out.Deliberation; d != nil {
		names = append(names, "reward", "explore", "vote")
		vectors = append(vectors, head(d.RewardValueByFeature, n), head(d.ExplorationVote, n), head(d.BoundedTotalVote, n))
	}
	if err := formatter.WriteVectors(w, names, vectors, 3); err != nil {
		return err
	}

	if !inspectMatrices || n == 0 {
		return nil
	}
	for _, section := range []struct {
		title string
		rows  [][]float64
	}{
		{"Reward value", s.RewardValue},
		{"Log count", s.LogCount},
	} {
		fmt.Fprintf(w, "\n%s\n", section.title)
		if err := formatter.WriteMatrix(w, denseOf(section.rows), formatter.MatrixOptions{
			Corner:    "cause\\effect",
			Rows:      n,
			Cols:      n,
			Precision: 3,
		}); err != nil {
			return err
		}
	}
	return nil
}

func head(v []float64, n int) []float64 {
	if len(v) > n {
		return v[:n]
	}
	return v
}

func denseOf(rows [][]float64) *mat.Dense {
	d := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, r := range rows {
		d.SetRow(i, r)
	}
	return d
}
