package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/boshu2/becca/internal/formatter"
	"github.com/boshu2/becca/internal/transition"
)

var projectCmd = &cobra.Command{
	Use:   "project FILE",
	Short: "Map transition activations to cause and effect features",
	Long: `Read a batch of transition activation vectors and report, for each one,
which cause features and which effect features it touches.

FILE is YAML or JSON ("-" reads stdin):

  capacity: 3          # optional, inferred from the row length
  projections:
    - [0, 0, 0, 0, 0, 1, 0, 0, 0]

Each row holds capacity*capacity values in cause-major order.`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

// projectInput is the file format read by project.
type projectInput struct {
	Capacity    int         `yaml:"capacity" json:"capacity"`
	Projections [][]float64 `yaml:"projections" json:"projections"`
}

// projection is one row of project output.
type projection struct {
	Index   int       `json:"index" yaml:"index"`
	Causes  []float64 `json:"causes" yaml:"causes"`
	Effects []float64 `json:"effects" yaml:"effects"`
}

func runProject(cmd *cobra.Command, args []string) error {
	in, err := readProjectInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	m, err := transition.New(cmd.Context(), in.Capacity, "project")
	if err != nil {
		return err
	}
	causes, effects, err := m.Projections(in.Projections)
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}

	out := make([]projection, len(in.Projections))
	for k := range out {
		out[k] = projection{Index: k, Causes: mat.Col(nil, k, causes), Effects: mat.Col(nil, k, effects)}
	}
	VerbosePrintf("Projected %d rows over %d features\n", len(out), in.Capacity)
	return outputProject(cmd.OutOrStdout(), out)
}

func readProjectInput(stdin io.Reader, path string) (*projectInput, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read projections: %w", err)
	}

	var in projectInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse projections: %w", err)
	}
	if len(in.Projections) == 0 {
		return nil, transition.ErrNoProjections
	}
	if in.Capacity == 0 {
		n := int(math.Round(math.Sqrt(float64(len(in.Projections[0])))))
		if n == 0 || n*n != len(in.Projections[0]) {
			return nil, fmt.Errorf("%w: row length %d is not a square; set capacity", transition.ErrShapeMismatch, len(in.Projections[0]))
		}
		in.Capacity = n
	}
	if in.Capacity < 0 {
		return nil, fmt.Errorf("capacity %d: %w", in.Capacity, transition.ErrInvalidCapacity)
	}
	// Rows are checked here so a bad file never allocates a model.
	want := in.Capacity * in.Capacity
	for k, row := range in.Projections {
		if len(row) != want {
			return nil, fmt.Errorf("projection %d has %d values, want %d: %w", k, len(row), want, transition.ErrShapeMismatch)
		}
	}
	return &in, nil
}

func outputProject(w io.Writer, out []projection) error {
	if handled, err := writeStructured(w, GetOutput(), out); handled {
		return err
	}
	tbl := formatter.NewTable(w, "ROW", "CAUSES", "EFFECTS")
	for _, p := range out {
		tbl.AddRow(strconv.Itoa(p.Index), activeList(p.Causes), activeList(p.Effects))
	}
	return tbl.Render()
}

// activeList renders the indices of non-zero entries, or "-" when none.
func activeList(v []float64) string {
	var idx []string
	for i, x := range v {
		if x != 0 {
			idx = append(idx, strconv.Itoa(i))
		}
	}
	if len(idx) == 0 {
		return "-"
	}
	return strings.Join(idx, ",")
}
