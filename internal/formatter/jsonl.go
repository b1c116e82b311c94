package formatter

import (
	"encoding/json"
	"io"

	"github.com/boshu2/becca/internal/sim"
)

// JSONLFormatter outputs simulation steps as JSON Lines format.
// Each step is a single JSON object on one line.
type JSONLFormatter struct {
	// Pretty enables indented JSON (not recommended for JSONL).
	Pretty bool
}

// NewJSONLFormatter creates a new JSONL formatter.
func NewJSONLFormatter() *JSONLFormatter {
	return &JSONLFormatter{}
}

// Format writes one step of model as a JSON line.
func (jf *JSONLFormatter) Format(w io.Writer, model string, rec sim.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	if jf.Pretty {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(jf.buildOutput(model, rec))
}

// Extension returns the file extension for JSONL.
func (jf *JSONLFormatter) Extension() string {
	return ".jsonl"
}

// jsonlOutput is the structure written to trace files.
type jsonlOutput struct {
	Model       string    `json:"model"`
	Step        int       `json:"step"`
	Active      int       `json:"active"`
	Reward      float64   `json:"reward"`
	GoalFeature int       `json:"goal_feature"`
	Goal        []float64 `json:"goal,omitempty"`
}

func (jf *JSONLFormatter) buildOutput(model string, rec sim.Record) *jsonlOutput {
	return &jsonlOutput{
		Model:       model,
		Step:        rec.Step,
		Active:      rec.Active,
		Reward:      rec.Reward,
		GoalFeature: rec.GoalFeature,
		Goal:        rec.Goal,
	}
}
