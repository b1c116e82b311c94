package formatter

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"

	"github.com/boshu2/becca/internal/transition"
)

// MarkdownFormatter outputs a model snapshot as a markdown report with YAML
// frontmatter.
type MarkdownFormatter struct {
	// Precision is the decimals used for matrix cells.
	Precision int

	// MaxFeatures trims the rendered matrices; 0 renders the observed features.
	MaxFeatures int
}

// NewMarkdownFormatter creates a markdown formatter with default precision.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{Precision: 3}
}

// Format writes the snapshot as markdown.
func (mf *MarkdownFormatter) Format(w io.Writer, snap transition.Snapshot) error {
	tmpl, err := template.New("snapshot").Funcs(mf.templateFuncs()).Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	return tmpl.Execute(w, mf.buildTemplateData(snap))
}

// Extension returns the file extension for markdown.
func (mf *MarkdownFormatter) Extension() string {
	return ".md"
}

type templateData struct {
	ID            string
	Name          string
	Capacity      int
	Features      int
	TimeSteps     int
	CurrentReward float64
	Tags          []string

	Header      []int
	Goal        []float64
	RewardValue [][]float64
	LogCount    [][]float64
}

func (mf *MarkdownFormatter) buildTemplateData(snap transition.Snapshot) *templateData {
	n := snap.NumFeatureInputs
	if mf.MaxFeatures > 0 && mf.MaxFeatures < n {
		n = mf.MaxFeatures
	}
	header := make([]int, n)
	for i := range header {
		header[i] = i
	}
	return &templateData{
		ID:            snap.ID,
		Name:          snap.Name,
		Capacity:      snap.Capacity,
		Features:      snap.NumFeatureInputs,
		TimeSteps:     snap.TimeSteps,
		CurrentReward: snap.CurrentReward,
		Tags:          []string{"becca", "transition-model", snap.Name},
		Header:        header,
		Goal:          trimVector(snap.Goal, n),
		RewardValue:   trimMatrix(snap.RewardValue, n),
		LogCount:      trimMatrix(snap.LogCount, n),
	}
}

func (mf *MarkdownFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"num": func(v float64) string {
			if math.Abs(v) < 0.5*math.Pow(10, -float64(mf.Precision)) {
				v = 0
			}
			return FormatFloat(v, mf.Precision)
		},
		"sep": func(n int) string {
			return strings.Repeat("---|", n)
		},
		"hasContent": func(s [][]float64) bool {
			return len(s) > 0
		},
	}
}

func trimVector(v []float64, n int) []float64 {
	if len(v) > n {
		return v[:n]
	}
	return v
}

func trimMatrix(m [][]float64, n int) [][]float64 {
	m = m[:min(n, len(m))]
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = trimVector(row, n)
	}
	return out
}

const markdownTemplate = `---
model_id: {{ .ID }}
name: {{ .Name }}
capacity: {{ .Capacity }}
features: {{ .Features }}
time_steps: {{ .TimeSteps }}
tags:
{{- range .Tags }}
  - {{ . }}
{{- end }}
---

# {{ .Name }}

**Model:** {{ .ID }}
**Time steps:** {{ .TimeSteps }}
**Current reward:** {{ num .CurrentReward }}

{{- if hasContent .RewardValue }}

## Goal

| feature | goal |
|---|---|
{{- range $i, $g := .Goal }}
| {{ $i }} | {{ num $g }} |
{{- end }}

## Reward value

| cause \ effect |{{ range .Header }} {{ . }} |{{ end }}
|---|{{ sep (len .Header) }}
{{- range $i, $row := .RewardValue }}
| {{ $i }} |{{ range $row }} {{ num . }} |{{ end }}
{{- end }}

## Log count

| cause \ effect |{{ range .Header }} {{ . }} |{{ end }}
|---|{{ sep (len .Header) }}
{{- range $i, $row := .LogCount }}
| {{ $i }} |{{ range $row }} {{ num . }} |{{ end }}
{{- end }}
{{- end }}
`
