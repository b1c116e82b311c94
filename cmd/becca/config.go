package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/boshu2/becca/internal/config"
)

var configShow bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `View becca configuration.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (BECCA_*)
  3. Project config (.becca/config.yaml)
  4. Home config (~/.becca/config.yaml)
  5. Defaults

Environment variables:
  BECCA_CONFIG      - Explicit project config file path
  BECCA_OUTPUT      - Default output format (table, json, yaml, markdown)
  BECCA_VERBOSE     - Verbose output and event logging (true/1, false/0)
  BECCA_CAPACITY    - Maximum features per model
  BECCA_STEPS, BECCA_SEED, BECCA_FEATURES, BECCA_REWARDED_FEATURE,
  BECCA_COMPLIANCE, BECCA_MODELS, BECCA_WORKERS - Simulation settings
  BECCA_AGING_TIME_CONSTANT, BECCA_TRANSITION_UPDATE_RATE,
  BECCA_MAX_UPDATE_RATE, BECCA_GOAL_DECAY_RATE, BECCA_INITIAL_UNCERTAINTY,
  BECCA_MATCH_EXPONENT, BECCA_CAUSE_DECAY_RATE - Learning constants

Examples:
  becca config --show           # Show resolved configuration
  becca config --show -o json   # Output as JSON`,
	RunE: runConfig,
}

var configEnvVars = []string{
	"BECCA_CONFIG", "BECCA_OUTPUT", "BECCA_VERBOSE", "BECCA_CAPACITY",
	"BECCA_STEPS", "BECCA_SEED", "BECCA_FEATURES", "BECCA_REWARDED_FEATURE",
	"BECCA_COMPLIANCE", "BECCA_MODELS", "BECCA_WORKERS",
	"BECCA_AGING_TIME_CONSTANT", "BECCA_TRANSITION_UPDATE_RATE",
	"BECCA_MAX_UPDATE_RATE", "BECCA_GOAL_DECAY_RATE", "BECCA_INITIAL_UNCERTAINTY",
	"BECCA_MATCH_EXPONENT", "BECCA_CAUSE_DECAY_RATE",
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show resolved configuration with sources")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configShow {
		return cmd.Help()
	}

	flags := config.Flags{Verbose: verbose}
	if cmd.Flags().Changed("output") {
		flags.Output = output
	}
	resolved := config.Resolve(flags)

	w := cmd.OutOrStdout()
	format := GetOutput()
	if format == "json" || format == "yaml" {
		out := struct {
			Resolved *config.ResolvedConfig `json:"resolved" yaml:"resolved"`
			Config   *config.Config         `json:"config" yaml:"config"`
		}{resolved, appConfig}
		_, err := writeStructured(w, format, out)
		return err
	}
	return outputConfigTable(w, resolved)
}

func outputConfigTable(w io.Writer, resolved *config.ResolvedConfig) error {
	fmt.Fprintln(w, "becca Configuration")
	fmt.Fprintln(w, "===================")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config files:")
	home, _ := os.UserHomeDir()
	homeConfig := filepath.Join(home, ".becca", "config.yaml")
	projectConfig := os.Getenv("BECCA_CONFIG")
	if projectConfig == "" {
		cwd, _ := os.Getwd()
		projectConfig = filepath.Join(cwd, ".becca", "config.yaml")
	}
	for _, f := range []struct{ label, path string }{
		{"Home:   ", homeConfig},
		{"Project:", projectConfig},
	} {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Fprintf(w, "  ✓ %s %s\n", f.label, f.path)
		} else {
			fmt.Fprintf(w, "  ✗ %s %s (not found)\n", f.label, f.path)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resolved values:")
	for _, r := range []struct {
		name string
		val  interface{}
		src  config.Source
	}{
		{"output", resolved.Output.Value, resolved.Output.Source},
		{"verbose", resolved.Verbose.Value, resolved.Verbose.Source},
		{"model.capacity", resolved.Capacity.Value, resolved.Capacity.Source},
		{"simulate.steps", resolved.Steps.Value, resolved.Steps.Source},
		{"simulate.seed", resolved.Seed.Value, resolved.Seed.Source},
		{"simulate.features", resolved.Features.Value, resolved.Features.Source},
		{"simulate.models", resolved.Models.Value, resolved.Models.Source},
		{"simulate.workers", resolved.Workers.Value, resolved.Workers.Source},
	} {
		fmt.Fprintf(w, "  %-18s %v  (from %s)\n", r.name+":", r.val, r.src)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (if set):")
	anySet := false
	for _, env := range configEnvVars {
		if v := os.Getenv(env); v != "" {
			fmt.Fprintf(w, "  %s=%s\n", env, v)
			anySet = true
		}
	}
	if !anySet {
		fmt.Fprintln(w, "  (none set)")
	}
	return nil
}
