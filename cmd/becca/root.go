package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/becca/internal/config"
)

var (
	// Global flags
	verbose bool
	output  string
	cfgFile string

	// appConfig is loaded once per invocation in PersistentPreRunE.
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "becca",
	Short: "Transition model learning core",
	Long: `becca drives transition models: per-feature cause/effect statistics that
learn which transitions lead to reward and turn them into goals.

Commands:
  simulate     Run models against a synthetic ring world
  inspect      Run one model and print its learned state
  project      Map transition activations to cause and effect features
  config       Show resolved configuration
  version      Show version information`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		syncConfigFlagToEnv()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		appConfig = cfg
		if cfg.Verbose {
			startEventLog(cmd.ErrOrStderr())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopEventLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and model event logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (table, json, yaml, markdown)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .becca/config.yaml)")
}

// GetVerbose reports whether verbose output is on, from flag or config.
func GetVerbose() bool {
	if appConfig != nil {
		return appConfig.Verbose
	}
	return verbose
}

// GetOutput returns the resolved output format.
func GetOutput() string {
	if appConfig != nil {
		return appConfig.Output
	}
	if output != "" {
		return output
	}
	return "table"
}

// GetConfigFile returns the config file path for use by subcommands.
func GetConfigFile() string {
	return cfgFile
}

// VerbosePrintf prints to stderr only when verbose mode is enabled.
func VerbosePrintf(format string, args ...interface{}) {
	if GetVerbose() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func syncConfigFlagToEnv() {
	path := strings.TrimSpace(GetConfigFile())
	if path == "" {
		return
	}
	_ = os.Setenv("BECCA_CONFIG", path)
}

// loadConfig layers changed command-line flags over the file and env config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := &config.Config{}
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("output") {
		overrides.Output = output
	}
	if changed("verbose") {
		overrides.Verbose = verbose
	}
	if changed("capacity") {
		overrides.Model.Capacity = modelCapacity
	}
	if changed("steps") {
		overrides.Simulate.Steps = simSteps
	}
	if changed("seed") {
		overrides.Simulate.Seed = simSeed
	}
	if changed("features") {
		overrides.Simulate.Features = simFeatures
	}
	if changed("rewarded") {
		v := simRewarded
		overrides.Simulate.RewardedFeature = &v
	}
	if changed("compliance") {
		v := simCompliance
		overrides.Simulate.Compliance = &v
	}
	if changed("models") {
		overrides.Simulate.Models = simModels
	}
	if changed("workers") {
		overrides.Simulate.Workers = simWorkers
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
