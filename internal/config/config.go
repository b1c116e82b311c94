// Package config provides configuration management for becca.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (BECCA_*)
// 3. Project config (.becca/config.yaml in cwd, or BECCA_CONFIG)
// 4. Home config (~/.becca/config.yaml)
// 5. Defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/boshu2/becca/internal/sim"
	"github.com/boshu2/becca/internal/transition"
)

// ErrInvalidConfig is returned when a loaded value cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all becca configuration.
type Config struct {
	// Output controls the default output format (table, json, yaml, markdown).
	Output string `yaml:"output" json:"output"`

	// Verbose enables verbose output and event hooks.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Model settings
	Model ModelConfig `yaml:"model" json:"model"`

	// Simulate settings
	Simulate SimulateConfig `yaml:"simulate" json:"simulate"`
}

// ModelConfig sizes a transition model and sets its learning constants.
// Zero values mean "not set" and leave the lower-priority value in place.
type ModelConfig struct {
	Capacity int `yaml:"capacity" json:"capacity"`

	AgingTimeConstant    float64 `yaml:"aging_time_constant" json:"aging_time_constant"`
	TransitionUpdateRate float64 `yaml:"transition_update_rate" json:"transition_update_rate"`
	MaxUpdateRate        float64 `yaml:"max_update_rate" json:"max_update_rate"`
	GoalDecayRate        float64 `yaml:"goal_decay_rate" json:"goal_decay_rate"`
	InitialUncertainty   float64 `yaml:"initial_uncertainty" json:"initial_uncertainty"`
	MatchExponent        float64 `yaml:"match_exponent" json:"match_exponent"`
	CauseDecayRate       float64 `yaml:"cause_decay_rate" json:"cause_decay_rate"`
}

// SimulateConfig holds settings for the synthetic world runner.
type SimulateConfig struct {
	Steps    int   `yaml:"steps" json:"steps"`
	Seed     int64 `yaml:"seed" json:"seed"`
	Features int   `yaml:"features" json:"features"`

	// RewardedFeature and Compliance are pointers because zero is a
	// meaningful setting for both.
	RewardedFeature *int     `yaml:"rewarded_feature" json:"rewarded_feature"`
	Compliance      *float64 `yaml:"compliance" json:"compliance"`

	// Models is how many independent models run side by side.
	Models int `yaml:"models" json:"models"`

	// Workers caps concurrency across models (0 = one per CPU).
	Workers int `yaml:"workers" json:"workers"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput   = "table"
	defaultCapacity = 16
	defaultModels   = 1
)

// Outputs lists the accepted output formats.
var Outputs = []string{"table", "json", "yaml", "markdown"}

// Default returns the default configuration.
func Default() *Config {
	p := transition.DefaultParams()
	s := sim.DefaultConfig()
	return &Config{
		Output: defaultOutput,
		Model: ModelConfig{
			Capacity:             defaultCapacity,
			AgingTimeConstant:    p.AgingTimeConstant,
			TransitionUpdateRate: p.TransitionUpdateRate,
			MaxUpdateRate:        p.MaxUpdateRate,
			GoalDecayRate:        p.GoalDecayRate,
			InitialUncertainty:   p.InitialUncertainty,
			MatchExponent:        p.MatchExponent,
			CauseDecayRate:       p.CauseDecayRate,
		},
		Simulate: SimulateConfig{
			Steps:           s.Steps,
			Seed:            s.Seed,
			Features:        s.Features,
			RewardedFeature: &s.RewardedFeature,
			Compliance:      &s.Compliance,
			Models:          defaultModels,
		},
	}
}

// Params returns the transition learning constants.
func (c *Config) Params() transition.Params {
	return transition.Params{
		AgingTimeConstant:    c.Model.AgingTimeConstant,
		TransitionUpdateRate: c.Model.TransitionUpdateRate,
		MaxUpdateRate:        c.Model.MaxUpdateRate,
		GoalDecayRate:        c.Model.GoalDecayRate,
		InitialUncertainty:   c.Model.InitialUncertainty,
		MatchExponent:        c.Model.MatchExponent,
		CauseDecayRate:       c.Model.CauseDecayRate,
	}
}

// SimConfig returns the world settings.
func (c *Config) SimConfig() sim.Config {
	s := sim.Config{
		Steps:    c.Simulate.Steps,
		Seed:     c.Simulate.Seed,
		Features: c.Simulate.Features,
	}
	if c.Simulate.RewardedFeature != nil {
		s.RewardedFeature = *c.Simulate.RewardedFeature
	}
	if c.Simulate.Compliance != nil {
		s.Compliance = *c.Simulate.Compliance
	}
	return s
}

// Validate checks the values the CLI depends on.
func (c *Config) Validate() error {
	valid := false
	for _, o := range Outputs {
		if c.Output == o {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: output %q (want one of %s)", ErrInvalidConfig, c.Output, strings.Join(Outputs, ", "))
	}
	if c.Model.Capacity <= 0 {
		return fmt.Errorf("%w: model capacity must be positive, got %d", ErrInvalidConfig, c.Model.Capacity)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.SimConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Simulate.Features > c.Model.Capacity {
		return fmt.Errorf("%w: simulate features %d exceed model capacity %d", ErrInvalidConfig, c.Simulate.Features, c.Model.Capacity)
	}
	if c.Simulate.Models <= 0 {
		return fmt.Errorf("%w: simulate models must be positive, got %d", ErrInvalidConfig, c.Simulate.Models)
	}
	return nil
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	homeConfig, err := loadFromPath(homeConfigPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("home config: %w", err)
	}
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	projectConfig, err := loadFromPath(projectConfigPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("project config: %w", err)
	}
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg, err = applyEnv(cfg)
	if err != nil {
		return nil, err
	}

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".becca", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("BECCA_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".becca", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

// envParser collects parse failures so one bad variable reports them all.
type envParser struct {
	errs []error
}

func (p *envParser) stringVar(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (p *envParser) intVar(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v))
		return
	}
	*dst = n
}

func (p *envParser) int64Var(key string, dst *int64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v))
		return
	}
	*dst = n
}

func (p *envParser) floatVar(key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v))
		return
	}
	*dst = f
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) (*Config, error) {
	var p envParser
	p.stringVar("BECCA_OUTPUT", &cfg.Output)
	if v, ok := getEnvBool("BECCA_VERBOSE"); ok {
		cfg.Verbose = v
	}

	p.intVar("BECCA_CAPACITY", &cfg.Model.Capacity)
	p.floatVar("BECCA_AGING_TIME_CONSTANT", &cfg.Model.AgingTimeConstant)
	p.floatVar("BECCA_TRANSITION_UPDATE_RATE", &cfg.Model.TransitionUpdateRate)
	p.floatVar("BECCA_MAX_UPDATE_RATE", &cfg.Model.MaxUpdateRate)
	p.floatVar("BECCA_GOAL_DECAY_RATE", &cfg.Model.GoalDecayRate)
	p.floatVar("BECCA_INITIAL_UNCERTAINTY", &cfg.Model.InitialUncertainty)
	p.floatVar("BECCA_MATCH_EXPONENT", &cfg.Model.MatchExponent)
	p.floatVar("BECCA_CAUSE_DECAY_RATE", &cfg.Model.CauseDecayRate)

	p.intVar("BECCA_STEPS", &cfg.Simulate.Steps)
	p.int64Var("BECCA_SEED", &cfg.Simulate.Seed)
	p.intVar("BECCA_FEATURES", &cfg.Simulate.Features)
	p.intVar("BECCA_MODELS", &cfg.Simulate.Models)
	p.intVar("BECCA_WORKERS", &cfg.Simulate.Workers)
	if _, ok := getEnvString("BECCA_REWARDED_FEATURE"); ok {
		var n int
		p.intVar("BECCA_REWARDED_FEATURE", &n)
		cfg.Simulate.RewardedFeature = &n
	}
	if _, ok := getEnvString("BECCA_COMPLIANCE"); ok {
		var f float64
		p.floatVar("BECCA_COMPLIANCE", &f)
		cfg.Simulate.Compliance = &f
	}

	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return cfg, nil
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeNum overwrites dst with src when src is non-zero.
func mergeNum[T int | int64 | float64](dst *T, src T) {
	if src != 0 {
		*dst = src
	}
}

// mergePtr overwrites dst when src was explicitly set.
func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// merge merges src into dst, with src values taking precedence.
// Verbose only ever turns on; use BECCA_VERBOSE=false to turn it off.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Output, src.Output)
	if src.Verbose {
		dst.Verbose = true
	}

	mergeModel(&dst.Model, &src.Model)
	mergeSimulate(&dst.Simulate, &src.Simulate)

	return dst
}

// mergeModel merges model-specific config fields.
func mergeModel(dst, src *ModelConfig) {
	mergeNum(&dst.Capacity, src.Capacity)
	mergeNum(&dst.AgingTimeConstant, src.AgingTimeConstant)
	mergeNum(&dst.TransitionUpdateRate, src.TransitionUpdateRate)
	mergeNum(&dst.MaxUpdateRate, src.MaxUpdateRate)
	mergeNum(&dst.GoalDecayRate, src.GoalDecayRate)
	mergeNum(&dst.InitialUncertainty, src.InitialUncertainty)
	mergeNum(&dst.MatchExponent, src.MatchExponent)
	mergeNum(&dst.CauseDecayRate, src.CauseDecayRate)
}

// mergeSimulate merges simulate-specific config fields.
func mergeSimulate(dst, src *SimulateConfig) {
	mergeNum(&dst.Steps, src.Steps)
	mergeNum(&dst.Seed, src.Seed)
	mergeNum(&dst.Features, src.Features)
	mergePtr(&dst.RewardedFeature, src.RewardedFeature)
	mergePtr(&dst.Compliance, src.Compliance)
	mergeNum(&dst.Models, src.Models)
	mergeNum(&dst.Workers, src.Workers)
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.becca/config.yaml"
	SourceProject Source = ".becca/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

// getEnvString returns the value and whether the env var was set.
func getEnvString(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// getEnvBool returns the boolean value and whether the env var held one.
func getEnvBool(key string) (bool, bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// resolveField resolves a value through the precedence chain. The zero value
// of T means "not set" at that layer.
func resolveField[T comparable](home, project, env, flag, def T) resolved {
	var zero T
	result := resolved{Value: def, Source: SourceDefault}

	if home != zero {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != zero {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != zero {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != zero {
		result = resolved{Value: flag, Source: SourceFlag}
	}

	return result
}

// ResolvedConfig shows config values with their sources.
type ResolvedConfig struct {
	Output   resolved `json:"output" yaml:"output"`
	Verbose  resolved `json:"verbose" yaml:"verbose"`
	Capacity resolved `json:"capacity" yaml:"capacity"`
	Steps    resolved `json:"steps" yaml:"steps"`
	Seed     resolved `json:"seed" yaml:"seed"`
	Features resolved `json:"features" yaml:"features"`
	Models   resolved `json:"models" yaml:"models"`
	Workers  resolved `json:"workers" yaml:"workers"`
}

type resolved struct {
	Value  interface{} `json:"value" yaml:"value"`
	Source Source      `json:"source" yaml:"source"`
}

// Flags carries the command-line values Resolve treats as the top layer.
type Flags struct {
	Output   string
	Verbose  bool
	Capacity int
	Steps    int
	Seed     int64
	Models   int
}

// Resolve returns configuration with source tracking.
// Uses precedence chain: flags > env > project > home > defaults.
// Unparseable environment values are treated as unset here; Load reports them.
func Resolve(flags Flags) *ResolvedConfig {
	home, _ := loadFromPath(homeConfigPath())
	project, _ := loadFromPath(projectConfigPath())
	if home == nil {
		home = &Config{}
	}
	if project == nil {
		project = &Config{}
	}

	envOutput, _ := getEnvString("BECCA_OUTPUT")
	envCapacity := envInt("BECCA_CAPACITY")
	envSteps := envInt("BECCA_STEPS")
	envFeatures := envInt("BECCA_FEATURES")
	envModels := envInt("BECCA_MODELS")
	envWorkers := envInt("BECCA_WORKERS")
	envSeed, _ := strconv.ParseInt(os.Getenv("BECCA_SEED"), 10, 64)

	def := Default()
	rc := &ResolvedConfig{
		Output:   resolveField(home.Output, project.Output, envOutput, flags.Output, def.Output),
		Verbose:  resolved{Value: false, Source: SourceDefault},
		Capacity: resolveField(home.Model.Capacity, project.Model.Capacity, envCapacity, flags.Capacity, def.Model.Capacity),
		Steps:    resolveField(home.Simulate.Steps, project.Simulate.Steps, envSteps, flags.Steps, def.Simulate.Steps),
		Seed:     resolveField(home.Simulate.Seed, project.Simulate.Seed, envSeed, flags.Seed, def.Simulate.Seed),
		Features: resolveField(home.Simulate.Features, project.Simulate.Features, envFeatures, 0, def.Simulate.Features),
		Models:   resolveField(home.Simulate.Models, project.Simulate.Models, envModels, flags.Models, def.Simulate.Models),
		Workers:  resolveField(home.Simulate.Workers, project.Simulate.Workers, envWorkers, 0, def.Simulate.Workers),
	}

	// Verbose has OR semantics through the chain, except an explicit env false.
	if home.Verbose {
		rc.Verbose = resolved{Value: true, Source: SourceHome}
	}
	if project.Verbose {
		rc.Verbose = resolved{Value: true, Source: SourceProject}
	}
	if v, ok := getEnvBool("BECCA_VERBOSE"); ok {
		rc.Verbose = resolved{Value: v, Source: SourceEnv}
	}
	if flags.Verbose {
		rc.Verbose = resolved{Value: true, Source: SourceFlag}
	}

	return rc
}

func envInt(key string) int {
	n, _ := strconv.Atoi(os.Getenv(key))
	return n
}
