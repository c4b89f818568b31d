// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the root-level settings struct, a mix of required CLI arguments
// and optional search settings with defaults.
type Config struct {
	// path to the demultiplexed FASTQ directory
	Demux string `mapstructure:"demux"`

	// expected amplicon length in bases
	AmpliconLength int `mapstructure:"amplicon-length"`

	// forward primer length, becomes trim_left_f
	FwdPrimerLength int `mapstructure:"fwd-primer-length"`

	// reverse primer length, becomes trim_left_r (paired runs)
	RevPrimerLength int `mapstructure:"rev-primer-length"`

	// subsample fraction in (0, 1]
	Fraction float64 `mapstructure:"fraction"`

	// maximum number of trials
	Trials int `mapstructure:"trials"`

	// optimization direction: maximize or minimize
	Direction string `mapstructure:"direction"`

	// global truncation-length bounds and grid step
	MinTrunc int `mapstructure:"min-trunc"`
	MaxTrunc int `mapstructure:"max-trunc"`
	Step     int `mapstructure:"step"`

	// minimum overlap for paired-end merging
	MinOverlap int `mapstructure:"min-overlap"`

	// thread count handed to the denoiser (0 = let it decide)
	Threads int `mapstructure:"threads"`

	// wall-clock budget in seconds across all trials (0 = none)
	Timeout int `mapstructure:"timeout"`

	// random seed; negative means seed from the clock
	Seed int64 `mapstructure:"seed"`

	// external denoiser command
	Denoiser string `mapstructure:"denoiser"`

	// search algorithm: tpe or random
	Sampler string `mapstructure:"sampler"`

	// scratch root for per-trial working directories
	WorkDir string `mapstructure:"work-dir"`

	// output paths for the two artifacts
	ParamsOut string `mapstructure:"o-params"`
	StudyOut  string `mapstructure:"o-study"`
}

// New returns a Config populated by Viper from the bound command-line flags.
func New() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %v", err)
	}
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
	return c, c.Validate()
}

// Validate checks the settings that would otherwise fail mid-search. Every
// violation here is fatal before any trial runs.
func (c *Config) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("invalid configuration: "+format, args...)
	}

	if c.AmpliconLength <= 0 {
		return fail("amplicon length must be positive, got %d", c.AmpliconLength)
	}
	if c.FwdPrimerLength < 0 || c.RevPrimerLength < 0 {
		return fail("primer lengths cannot be negative")
	}
	if c.Fraction <= 0 || c.Fraction > 1 {
		return fail("fraction %v outside (0, 1]", c.Fraction)
	}
	if c.Trials < 1 {
		return fail("trial count must be at least 1, got %d", c.Trials)
	}
	if c.Direction != "maximize" && c.Direction != "minimize" {
		return fail("direction must be maximize or minimize, got %q", c.Direction)
	}
	if c.MinTrunc < 0 {
		return fail("min-trunc cannot be negative, got %d", c.MinTrunc)
	}
	if c.MaxTrunc < 1 {
		return fail("max-trunc must be at least 1, got %d", c.MaxTrunc)
	}
	if c.MinTrunc > c.MaxTrunc {
		return fail("min-trunc %d exceeds max-trunc %d", c.MinTrunc, c.MaxTrunc)
	}
	if c.Step < 1 {
		return fail("step must be at least 1, got %d", c.Step)
	}
	if c.MinOverlap < 0 {
		return fail("min-overlap cannot be negative, got %d", c.MinOverlap)
	}
	if c.Threads < 0 {
		return fail("thread count cannot be negative, got %d", c.Threads)
	}
	if c.Timeout < 0 {
		return fail("timeout cannot be negative, got %d", c.Timeout)
	}
	if c.Sampler != "tpe" && c.Sampler != "random" {
		return fail("sampler must be tpe or random, got %q", c.Sampler)
	}
	return nil
}
