package config

import "testing"

func validConfig() Config {
	return Config{
		Demux:           "reads/",
		AmpliconLength:  250,
		FwdPrimerLength: 20,
		RevPrimerLength: 18,
		Fraction:        0.2,
		Trials:          30,
		Direction:       "maximize",
		MinTrunc:        0,
		MaxTrunc:        300,
		Step:            5,
		MinOverlap:      20,
		Sampler:         "tpe",
		ParamsOut:       "params.tsv",
		StudyOut:        "study.json",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			"defaults are valid",
			func(c *Config) {},
			false,
		},
		{
			"minimize is a valid direction",
			func(c *Config) { c.Direction = "minimize" },
			false,
		},
		{
			"min-trunc above max-trunc",
			func(c *Config) { c.MinTrunc = 200; c.MaxTrunc = 100 },
			true,
		},
		{
			"non-positive step",
			func(c *Config) { c.Step = 0 },
			true,
		},
		{
			"fraction of zero",
			func(c *Config) { c.Fraction = 0 },
			true,
		},
		{
			"fraction above one",
			func(c *Config) { c.Fraction = 1.2 },
			true,
		},
		{
			"fraction of exactly one is allowed",
			func(c *Config) { c.Fraction = 1.0 },
			false,
		},
		{
			"zero trials",
			func(c *Config) { c.Trials = 0 },
			true,
		},
		{
			"unknown direction",
			func(c *Config) { c.Direction = "sideways" },
			true,
		},
		{
			"missing amplicon length",
			func(c *Config) { c.AmpliconLength = 0 },
			true,
		},
		{
			"negative primer length",
			func(c *Config) { c.RevPrimerLength = -1 },
			true,
		},
		{
			"negative timeout",
			func(c *Config) { c.Timeout = -10 },
			true,
		},
		{
			"unknown sampler",
			func(c *Config) { c.Sampler = "annealing" },
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
