// Package config handles converter configuration loading and management.
package config

import "github.com/Faultbox/splatc/pkg/splat"

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds sampling and splat shape settings.
type ConvertConfig struct {
	// Samples is the number of surface points drawn per conversion.
	Samples int `yaml:"samples"`

	// Seed feeds the sampling random source; equal seeds reproduce
	// byte-identical output.
	Seed int64 `yaml:"seed"`

	// Workers bounds concurrent sampling. 0 picks one worker per CPU.
	Workers int `yaml:"workers"`

	// ScaleFactor relates splat size to the largest mesh extent.
	ScaleFactor float32 `yaml:"scale_factor"`

	// Flatten attenuates the normal-aligned splat axis.
	Flatten float32 `yaml:"flatten"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Samples:     splat.DefaultSampleCount,
			Seed:        0,
			Workers:     0,
			ScaleFactor: splat.DefaultScaleFactor,
			Flatten:     splat.DefaultFlatten,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
