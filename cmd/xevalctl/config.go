package main

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// Config is xevalctl's on-disk configuration, loaded with gopkg.in/yaml.v2.
type Config struct {
	// Store is the path to the bolt-backed row store to scan.
	Store string `yaml:"store"`
	// LogLevel is a logrus level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Trace turns on a no-op opentracing tracer so spans are at least
	// constructed and timed, without requiring a collector.
	Trace bool `yaml:"trace"`
}

func defaultConfig() Config {
	return Config{LogLevel: "info"}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
