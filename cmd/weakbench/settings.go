package main

import (
	"fmt"
	"os"
	"time"
)

type settings struct {
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"text"`
	ScenarioFile   string        `env:"SCENARIOS"`
	SkipBench      bool          `env:"SKIP_BENCH"`
	ReclaimTimeout time.Duration `env:"RECLAIM_TIMEOUT" envDefault:"2s"`
}

// scenarios returns the configured scenario set, or the built-in one when no
// file is set.
func (s settings) scenarios() ([]scenario, error) {
	if s.ScenarioFile == "" {
		return defaultScenarios(), nil
	}
	f, err := os.Open(s.ScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("open scenarios: %w", err)
	}
	defer f.Close()
	return parseScenarios(f)
}
