// Package commands provides CLI command implementations.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blackms/artflow-go/internal/infrastructure/store"
	"github.com/blackms/artflow-go/pkg/artflow"
)

// fileConfig is the YAML configuration file layout.
type fileConfig struct {
	Module artflow.ModuleConfig `yaml:"module"`
	Store  store.Config         `yaml:"store"`
}

// defaultFileConfig returns the configuration used when no file is given.
func defaultFileConfig(inputDim int) fileConfig {
	return fileConfig{
		Module: artflow.ModuleConfig{
			Engine:  artflow.DefaultEngineConfig(inputDim),
			Rule:    artflow.RuleFuzzyART,
			Batch:   artflow.DefaultBatchConfig(),
			Workers: artflow.DefaultWorkerConfig(),
		},
		Store: store.DefaultConfig(),
	}
}

// loadFileConfig reads a YAML config file, falling back to defaults for the
// given input dimension when path is empty.
func loadFileConfig(path string, inputDim int) (fileConfig, error) {
	cfg := defaultFileConfig(inputDim)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Module.Engine.InputDim == 0 {
		cfg.Module.Engine.InputDim = inputDim
	}
	return cfg, nil
}

// patternFile is the JSON layout for training/prediction data.
type patternFile struct {
	Patterns [][]float64 `json:"patterns"`
	Outputs  [][]float64 `json:"outputs,omitempty"`
}

// loadPatterns reads a pattern file.
func loadPatterns(path string) (patternFile, error) {
	var pf patternFile
	data, err := os.ReadFile(path)
	if err != nil {
		return pf, fmt.Errorf("failed to read patterns %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &pf); err != nil {
		return pf, fmt.Errorf("failed to parse patterns %s: %w", path, err)
	}
	if len(pf.Patterns) == 0 {
		return pf, fmt.Errorf("no patterns in %s", path)
	}
	return pf, nil
}

// printResult writes v as indented JSON when jsonOut is set, otherwise via
// the fallback printer.
func printResult(v interface{}, jsonOut bool, fallback func()) error {
	if jsonOut {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fallback()
	return nil
}
