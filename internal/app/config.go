package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/dtmf-codec/configs"
)

// loadProfileFromFile overlays a YAML (or JSON) codec profile onto config.
// Keys absent from the file keep their current values.
func loadProfileFromFile(filePath string, config *configs.Config) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("profile file does not exist: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open profile file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}

	// JSON documents are valid YAML, so one decoder serves both
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse profile %s: %w", filepath.Base(filePath), err)
	}

	return nil
}

// GenerateExampleConfig writes the default configuration as YAML
func GenerateExampleConfig(outputFile string) error {
	exampleConfig := configs.GetDefaultConfig()
	exampleConfig.Metrics.File = "/var/lib/node_exporter/textfile/dtmf_codec.prom"

	data, err := yaml.Marshal(exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	dir := filepath.Dir(outputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
