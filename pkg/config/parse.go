package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseSettingsYAML parses Settings from YAML bytes and validates them
func ParseSettingsYAML(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings yaml: %w", err)
	}

	if err := validateSettings(&settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &settings, nil
}

// ParseSettingsYAMLString parses Settings from a YAML string and validates them
func ParseSettingsYAMLString(yamlText string) (*Settings, error) {
	return ParseSettingsYAML([]byte(yamlText))
}

// validateSettings performs validation on the settings
func validateSettings(settings *Settings) error {
	if settings.LogLevel != "" {
		validLogLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLogLevels[settings.LogLevel] {
			return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", settings.LogLevel)
		}
	}

	if settings.SampleSize < 0 {
		return fmt.Errorf("sample_size cannot be negative: %d", settings.SampleSize)
	}

	if settings.Nests != nil {
		if err := validateNest(settings.Nests, ""); err != nil {
			return fmt.Errorf("nests validation failed: %w", err)
		}
	}

	return nil
}

// validateNest validates a nest subtree
func validateNest(node *NestNode, parent string) error {
	if node.Name == "" {
		return fmt.Errorf("nest under %q has no name", parent)
	}
	if node.IsLeaf() {
		return nil
	}
	if node.Coefficient <= 0 || node.Coefficient > 1 {
		return fmt.Errorf("nest %s: coefficient must be in (0, 1], got %g", node.Name, node.Coefficient)
	}
	if len(node.Alternatives) == 0 {
		return fmt.Errorf("nest %s must have at least one alternative", node.Name)
	}
	for i := range node.Alternatives {
		if err := validateNest(&node.Alternatives[i], node.Name); err != nil {
			return err
		}
	}
	return nil
}
