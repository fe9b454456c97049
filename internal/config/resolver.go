package config

import (
	"os"

	"github.com/opmodel/pybake/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value and where it came from.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource

	// Shadowed contains values overridden by a higher-precedence source.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) PYBAKE_CONFIG env, (3) <xdg config>/pybake/config.yaml.
func ResolveConfigPath(flagValue string) ResolvedValue {
	result := ResolvedValue{
		Key:      "config",
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("PYBAKE_CONFIG")
	defaultPath := DefaultPaths().ConfigFile

	switch {
	case flagValue != "":
		result.Value = flagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.Value = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.Value = defaultPath
		result.Source = SourceDefault
	}

	return result
}

// ResolveOutputDir resolves the output directory using precedence:
// (1) --output flag, (2) output_dir from config or PYBAKE_OUTPUT_DIR, (3) ".".
func ResolveOutputDir(flagValue, configValue string) ResolvedValue {
	result := ResolvedValue{
		Key:      "output",
		Shadowed: make(map[ConfigSource]string),
	}

	switch {
	case flagValue != "":
		result.Value = flagValue
		result.Source = SourceFlag
		if configValue != "" {
			result.Shadowed[SourceConfig] = configValue
		}
	case configValue != "":
		result.Value = configValue
		result.Source = SourceConfig
	default:
		result.Value = "."
		result.Source = SourceDefault
	}

	return result
}

// ResolveTimestamps resolves timestamp display using precedence:
// (1) --timestamps flag when changed, (2) log.timestamps in config, (3) nil (default on).
func ResolveTimestamps(flagChanged, flagValue bool, cfg *Config) *bool {
	if flagChanged {
		return &flagValue
	}
	if cfg != nil && cfg.Log.Timestamps != nil {
		v := *cfg.Log.Timestamps
		return &v
	}
	return nil
}

// LogResolvedValues logs configuration resolution at debug level.
func LogResolvedValues(values ...ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
