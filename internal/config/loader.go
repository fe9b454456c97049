package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

// Environment variable prefix for pybake configuration.
const envPrefix = "PYBAKE"

// Loader reads the config file and environment overrides.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("replay_dir", "PYBAKE_REPLAY_DIR")
	_ = v.BindEnv("output_dir", "PYBAKE_OUTPUT_DIR")
	_ = v.BindEnv("log.timestamps", "PYBAKE_LOG_TIMESTAMPS")

	return &Loader{v: v}
}

// Load reads configFile. A missing file yields an empty config; environment
// variables still apply.
func (l *Loader) Load(configFile string) (*Config, error) {
	path, err := ExpandPath(configFile)
	if err != nil {
		return nil, oerrors.NewIOError(configFile, err)
	}

	l.v.SetConfigFile(path)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewValidationError("reading config file: "+err.Error(), path, "",
				"run 'pybake config vet' for details")
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, oerrors.NewValidationError("decoding config file: "+err.Error(), path, "",
			"run 'pybake config vet' for details")
	}
	return &cfg, nil
}

// LoadWithDefaults loads configFile and fills unset directories from paths.
func (l *Loader) LoadWithDefaults(configFile string, paths *Paths) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}
	return cfg.WithDefaults(paths), nil
}
