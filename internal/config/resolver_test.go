package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	t.Setenv("PYBAKE_CONFIG", "/env/config.yaml")

	result := ResolveConfigPath("/flag/config.yaml")
	assert.Equal(t, "/flag/config.yaml", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
	assert.Equal(t, DefaultPaths().ConfigFile, result.Shadowed[SourceDefault])
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	t.Setenv("PYBAKE_CONFIG", "/env/config.yaml")

	result := ResolveConfigPath("")
	assert.Equal(t, "/env/config.yaml", result.Value)
	assert.Equal(t, SourceEnv, result.Source)
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolveConfigPath_Default(t *testing.T) {
	t.Setenv("PYBAKE_CONFIG", "")

	result := ResolveConfigPath("")
	assert.Equal(t, DefaultPaths().ConfigFile, result.Value)
	assert.Equal(t, SourceDefault, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolveOutputDir(t *testing.T) {
	tests := []struct {
		name       string
		flag, conf string
		want       string
		source     ConfigSource
	}{
		{"flag wins", "/flag", "/conf", "/flag", SourceFlag},
		{"config", "", "/conf", "/conf", SourceConfig},
		{"default", "", "", ".", SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOutputDir(tt.flag, tt.conf)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.source, got.Source)
		})
	}
}

func TestResolveTimestamps(t *testing.T) {
	off := false
	cfg := &Config{Log: LogConfig{Timestamps: &off}}

	got := ResolveTimestamps(true, true, cfg)
	if assert.NotNil(t, got) {
		assert.True(t, *got, "changed flag beats config")
	}

	got = ResolveTimestamps(false, true, cfg)
	if assert.NotNil(t, got) {
		assert.False(t, *got, "config applies when flag unchanged")
	}

	assert.Nil(t, ResolveTimestamps(false, true, &Config{}))
	assert.Nil(t, ResolveTimestamps(false, true, nil))
}
