package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opmodel/pybake/internal/options"
)

func TestCondition_Eval(t *testing.T) {
	cfg := resolve(t, map[string]string{
		options.License:              "no",
		options.CommandLineInterface: options.CLIArgparse,
	})

	tests := []struct {
		name string
		cond *Condition
		want bool
	}{
		{"nil always holds", nil, true},
		{"when matches", When(options.License, "no"), true},
		{"when misses", When(options.License, "MIT"), false},
		{"unless matches", Unless(options.License, "no"), false},
		{"unless misses", Unless(options.CommandLineInterface, options.CLINone), true},
		{"when any of", When(options.CommandLineInterface, options.CLIClick, options.CLIArgparse), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Eval(cfg))
		})
	}
}

func TestCondition_Check(t *testing.T) {
	s := options.DefaultSchema()

	assert.NoError(t, (*Condition)(nil).Check(s))
	assert.NoError(t, When(options.CreateAuthorFile, "y").Check(s))
	assert.Error(t, When("missing", "y").Check(s))
	assert.Error(t, When(options.License).Check(s))
	assert.Error(t, Unless(options.License, "none").Check(s))
}

func TestCondition_String(t *testing.T) {
	assert.Equal(t, "always", (*Condition)(nil).String())
	assert.Equal(t, "license != no", Unless(options.License, "no").String())
	assert.Equal(t, "create_author_file == y", When(options.CreateAuthorFile, "y").String())
	assert.Equal(t, "license in [MIT, ISC]", When(options.License, "MIT", "ISC").String())
	assert.Equal(t, "license not in [MIT, ISC]", Unless(options.License, "MIT", "ISC").String())
}
