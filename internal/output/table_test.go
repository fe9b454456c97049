package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderOptionsTable(t *testing.T) {
	out := RenderOptionsTable([]OptionRow{
		{Name: "license", Kind: "choice", Value: "MIT", Source: "default", Choices: "MIT, BSD-3-Clause"},
		{Name: "project_name", Value: "Demo", Source: "--set"},
	})

	for _, want := range []string{"OPTION", "KIND", "choice", "VALUE", "SOURCE", "CHOICES", "license", "MIT", "project_name", "Demo", "--set"} {
		assert.Contains(t, out, want)
	}
}

func TestTable_EmptyRows(t *testing.T) {
	out := NewTable("A", "B").String()
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "B")
}
