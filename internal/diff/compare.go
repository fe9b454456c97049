package diff

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// Comparer compares one file's content on disk with its rendered content.
type Comparer struct {
	useColor bool
}

// NewComparer creates a Comparer. useColor enables dyff's table styling.
func NewComparer(useColor bool) *Comparer {
	return &Comparer{useColor: useColor}
}

// Compare returns a readable diff from onDisk to rendered, or an empty string
// when they are equal. YAML files are compared structurally; everything else,
// and YAML that does not parse, gets a unified text diff.
func (c *Comparer) Compare(name string, onDisk, rendered []byte) (string, error) {
	if bytes.Equal(onDisk, rendered) {
		return "", nil
	}

	if isYAML(name) {
		report, err := c.diffYAML(name, onDisk, rendered)
		if err == nil && report != "" {
			return report, nil
		}
		// Formatting-only YAML changes still show up as text.
	}

	return udiff.Unified("a/"+name, "b/"+name, string(onDisk), string(rendered)), nil
}

func isYAML(name string) bool {
	switch path.Ext(name) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

func (c *Comparer) diffYAML(name string, onDisk, rendered []byte) (string, error) {
	from, err := parseYAMLInput("a/"+name, onDisk)
	if err != nil {
		return "", fmt.Errorf("parsing %s on disk: %w", name, err)
	}
	to, err := parseYAMLInput("b/"+name, rendered)
	if err != nil {
		return "", fmt.Errorf("parsing rendered %s: %w", name, err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing %s: %w", name, err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}
	return renderDyffReport(report, c.useColor)
}

// parseYAMLInput parses YAML bytes into a dyff input file.
func parseYAMLInput(location string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: location}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: location, Documents: docs}, nil
}

func renderDyffReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
