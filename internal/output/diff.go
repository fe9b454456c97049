package output

import (
	"strconv"
	"strings"
)

// ModifiedItem is a project file whose rendered content differs from disk.
type ModifiedItem struct {
	Path string
	Diff string
}

// RenderDiff renders a project diff. added lists files the template would
// create, removed lists files on disk the template no longer produces.
func RenderDiff(added, removed []string, modified []ModifiedItem, styles *Styles) string {
	if len(added) == 0 && len(removed) == 0 && len(modified) == 0 {
		return "No changes detected."
	}
	if styles == nil {
		styles = GetStyles()
	}

	var sb strings.Builder

	writeSection := func(title, marker string, style func(...string) string, paths []string) {
		if len(paths) == 0 {
			return
		}
		sb.WriteString(style(title))
		sb.WriteString("\n")
		for _, p := range paths {
			sb.WriteString("  ")
			sb.WriteString(marker)
			sb.WriteString(" ")
			sb.WriteString(style(p))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	writeSection("Added:", "+", styles.Success.Render, added)
	writeSection("Removed:", "-", styles.Error.Render, removed)

	if len(modified) > 0 {
		sb.WriteString(styles.Warning.Render("Modified:"))
		sb.WriteString("\n")
		for _, mod := range modified {
			sb.WriteString("  ~ ")
			sb.WriteString(styles.Warning.Render(mod.Path))
			sb.WriteString("\n")
			for _, line := range strings.Split(mod.Diff, "\n") {
				if line == "" {
					continue
				}
				sb.WriteString("    ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("Summary: ")
	sb.WriteString(diffSummary(len(added), len(removed), len(modified)))
	sb.WriteString("\n")

	return sb.String()
}

func diffSummary(added, removed, modified int) string {
	if added == 0 && removed == 0 && modified == 0 {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if added > 0 {
		parts = append(parts, strconv.Itoa(added)+" added")
	}
	if removed > 0 {
		parts = append(parts, strconv.Itoa(removed)+" removed")
	}
	if modified > 0 {
		parts = append(parts, strconv.Itoa(modified)+" modified")
	}

	return strings.Join(parts, ", ")
}
