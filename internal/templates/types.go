// Package templates holds the embedded project templates and materializes
// them into concrete project trees.
package templates

import (
	"io/fs"
	"path"
	"sort"
)

// Template describes a registered project template.
type Template struct {
	// Name is the template identifier passed to --template.
	Name string

	// Description explains what the template produces.
	Description string

	// Default marks the template used when --template is omitted.
	Default bool
}

// Entry is one file or directory of a template tree.
type Entry struct {
	// Path is the slash-separated output path. It may contain placeholders
	// such as {{ .package_name }}.
	Path string

	// Dir marks a directory entry.
	Dir bool

	// Source is the asset path of a file entry within the tree's filesystem.
	Source string

	// Mode is the file mode. Zero means 0o644 for files and 0o755 for directories.
	Mode fs.FileMode

	// When gates the entry. nil means always included.
	When *Condition

	// Description is shown next to the file in bake output.
	Description string
}

func (e Entry) mode() fs.FileMode {
	switch {
	case e.Mode != 0:
		return e.Mode
	case e.Dir:
		return 0o755
	default:
		return 0o644
	}
}

// WrittenFile is a file produced by materialization.
type WrittenFile struct {
	// Path is relative to the output root.
	Path        string
	Description string
	Size        int
}

// MaterializedTree lists what a materialization wrote. It is owned by the
// caller; nothing tracks the files afterwards.
type MaterializedTree struct {
	// Root is the output root the paths are relative to.
	Root string

	// ProjectDir is the rendered top-level project directory.
	ProjectDir string

	Dirs  []string
	Files []WrittenFile

	// DryRun is set when nothing was written to disk.
	DryRun bool
}

// Has reports whether rel (relative to Root) was written as a file.
func (m *MaterializedTree) Has(rel string) bool {
	for _, f := range m.Files {
		if f.Path == rel {
			return true
		}
	}
	return false
}

// FileMap returns project-relative file paths mapped to their descriptions.
// Directories that received no files are included with a trailing slash.
func (m *MaterializedTree) FileMap() map[string]string {
	out := make(map[string]string, len(m.Files))
	populated := make(map[string]bool)

	for _, f := range m.Files {
		rel := projectRelative(m.ProjectDir, f.Path)
		out[rel] = f.Description
		for d := path.Dir(rel); d != "."; d = path.Dir(d) {
			populated[d] = true
		}
	}
	for _, d := range m.Dirs {
		rel := projectRelative(m.ProjectDir, d)
		if rel == "." || populated[rel] {
			continue
		}
		out[rel+"/"] = ""
	}
	return out
}

// FilePaths returns the written file paths in sorted order.
func (m *MaterializedTree) FilePaths() []string {
	paths := make([]string, len(m.Files))
	for i, f := range m.Files {
		paths[i] = f.Path
	}
	sort.Strings(paths)
	return paths
}

func projectRelative(projectDir, p string) string {
	if p == projectDir {
		return "."
	}
	if len(p) > len(projectDir) && p[:len(projectDir)] == projectDir && p[len(projectDir)] == '/' {
		return p[len(projectDir)+1:]
	}
	return p
}
