package templates

import (
	"embed"
	"io/fs"

	"github.com/opmodel/pybake/internal/options"
)

//go:embed all:pypackage
var pypackageFS embed.FS

func pypackageFiles() (fs.FS, error) {
	return fs.Sub(pypackageFS, "pypackage")
}

const (
	projectRoot = "{{ .project_name_slug }}"
	packageRoot = projectRoot + "/{{ .package_name }}"
)

// pypackageEntries is the Python package layout in parents-first order.
func pypackageEntries() []Entry {
	return []Entry{
		{Path: projectRoot, Dir: true},
		{
			Path:        projectRoot + "/pyproject.toml",
			Source:      "pyproject.toml.tmpl",
			Description: "Packaging manifest",
		},
		{
			Path:        projectRoot + "/README.md",
			Source:      "README.md.tmpl",
			Description: "Project overview",
		},
		{
			Path:        projectRoot + "/LICENSE",
			Source:      "LICENSE.tmpl",
			When:        Unless(options.License, "no"),
			Description: "License text",
		},
		{
			Path:        projectRoot + "/AUTHORS.md",
			Source:      "AUTHORS.md.tmpl",
			When:        When(options.CreateAuthorFile, "y"),
			Description: "Author credits",
		},
		{
			Path:        projectRoot + "/mkdocs.yml",
			Source:      "mkdocs.yml.tmpl",
			Description: "Documentation site config",
		},
		{
			Path:   projectRoot + "/.gitignore",
			Source: "gitignore.tmpl",
		},
		{Path: projectRoot + "/docs", Dir: true},
		{
			Path:        projectRoot + "/docs/index.md",
			Source:      "docs/index.md.tmpl",
			Description: "Documentation home",
		},
		{
			Path:   projectRoot + "/docs/usage.md",
			Source: "docs/usage.md.tmpl",
		},
		{
			Path:   projectRoot + "/docs/authors.md",
			Source: "docs/authors.md.tmpl",
			When:   When(options.CreateAuthorFile, "y"),
		},
		{Path: packageRoot, Dir: true},
		{
			Path:        packageRoot + "/__init__.py",
			Source:      "package/__init__.py.tmpl",
			Description: "Package metadata",
		},
		{
			Path:        packageRoot + "/cli.py",
			Source:      "package/cli.py.tmpl",
			When:        Unless(options.CommandLineInterface, options.CLINone),
			Description: "Console entry point",
		},
		{Path: projectRoot + "/tests", Dir: true},
		{
			Path:   projectRoot + "/tests/__init__.py",
			Source: "tests/__init__.py.tmpl",
		},
		{
			Path:        projectRoot + "/tests/test_{{ .package_name }}.py",
			Source:      "tests/test_package.py.tmpl",
			Description: "Unit tests",
		},
	}
}
