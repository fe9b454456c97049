package options

import "fmt"

// Option names used by the built-in Python package template.
const (
	FullName                = "full_name"
	Email                   = "email"
	GithubUsername          = "github_username"
	ProjectName             = "project_name"
	ProjectNameSlug         = "project_name_slug"
	PackageName             = "package_name"
	ProjectShortDescription = "project_short_description"
	Version                 = "version"
	CreateAuthorFile        = "create_author_file"
	License                 = "license"
	CommandLineInterface    = "command_line_interface"
)

// Licenses lists the accepted license identifiers. "no" omits the license.
var Licenses = []string{"MIT", "BSD-3-Clause", "ISC", "Apache-2.0", "GPL-3.0-only", "no"}

// CLI frameworks for the generated entry point.
const (
	CLINone     = "no"
	CLIClick    = "click"
	CLIArgparse = "argparse"
)

var defaultSchema = MustSchema(
	Option{
		Name:    FullName,
		Default: "Your Name",
		Help:    "Author name used in the license, manifest and credits",
	},
	Option{
		Name:    Email,
		Default: "you@example.com",
		Help:    "Author email address",
	},
	Option{
		Name:    GithubUsername,
		Default: "your-github-username",
		Help:    "GitHub account that hosts the repository",
	},
	Option{
		Name:    ProjectName,
		Default: "Python Project",
		Help:    "Human-readable project name",
	},
	Option{
		Name:      ProjectNameSlug,
		DependsOn: []string{ProjectName},
		Derive: func(get func(string) string) string {
			return Slugify(get(ProjectName), '-')
		},
		Validate: validateSlug,
		Help:     "Distribution and directory name, derived from project_name",
	},
	Option{
		Name:      PackageName,
		DependsOn: []string{ProjectNameSlug},
		Derive: func(get func(string) string) string {
			return Slugify(get(ProjectNameSlug), '_')
		},
		Validate: validatePackageName,
		Help:     "Importable package name, derived from project_name_slug",
	},
	Option{
		Name:    ProjectShortDescription,
		Default: "Python Boilerplate contains all the boilerplate you need to create a Python package.",
		Help:    "One-line summary for the manifest and README",
	},
	Option{
		Name:    Version,
		Default: "0.1.0",
		Help:    "Initial release version",
	},
	Option{
		Name:    CreateAuthorFile,
		Kind:    KindChoice,
		Default: "y",
		Choices: []string{"y", "n"},
		Help:    "Generate AUTHORS.md and the docs credits page",
	},
	Option{
		Name:    License,
		Kind:    KindChoice,
		Default: "MIT",
		Choices: Licenses,
		Help:    "Open source license, or no to omit it",
	},
	Option{
		Name:    CommandLineInterface,
		Kind:    KindChoice,
		Default: CLIClick,
		Choices: []string{CLINone, CLIClick, CLIArgparse},
		Help:    "Framework for the generated cli.py entry point",
	},
)

// DefaultSchema returns the schema of the built-in Python package template.
func DefaultSchema() *Schema {
	return defaultSchema
}

func validateSlug(v string) error {
	if v == "" {
		return fmt.Errorf("slug is empty; project_name must contain at least one letter or digit")
	}
	if Slugify(v, '-') != v {
		return fmt.Errorf("%q is not a slug (want %q)", v, Slugify(v, '-'))
	}
	return nil
}

func validatePackageName(v string) error {
	if !IsPythonIdentifier(v) {
		return fmt.Errorf("%q is not a valid Python identifier", v)
	}
	return nil
}
