package cmdutil

import (
	"strings"

	"github.com/opmodel/pybake/internal/config"
	"github.com/opmodel/pybake/internal/options"
	"github.com/opmodel/pybake/internal/output"
	"github.com/opmodel/pybake/internal/replay"
	"github.com/opmodel/pybake/internal/templates"
)

// ResolveOpts holds the inputs for ResolveOptions.
type ResolveOpts struct {
	Flags OverrideFlags

	// Config is the loaded tool configuration. May be nil.
	Config *config.Config
}

// Resolution is a template together with its fully resolved options.
type Resolution struct {
	Template string
	Tree     *templates.Tree
	Schema   *options.Schema
	Options  options.Resolved
	Merged   options.Merged
}

// ResolveOptions loads the template named by the flags and resolves its
// options from every override layer: config default_context, the replay
// record (--replay), values files (-f, in order) and --set assignments.
func ResolveOptions(opts ResolveOpts) (*Resolution, error) {
	name := opts.Flags.Template
	if name == "" {
		name = templates.DefaultTemplateName
	}

	tree, err := templates.Load(name)
	if err != nil {
		return nil, err
	}
	schema, err := templates.Schema(name)
	if err != nil {
		return nil, err
	}

	var layers []options.Layer

	if opts.Config != nil && len(opts.Config.DefaultContext) > 0 {
		layers = append(layers, options.Layer{Source: options.SourceConfig, Values: opts.Config.DefaultContext})
	}

	if opts.Flags.Replay {
		dir := ""
		if opts.Config != nil {
			dir = opts.Config.ReplayDir
		}
		if dir == "" {
			dir = config.DefaultPaths().ReplayDir
		}
		rec, err := replay.NewStore(dir).Load(name)
		if err != nil {
			return nil, err
		}
		output.Debug("loaded replay record", "template", name, "baked_at", rec.BakedAt)
		layers = append(layers, options.Layer{Source: options.SourceReplay, Values: rec.Options})
	}

	if len(opts.Flags.Values) > 0 {
		values, err := options.NewValuesLoader(schema).LoadFiles(opts.Flags.Values...)
		if err != nil {
			return nil, err
		}
		layers = append(layers, options.Layer{Source: options.SourceValues, Values: values})
	}

	if len(opts.Flags.Set) > 0 {
		set, err := options.ParseAssignments(opts.Flags.Set)
		if err != nil {
			return nil, err
		}
		layers = append(layers, options.Layer{Source: options.SourceFlag, Values: set})
	}

	merged := options.Merge(layers...)
	for opt, shadowed := range merged.Shadowed {
		for _, l := range shadowed {
			output.Debug("option shadowed by higher precedence",
				"option", opt,
				"shadowed_source", l.Source,
				"shadowed_value", l.Values[opt],
				"source", merged.Sources[opt],
			)
		}
	}

	resolved, err := schema.Resolve(merged.Overrides)
	if err != nil {
		return nil, err
	}

	return &Resolution{
		Template: name,
		Tree:     tree,
		Schema:   schema,
		Options:  resolved,
		Merged:   merged,
	}, nil
}

// ReplayOptions returns the options worth replaying: every non-derived option,
// and derived options only when they were set explicitly. Replaying a derived
// value would otherwise pin it after its inputs change.
func (r *Resolution) ReplayOptions() map[string]string {
	out := make(map[string]string, r.Options.Len())
	for _, o := range r.Schema.Options() {
		if o.Derived() {
			if _, explicit := r.Merged.Sources[o.Name]; !explicit {
				continue
			}
		}
		out[o.Name] = r.Options.Value(o.Name)
	}
	return out
}

// OptionRows builds the option listing for the resolved options.
func (r *Resolution) OptionRows() []output.OptionRow {
	opts := r.Schema.Options()
	rows := make([]output.OptionRow, 0, len(opts))
	for _, o := range opts {
		row := output.OptionRow{
			Name:   o.Name,
			Kind:   o.Kind.String(),
			Value:  r.Options.Value(o.Name),
			Source: r.Merged.SourceOf(r.Schema, o.Name),
		}
		if len(o.Choices) > 0 {
			row.Choices = strings.Join(o.Choices, ", ")
		}
		rows = append(rows, row)
	}
	return rows
}
