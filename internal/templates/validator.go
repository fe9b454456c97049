package templates

import (
	"fmt"
	"path"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/opmodel/pybake/internal/options"
)

// references is what a template reads from its data.
type references struct {
	fields []string

	// compared maps a field to the string literals it is compared with
	// through eq or ne.
	compared map[string][]string

	unsupported []string
}

func inspect(t *template.Template) references {
	refs := references{compared: make(map[string][]string)}
	if t.Tree != nil {
		refs.walk(t.Tree.Root)
	}
	for _, assoc := range t.Templates() {
		if assoc.Name() != t.Name() {
			refs.unsupported = append(refs.unsupported, "define "+assoc.Name())
		}
	}
	return refs
}

func (r *references) walk(n parse.Node) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			r.walk(c)
		}
	case *parse.ActionNode:
		r.pipe(n.Pipe)
	case *parse.IfNode:
		r.pipe(n.Pipe)
		r.walk(n.List)
		r.walk(n.ElseList)
	case *parse.RangeNode:
		r.unsupported = append(r.unsupported, "range")
	case *parse.WithNode:
		r.unsupported = append(r.unsupported, "with")
	case *parse.TemplateNode:
		r.unsupported = append(r.unsupported, "template "+n.Name)
	}
}

func (r *references) pipe(p *parse.PipeNode) {
	if p == nil {
		return
	}
	for _, cmd := range p.Cmds {
		r.command(cmd)
	}
}

func (r *references) command(cmd *parse.CommandNode) {
	var fields, literals []string

	for _, arg := range cmd.Args {
		switch a := arg.(type) {
		case *parse.FieldNode:
			fields = append(fields, a.Ident[0])
		case *parse.VariableNode:
			if len(a.Ident) > 1 && a.Ident[0] == "$" {
				fields = append(fields, a.Ident[1])
			}
		case *parse.StringNode:
			literals = append(literals, a.Text)
		case *parse.PipeNode:
			r.pipe(a)
		case *parse.ChainNode:
			if p, ok := a.Node.(*parse.PipeNode); ok {
				r.pipe(p)
			}
		}
	}
	r.fields = append(r.fields, fields...)

	if len(cmd.Args) == 0 {
		return
	}
	if id, ok := cmd.Args[0].(*parse.IdentifierNode); ok && (id.Ident == "eq" || id.Ident == "ne") {
		for _, f := range fields {
			r.compared[f] = append(r.compared[f], literals...)
		}
	}
}

// checkReferences fails when t reads a field the schema does not declare or
// compares a choice option with a value it can never take.
func checkReferences(t *template.Template, schema *options.Schema) error {
	refs := inspect(t)

	if len(refs.unsupported) > 0 {
		return fmt.Errorf("unsupported template action %q", refs.unsupported[0])
	}

	for _, f := range refs.fields {
		if f != YearField && !schema.Has(f) {
			return fmt.Errorf("template references unknown field %q", f)
		}
	}

	for f, lits := range refs.compared {
		o, ok := schema.Lookup(f)
		if !ok || o.Kind != options.KindChoice {
			continue
		}
		for _, lit := range lits {
			if !o.Allows(lit) {
				return fmt.Errorf("template compares %q with %q, which is not an allowed value", f, lit)
			}
		}
	}
	return nil
}

// cleanRelative validates a rendered entry path. The result is always inside
// the output root.
func cleanRelative(rendered string) (string, error) {
	if rendered == "" {
		return "", fmt.Errorf("path renders to an empty string")
	}
	if strings.ContainsRune(rendered, '\\') {
		return "", fmt.Errorf("path %q contains a backslash", rendered)
	}
	if path.IsAbs(rendered) {
		return "", fmt.Errorf("path %q is absolute", rendered)
	}
	for _, seg := range strings.Split(rendered, "/") {
		switch seg {
		case "":
			return "", fmt.Errorf("path %q has an empty segment", rendered)
		case ".", "..":
			return "", fmt.Errorf("path %q escapes the output root", rendered)
		}
	}
	return path.Clean(rendered), nil
}
