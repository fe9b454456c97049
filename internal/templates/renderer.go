package templates

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/iancoleman/strcase"

	"github.com/opmodel/pybake/internal/options"
)

// YearField is the template field holding the current calendar year.
const YearField = "year"

// funcMap is available to every path and content template.
var funcMap = template.FuncMap{
	"snake":          strcase.ToSnake,
	"kebab":          strcase.ToKebab,
	"camel":          strcase.ToCamel,
	"lowerCamel":     strcase.ToLowerCamel,
	"screamingSnake": strcase.ToScreamingSnake,
	"upper":          strings.ToUpper,
	"lower":          strings.ToLower,
	"quote":          quote,
}

// quote renders s as a double-quoted string literal that TOML, YAML and
// Python all accept.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// parseTemplate parses text with the shared helpers. Missing keys fail at execution
// instead of rendering "<no value>".
func parseTemplate(name, text string) (*template.Template, error) {
	return template.New(name).
		Option("missingkey=error").
		Funcs(funcMap).
		Parse(text)
}

// Renderer executes parsed templates against one resolved configuration.
type Renderer struct {
	data map[string]any
}

// NewRenderer creates a renderer for cfg with the year taken from now.
func NewRenderer(cfg options.Resolved, now time.Time) *Renderer {
	data := make(map[string]any, cfg.Len()+1)
	for k, v := range cfg.Map() {
		data[k] = v
	}
	data[YearField] = now.Year()
	return &Renderer{data: data}
}

// Execute renders tmpl.
func (r *Renderer) Execute(tmpl *template.Template) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderString parses and renders text in one step.
func (r *Renderer) RenderString(name, text string) (string, error) {
	tmpl, err := parseTemplate(name, text)
	if err != nil {
		return "", err
	}
	out, err := r.Execute(tmpl)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
