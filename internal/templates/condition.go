package templates

import (
	"fmt"
	"slices"
	"strings"

	"github.com/opmodel/pybake/internal/options"
)

// Condition is an inclusion predicate over a resolved configuration: the
// value of Option is (or with Negate, is not) one of In.
type Condition struct {
	Option string
	In     []string
	Negate bool
}

// When includes an entry when option has one of values.
func When(option string, values ...string) *Condition {
	return &Condition{Option: option, In: values}
}

// Unless includes an entry when option has none of values.
func Unless(option string, values ...string) *Condition {
	return &Condition{Option: option, In: values, Negate: true}
}

// Eval reports whether the condition holds for cfg. A nil condition always holds.
func (c *Condition) Eval(cfg options.Resolved) bool {
	if c == nil {
		return true
	}
	return slices.Contains(c.In, cfg.Value(c.Option)) != c.Negate
}

// Check verifies the condition only names declared options and allowed values.
func (c *Condition) Check(schema *options.Schema) error {
	if c == nil {
		return nil
	}
	o, ok := schema.Lookup(c.Option)
	if !ok {
		return fmt.Errorf("condition references unknown option %q", c.Option)
	}
	if len(c.In) == 0 {
		return fmt.Errorf("condition on %q lists no values", c.Option)
	}
	for _, v := range c.In {
		if !o.Allows(v) {
			return fmt.Errorf("condition compares %q with %q, which is not an allowed value", c.Option, v)
		}
	}
	return nil
}

func (c *Condition) String() string {
	if c == nil {
		return "always"
	}
	op := "in"
	if c.Negate {
		op = "not in"
	}
	if len(c.In) == 1 {
		op = "=="
		if c.Negate {
			op = "!="
		}
		return fmt.Sprintf("%s %s %s", c.Option, op, c.In[0])
	}
	return fmt.Sprintf("%s %s [%s]", c.Option, op, strings.Join(c.In, ", "))
}
