package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Output formats for grid results.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSS   = "css"
)

// choiceValue is a string flag restricted to a fixed set of values.
type choiceValue struct {
	value   string
	choices []string
}

var _ pflag.Value = (*choiceValue)(nil)

func newChoiceValue(def string, choices ...string) *choiceValue {
	return &choiceValue{value: def, choices: choices}
}

func (c *choiceValue) String() string { return c.value }

func (c *choiceValue) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if !slices.Contains(c.choices, v) {
		return fmt.Errorf("must be one of %s", strings.Join(c.choices, ", "))
	}
	c.value = v
	return nil
}

func (c *choiceValue) Type() string { return "string" }

// addConfigFlag registers the shared --config flag.
func addConfigFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "config", "c", "", "palette file (default: huegrid.{yaml,yml,toml,json} in this or a parent directory, or $HUEGRID_CONFIG)")
}

// addIsolatedFlag registers the shared --isolated flag.
func addIsolatedFlag(fs *pflag.FlagSet, target *bool) {
	fs.BoolVar(target, "isolated", false, "compute in a separate worker process")
}
