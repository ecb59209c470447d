package pygen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrInvalidOption indicates an unknown target or quote style.
var ErrInvalidOption = errors.New("invalid option")

// Target names accepted by [Config.NewTarget].
const (
	TargetDataclass         = "dataclass"
	TargetDataclassJSON     = "dataclass-json"
	TargetPydantic          = "pydantic"
	TargetPydanticDataclass = "pydantic-dataclass"
	TargetTypedDict         = "typeddict"
	TargetTypedDictInline   = "typeddict-inline"
	TargetJSONSchema        = "jsonschema"
)

// TargetNames lists every accepted target name.
func TargetNames() []string {
	return []string{
		TargetDataclass,
		TargetDataclassJSON,
		TargetPydantic,
		TargetPydanticDataclass,
		TargetTypedDict,
		TargetTypedDictInline,
		TargetJSONSchema,
	}
}

// Flags holds CLI flag names for emitter configuration, allowing callers to
// customize flag names while keeping sensible defaults.
type Flags struct {
	Target      string
	Indent      string
	Quote       string
	AliasUnions string
	Nest        string
	Title       string
	ID          string
}

// Config holds CLI flag values for emitter configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewTarget] to create a [Target].
type Config struct {
	Flags       Flags
	Target      string
	Indent      int
	Quote       string
	AliasUnions bool
	Nest        bool
	Title       string
	ID          string
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Target:      "target",
			Indent:      "indent",
			Quote:       "quote",
			AliasUnions: "alias-unions",
			Nest:        "nest",
			Title:       "title",
			ID:          "id",
		},
	}
}

// RegisterFlags adds emitter flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Target, c.Flags.Target, "t", TargetDataclass,
		"output dialect: "+joinNames())
	flags.IntVar(&c.Indent, c.Flags.Indent, 4,
		"indentation spaces for class targets (0 for tabs)")
	flags.StringVar(&c.Quote, c.Flags.Quote, "double",
		"string quoting style for typeddict-inline (single or double)")
	flags.BoolVar(&c.AliasUnions, c.Flags.AliasUnions, false,
		"generate named type aliases for unions")
	flags.BoolVar(&c.Nest, c.Flags.Nest, false,
		"inline single-reference types instead of naming them (typeddict-inline)")
	flags.StringVar(&c.Title, c.Flags.Title, "",
		"schema title field (jsonschema)")
	flags.StringVar(&c.ID, c.Flags.ID, "",
		"schema $id field (jsonschema)")
}

// RegisterCompletions registers shell completions for emitter flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Target,
		cobra.FixedCompletions(TargetNames(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Target, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Quote,
		cobra.FixedCompletions([]string{"single", "double"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Quote, err)
	}

	return nil
}

// NewTarget creates a [Target] using this [Config].
func (c *Config) NewTarget() (Target, error) {
	if !slices.Contains(TargetNames(), c.Target) {
		return nil, fmt.Errorf("%w: unknown target %q", ErrInvalidOption, c.Target)
	}

	indent := Tab
	if c.Indent > 0 {
		indent = Spaces(c.Indent)
	}

	var quote Quote

	switch c.Quote {
	case "", "double":
		quote = QuoteDouble
	case "single":
		quote = QuoteSingle
	default:
		return nil, fmt.Errorf("%w: unknown quote style %q", ErrInvalidOption, c.Quote)
	}

	switch c.Target {
	case TargetDataclass:
		return PythonClass{Kind: Dataclass, AliasUnions: c.AliasUnions, Indent: indent}, nil
	case TargetDataclassJSON:
		return PythonClass{Kind: DataclassJSON, AliasUnions: c.AliasUnions, Indent: indent}, nil
	case TargetPydantic:
		return PythonClass{Kind: PydanticModel, AliasUnions: c.AliasUnions, Indent: indent}, nil
	case TargetPydanticDataclass:
		return PythonClass{Kind: PydanticDataclass, AliasUnions: c.AliasUnions, Indent: indent}, nil
	case TargetTypedDict:
		return PythonClass{Kind: TypedDictClass, AliasUnions: c.AliasUnions, Indent: indent}, nil
	case TargetTypedDictInline:
		return PythonTypedDict{Quote: quote, AliasUnions: c.AliasUnions, NestWhenPossible: c.Nest}, nil
	case TargetJSONSchema:
		return JSONSchema{Title: c.Title, ID: c.ID}, nil
	}

	return nil, fmt.Errorf("%w: unknown target %q", ErrInvalidOption, c.Target)
}

func joinNames() string {
	out := ""

	for n, name := range TargetNames() {
		if n > 0 {
			out += ", "
		}

		out += name
	}

	return out
}
