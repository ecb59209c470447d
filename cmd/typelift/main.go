// Package main provides the CLI entry point for typelift, a tool that
// generates Python type declarations (or a JSON Schema) from a JSON or YAML
// sample document.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/typelift/infer"
	"go.jacobcolvin.com/typelift/log"
	"go.jacobcolvin.com/typelift/profiler"
	"go.jacobcolvin.com/typelift/pygen"
	"go.jacobcolvin.com/typelift/version"
)

var (
	errReadInput   = errors.New("read input")
	errWriteOutput = errors.New("write output")
)

type options struct {
	gen  *pygen.Config
	log  *log.Config
	prof profiler.Profiler

	rootName      string
	output        string
	noMergeMaps   bool
	noMergeUnions bool
}

func main() {
	opts := &options{
		gen:  pygen.NewConfig(),
		log:  log.NewConfig(),
		prof: profiler.New(),
	}

	rootCmd := &cobra.Command{
		Use:   "typelift [flags] [sample-file]",
		Short: "Generate Python type declarations from a JSON or YAML sample",
		Long: `typelift infers a typed data model from a single JSON or YAML sample
document and emits static type declarations for it: Python dataclasses,
pydantic models, TypedDicts, or a JSON Schema. Reads from stdin when no file
(or -) is given.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			handler, err := opts.log.NewHandler(os.Stderr)
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(handler))

			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	opts.gen.RegisterFlags(rootCmd.Flags())
	opts.log.RegisterFlags(rootCmd.PersistentFlags())
	opts.prof.RegisterFlags(rootCmd.Flags())

	rootCmd.Flags().StringVar(&opts.rootName, "root-name", "",
		"name hint for the root type")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "-",
		"output file path (- for stdout)")
	rootCmd.Flags().BoolVar(&opts.noMergeMaps, "no-merge-maps", false,
		"keep structurally similar record types separate")
	rootCmd.Flags().BoolVar(&opts.noMergeUnions, "no-merge-unions", false,
		"keep duplicate unions separate")

	for _, register := range []func(*cobra.Command) error{
		opts.gen.RegisterCompletions,
		opts.log.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
		}
	}

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(opts *options, args []string) error {
	target, err := opts.gen.NewTarget()
	if err != nil {
		return err
	}

	err = opts.prof.Start()
	if err != nil {
		return err
	}

	defer func() {
		stopErr := opts.prof.Stop()
		if stopErr != nil {
			slog.Error("stopping profiler", slog.Any("error", stopErr))
		}
	}()

	data, err := readInput(args)
	if err != nil {
		return err
	}

	schema, err := infer.FromBytes(data, opts.rootName)
	if err != nil {
		return err
	}

	slog.Debug("inferred schema", slog.Int("types", schema.Arena.Len()))

	optimizer := infer.Optimizer{
		MergeSimilarMaps: !opts.noMergeMaps,
		MergeEqualUnions: !opts.noMergeUnions,
	}
	optimizer.Optimize(schema)

	slog.Debug("optimized schema", slog.Int("types", schema.Arena.Len()))

	out, err := pygen.Generate(target, schema)
	if err != nil {
		return err
	}

	return writeOutput(opts.output, []byte(out.Render()))
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", errReadInput, err)
		}

		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadInput, err)
	}

	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		if err != nil {
			return fmt.Errorf("%w: %w", errWriteOutput, err)
		}

		return nil
	}

	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}

	return nil
}
