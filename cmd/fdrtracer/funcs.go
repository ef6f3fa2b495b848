package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolkov/fdrtracer/cmd/fdrtracer/instrument"
)

func newFuncsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funcs [path ...]",
		Short: "List the functions instrument would hook",
		Long: `Funcs runs the same selection as instrument but writes nothing. It
prints one line per selected function with the ID it would be assigned,
its source position, and its qualified name, making it easy to tune
--min-statements and the attribute list before rewriting a tree.`,
		Example: `  fdrtracer funcs ./internal
  fdrtracer funcs --min-statements 5 --attr-list attrs.yaml ./...`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFuncs,
	}

	cmd.Flags().String("attr-list", "", "YAML file of never/always instrumentation patterns")
	cmd.Flags().Int("min-statements", 1, "skip functions whose bodies hold fewer statements")
	return cmd
}

func runFuncs(cmd *cobra.Command, args []string) error {
	attrPath, _ := cmd.Flags().GetString("attr-list")
	minStatements, _ := cmd.Flags().GetInt("min-statements")

	var attrs *instrument.AttrList
	if attrPath != "" {
		var err error
		if attrs, err = instrument.LoadAttrList(attrPath); err != nil {
			return err
		}
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no Go files found")
	}

	in := instrument.New(instrument.Options{
		MinStatements: minStatements,
		Attrs:         attrs,
	})

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if _, err := in.File(file, src); err != nil {
			if errors.Is(err, instrument.ErrAlreadyInstrumented) {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: already instrumented\n", file)
				continue
			}
			return err
		}
	}

	for _, f := range in.Funcs() {
		fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s:%d  %s\n", f.ID, f.File, f.Line, f.Function)
	}
	return nil
}
