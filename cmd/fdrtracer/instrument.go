package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kolkov/fdrtracer/cmd/fdrtracer/instrument"
)

func newInstrumentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument [path ...]",
		Short: "Insert tracing hooks into Go source files",
		Long: `Instrument parses the given Go files or directories and inserts
fdr.Enter / fdr.Exit hooks into every selected function, assigning each a
stable numeric ID. By default the instrumented source of a single file is
printed to stdout; pass --write to rewrite files in place or --output to
mirror the instrumented tree under another directory.

Pair --funcmap with either mode to capture the ID-to-function mapping;
trace analysis needs it to name the recorded functions.`,
		Example: `  # Preview one file's instrumented form
  fdrtracer instrument main.go

  # Instrument a tree in place and keep the decoder ring
  fdrtracer instrument --write --funcmap funcmap.yaml ./internal

  # Leave the source untouched, build from a mirrored tree
  fdrtracer instrument --output build/traced --funcmap funcmap.yaml ./cmd ./internal`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInstrument,
	}

	cmd.Flags().Bool("write", false, "rewrite source files in place")
	cmd.Flags().String("output", "", "write instrumented files under this directory, mirroring relative paths")
	cmd.Flags().String("funcmap", "", "write the ID-to-function map to this YAML file")
	cmd.Flags().String("attr-list", "", "YAML file of never/always instrumentation patterns")
	cmd.Flags().Int("min-statements", 1, "skip functions whose bodies hold fewer statements")
	return cmd
}

func runInstrument(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	outputDir, _ := cmd.Flags().GetString("output")
	funcmapPath, _ := cmd.Flags().GetString("funcmap")
	attrPath, _ := cmd.Flags().GetString("attr-list")
	minStatements, _ := cmd.Flags().GetInt("min-statements")

	if write && outputDir != "" {
		return errors.New("--write and --output are mutually exclusive")
	}

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
	if !write && outputDir == "" && len(files) > 1 {
		return fmt.Errorf("%d files selected; use --write or --output to instrument more than one", len(files))
	}

	in := instrument.New(instrument.Options{
		MinStatements: minStatements,
		Attrs:         attrs,
	})

	sources := make(map[string][]byte)
	var skipped int
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return err
		}

		res, err := in.File(file, src)
		if errors.Is(err, instrument.ErrAlreadyInstrumented) {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: already instrumented\n", file)
			continue
		}
		if err != nil {
			return err
		}
		skipped += res.Stats.Total() - res.Stats.Instrumented
		if len(res.Funcs) > 0 {
			sources[file] = src
		}

		switch {
		case write:
			if err := overwrite(file, res.Code); err != nil {
				return err
			}
		case outputDir != "":
			if filepath.IsAbs(file) {
				return fmt.Errorf("--output mirrors relative paths; %s is absolute", file)
			}
			dst := filepath.Join(outputDir, file)
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(dst, []byte(res.Code), 0o644); err != nil {
				return err
			}
		default:
			fmt.Fprint(cmd.OutOrStdout(), res.Code)
		}
	}

	funcs := in.Funcs()
	if funcmapPath != "" {
		m := instrument.NewFuncMap(filepath.Dir(files[0]), funcs, sources)
		if err := m.Write(funcmapPath); err != nil {
			return err
		}
	}

	if write || outputDir != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "instrumented %d functions across %d files (%d functions skipped)\n",
			len(funcs), len(sources), skipped)
	}
	return nil
}

// overwrite rewrites a source file keeping its permission bits.
func overwrite(path, code string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(code), info.Mode().Perm())
}
