package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/carcass/pkg/config"
	"github.com/chazu/carcass/pkg/engine"
	"github.com/chazu/carcass/pkg/scene"
	"github.com/chazu/carcass/pkg/style"
)

const (
	formatTree = "tree" // lipgloss-rendered node tree
	formatJSON = "json" // nested scene JSON
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	format string // output format: "tree" or "json"
	preset string // presentation preset; overrides the file's [preview] style
}

func newBuildCmd() *cobra.Command {
	opts := buildOpts{format: formatTree}

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Build every cabinet in a spec file and print its scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: tree or json")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "presentation preset ("+strings.Join(style.Names(), ", ")+")")

	return cmd
}

func runBuild(ctx context.Context, w io.Writer, path string, opts buildOpts) error {
	if opts.format != formatTree && opts.format != formatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatTree, formatJSON)
	}

	results, err := buildFile(ctx, path, opts.preset)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		return writeJSON(w, buildsJSON(results))
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, renderScene(r))
	}
	return nil
}

// buildFile loads the spec file at path and builds every cabinet in it.
// A non-empty preset overrides the file's preview style.
func buildFile(ctx context.Context, path, preset string) ([]*engine.BuildResult, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	f, err := config.Load(path, config.WithEvaluator(engine.NewEngine(engine.WithLogger(logger))))
	if err != nil {
		return nil, err
	}
	if preset != "" {
		f.Preview.Style = preset
	}
	pres, err := f.Preset()
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngine(engine.WithLogger(logger), engine.WithPreset(pres))
	results, err := eng.BuildAll(f.Cabinets)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		for _, warn := range r.Warnings {
			logger.Warn("scene finding", "cabinet", r.Spec.Name, "finding", warn)
		}
	}

	prog.done(fmt.Sprintf("Built %d cabinets from %s", len(results), path))
	return results, nil
}

// buildJSON is the wire form of one build.
type buildJSON struct {
	Name     string       `json:"name"`
	Style    string       `json:"style"`
	Fallback string       `json:"fallback,omitempty"`
	Scene    *scene.Scene `json:"scene"`
	Warnings []string     `json:"warnings,omitempty"`
}

func buildsJSON(results []*engine.BuildResult) []buildJSON {
	out := make([]buildJSON, len(results))
	for i, r := range results {
		b := buildJSON{
			Name:     r.Layout.Envelope.Name,
			Style:    r.Layout.Envelope.Style.String(),
			Fallback: string(r.Layout.Fallback),
			Scene:    r.Scene,
		}
		for _, warn := range r.Warnings {
			b.Warnings = append(b.Warnings, warn.Error())
		}
		out[i] = b
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
