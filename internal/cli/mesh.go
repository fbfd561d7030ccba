package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/chazu/carcass/pkg/kernel"
	"github.com/chazu/carcass/pkg/kernel/sdfx"
	"github.com/chazu/carcass/pkg/tessellate"
)

// meshOpts holds the command-line flags for the mesh command.
type meshOpts struct {
	output string // output file path; stdout when empty
	preset string // presentation preset, for mesh colors
	cells  int    // base marching cubes resolution
}

func newMeshCmd() *cobra.Command {
	opts := meshOpts{cells: sdfx.DefaultMeshCells}

	cmd := &cobra.Command{
		Use:   "mesh [file]",
		Short: "Tessellate every cabinet in a spec file into per-part meshes (JSON)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMesh(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "presentation preset for mesh colors")
	cmd.Flags().IntVar(&opts.cells, "cells", opts.cells, "marching cubes cells along a part's longest axis")

	return cmd
}

// cabinetMeshes is the wire form of one tessellated cabinet.
type cabinetMeshes struct {
	Name   string         `json:"name"`
	Build  uuid.UUID      `json:"build"`
	Meshes []*kernel.Mesh `json:"meshes"`
}

func runMesh(ctx context.Context, stdout io.Writer, path string, opts meshOpts) error {
	if opts.cells <= 0 {
		return fmt.Errorf("--cells must be positive, got %d", opts.cells)
	}

	results, err := buildFile(ctx, path, opts.preset)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	k := sdfx.New(sdfx.WithMeshCells(opts.cells))

	out := make([]cabinetMeshes, 0, len(results))
	triangles := 0
	for _, r := range results {
		meshes, err := tessellate.Tessellate(r.Scene, k)
		if err != nil {
			return fmt.Errorf("cabinet %q: %w", r.Spec.Name, err)
		}
		for _, m := range meshes {
			triangles += m.TriangleCount()
		}
		logger.Debug("tessellated cabinet", "build", r.Scene.ID, "cabinet", r.Spec.Name, "meshes", len(meshes))
		out = append(out, cabinetMeshes{Name: r.Layout.Envelope.Name, Build: r.Scene.ID, Meshes: meshes})
	}

	if opts.output == "" {
		if err := writeJSON(stdout, out); err != nil {
			return err
		}
	} else if err := writeMeshFile(opts.output, out); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Tessellated %d cabinets (%d triangles)", len(out), triangles))
	return nil
}

func writeMeshFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
