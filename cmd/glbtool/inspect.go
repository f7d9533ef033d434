package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/glbkit/internal/logger"
	"github.com/Faultbox/glbkit/pkg/glb"
)

func cmdInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	skip := decodeFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool inspect [-skip LIST] <file.glb>")
		return 1
	}

	path := fs.Arg(0)
	if err := inspect(os.Stdout, path, decodeOptions(path, *skip)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func inspect(w io.Writer, path string, opts glb.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c, err := glb.Parse(data)
	if err != nil {
		return err
	}
	asset, err := glb.DecodeContainer(c, opts)
	if err != nil {
		return err
	}

	doc := c.Document
	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Size:       %d bytes (binary %d)\n", len(data), len(c.Binary))
	fmt.Fprintf(w, "Generator:  %s\n", doc.Asset.Generator)
	fmt.Fprintf(w, "Meshes:     %d\n", len(doc.Meshes))
	fmt.Fprintf(w, "Primitives: %d\n", len(asset.Primitives))

	for _, p := range asset.Primitives {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "mesh %d primitive %d\n", p.Mesh, p.Index)
		fmt.Fprintf(w, "  mode:     %s\n", p.Mode)
		fmt.Fprintf(w, "  vertices: %d (stride %d floats)\n", p.Vertices.VertexCount, p.Vertices.Stride)
		fmt.Fprintf(w, "  indices:  %d\n", len(p.Indices.Data))
		fmt.Fprintf(w, "  layout:   %s\n", layout(p.Vertices))
		if p.Texture != nil {
			fmt.Fprintf(w, "  texture:  %s\n", p.Texture.URL)
		}
	}
	return nil
}

func layout(vb *glb.VertexBuffer) string {
	parts := make([]string, len(vb.Format))
	for i, f := range vb.Format {
		parts[i] = fmt.Sprintf("%s@%d[slot %d, %d]", f.Semantic, f.Offset, f.Slot, f.Size)
	}
	return strings.Join(parts, " ")
}

func cmdValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	skip := decodeFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool validate [-skip LIST] <file.glb>...")
		return 1
	}

	err := validate(fs.Args(), *skip)
	errs := multierr.Errors(err)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "FAIL %v\n", e)
	}
	fmt.Printf("%d files, %d failed\n", fs.NArg(), len(errs))

	if err != nil {
		return 1
	}
	return 0
}

// validate decodes every file and returns all failures combined.
func validate(paths []string, skip string) error {
	var errs error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err == nil {
			_, err = glb.Decode(data, decodeOptions(path, skip))
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		logger.Debug("valid", zap.String("path", path))
	}
	return errs
}
