package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/glbkit/internal/logger"
	"github.com/Faultbox/glbkit/pkg/glb"
)

func cmdPack(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool pack <in.gltf> <out.glb>")
		return 1
	}

	if err := pack(args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// pack converts a glTF document into a binary container. All buffers are
// merged into the binary chunk; image URIs stay external.
func pack(in, out string) error {
	doc, err := gltf.Open(in)
	if err != nil {
		return fmt.Errorf("opening %s: %w", in, err)
	}

	if err := mergeBuffers(doc); err != nil {
		return err
	}

	if err := gltf.SaveBinary(doc, out); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	// The result must load through the same pipeline the engine uses.
	data, err := os.ReadFile(out)
	if err != nil {
		return err
	}
	asset, err := glb.Decode(data, glb.DefaultOptions(glb.BasePath(out)))
	if err != nil {
		return fmt.Errorf("packed file does not decode: %w", err)
	}

	logger.Info("packed",
		zap.String("in", in),
		zap.String("out", out),
		zap.Int("bytes", len(data)),
		zap.Int("primitives", len(asset.Primitives)),
	)
	fmt.Printf("Packed: %s (%d bytes, %d primitives)\n", out, len(data), len(asset.Primitives))
	return nil
}

// mergeBuffers concatenates every buffer into buffer 0, 4-byte aligned, and
// rewrites buffer views to point into it.
func mergeBuffers(doc *gltf.Document) error {
	if len(doc.Buffers) == 0 {
		return errors.New("document has no buffers")
	}

	offsets := make([]int, len(doc.Buffers))
	var merged []byte
	for i, b := range doc.Buffers {
		if len(b.Data) < b.ByteLength {
			return fmt.Errorf("buffer %d: data not loaded (%d of %d bytes)", i, len(b.Data), b.ByteLength)
		}
		for len(merged)%4 != 0 {
			merged = append(merged, 0)
		}
		offsets[i] = len(merged)
		merged = append(merged, b.Data[:b.ByteLength]...)
	}

	for i, v := range doc.BufferViews {
		if v.Buffer < 0 || v.Buffer >= len(doc.Buffers) {
			return fmt.Errorf("buffer view %d: buffer %d out of range", i, v.Buffer)
		}
		v.ByteOffset += offsets[v.Buffer]
		v.Buffer = 0
	}

	doc.Buffers = []*gltf.Buffer{{ByteLength: len(merged), Data: merged}}
	return nil
}
