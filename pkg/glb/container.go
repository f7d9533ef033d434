// Package glb decodes binary glTF containers into GPU-ready vertex and index buffers.
//
// The pipeline is Parse (container envelope) -> Resolver (typed accessor views) ->
// Interleave (one float buffer per primitive) -> NormalizeIndices (16-bit indices) ->
// ResolveTexture (base color texture reference). Decode runs all of it for every primitive.
package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
)

// Container constants.
const (
	Magic   uint32 = 0x46546C67 // "glTF"
	Version uint32 = 2

	ChunkJSON uint32 = 0x4E4F534A // "JSON"
	ChunkBIN  uint32 = 0x004E4942 // "BIN\0"

	headerSize      = 12
	chunkHeaderSize = 8
)

// Container is a parsed binary glTF envelope.
type Container struct {
	Version  uint32
	Document *Document
	// Binary is a view into the input buffer, nil when the container has no BIN chunk.
	Binary []byte
}

// Parse decodes the container envelope and its metadata document.
// The returned Binary block aliases data.
func Parse(data []byte) (*Container, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}

	if binary.LittleEndian.Uint32(data[0:4]) != Magic {
		return nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	length := binary.LittleEndian.Uint32(data[8:12])
	if uint64(length) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d", ErrTruncated, length, len(data))
	}
	if length < headerSize {
		return nil, fmt.Errorf("%w: header declares %d bytes", ErrTruncated, length)
	}
	data = data[:length]

	c := &Container{Version: version}
	var jsonChunk []byte
	haveJSON, haveBIN := false, false

	offset := headerSize
	for offset < len(data) {
		if len(data)-offset < chunkHeaderSize {
			return nil, fmt.Errorf("%w: chunk header at offset %d", ErrTruncated, offset)
		}
		chunkLen := int(binary.LittleEndian.Uint32(data[offset:]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4:])
		offset += chunkHeaderSize

		if chunkLen < 0 || chunkLen > len(data)-offset {
			return nil, fmt.Errorf("%w: chunk 0x%08x declares %d bytes at offset %d", ErrTruncated, chunkType, chunkLen, offset)
		}
		payload := data[offset : offset+chunkLen : offset+chunkLen]

		switch chunkType {
		case ChunkJSON:
			if haveJSON {
				return nil, fmt.Errorf("%w: JSON", ErrDuplicateChunk)
			}
			haveJSON = true
			jsonChunk = payload
		case ChunkBIN:
			if haveBIN {
				return nil, fmt.Errorf("%w: BIN", ErrDuplicateChunk)
			}
			haveBIN = true
			c.Binary = payload
		}

		// Payloads are padded to 4 bytes; the last chunk may omit its padding.
		offset += align4(chunkLen)
	}

	if !haveJSON {
		return nil, ErrMissingMetadata
	}

	doc, err := decodeDocument(jsonChunk)
	if err != nil {
		return nil, err
	}
	c.Document = doc

	return c, nil
}

func decodeDocument(data []byte) (*Document, error) {
	// JSON chunks are padded with trailing spaces, which the decoder ignores.
	dec := json.NewDecoder(bytes.NewReader(data))
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrFormat, err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: asset version %q", ErrUnsupportedVersion, doc.Asset.Version)
	}
	return &doc, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}
