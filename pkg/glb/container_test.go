package glb_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Faultbox/glbkit/pkg/glb"
	"github.com/Faultbox/glbkit/pkg/glb/glbtest"
)

const minimalJSON = `{"asset":{"version":"2.0"}}`

func TestParse_HeaderValidation(t *testing.T) {
	valid := glbtest.Container(glb.Magic, glb.Version, glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)})

	badLength := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badLength[8:], uint32(len(valid)+16))

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"valid", valid, nil},
		{"empty", []byte{}, glb.ErrTruncated},
		{"short header", []byte{'g', 'l', 'T', 'F', 2, 0}, glb.ErrTruncated},
		{"bad magic", glbtest.Container(0x12345678, glb.Version, glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)}), glb.ErrInvalidMagic},
		{"version 1", glbtest.Container(glb.Magic, 1, glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)}), glb.ErrUnsupportedVersion},
		{"length past end", badLength, glb.ErrTruncated},
		{"no chunks", glbtest.Container(glb.Magic, glb.Version), glb.ErrMissingMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := glb.Parse(tt.data)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, glb.ErrFormat) {
				t.Errorf("expected format error category, got %v", err)
			}
		})
	}
}

func TestParse_Chunks(t *testing.T) {
	bin := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	t.Run("json and bin", func(t *testing.T) {
		data := glbtest.Container(glb.Magic, glb.Version,
			glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)},
			glbtest.Chunk{Type: glb.ChunkBIN, Data: bin},
		)
		c, err := glb.Parse(data)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if c.Version != 2 {
			t.Errorf("expected version 2, got %d", c.Version)
		}
		if c.Document.Asset.Version != "2.0" {
			t.Errorf("expected asset version 2.0, got %q", c.Document.Asset.Version)
		}
		if len(c.Binary) != len(bin) {
			t.Fatalf("expected %d binary bytes, got %d", len(bin), len(c.Binary))
		}
		for i := range bin {
			if c.Binary[i] != bin[i] {
				t.Errorf("binary[%d] = %d, want %d", i, c.Binary[i], bin[i])
			}
		}
	})

	t.Run("binary aliases input", func(t *testing.T) {
		data := glbtest.Container(glb.Magic, glb.Version,
			glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)},
			glbtest.Chunk{Type: glb.ChunkBIN, Data: bin},
		)
		c, err := glb.Parse(data)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		data[len(data)-len(bin)] = 99
		if c.Binary[0] != 99 {
			t.Error("expected binary block to be a view of the input")
		}
	})

	t.Run("unknown chunk skipped", func(t *testing.T) {
		data := glbtest.Container(glb.Magic, glb.Version,
			glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)},
			glbtest.Chunk{Type: 0xDEADBEEF, Data: []byte{1, 2, 3}},
			glbtest.Chunk{Type: glb.ChunkBIN, Data: bin},
		)
		c, err := glb.Parse(data)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(c.Binary) != len(bin) {
			t.Errorf("expected %d binary bytes, got %d", len(bin), len(c.Binary))
		}
	})

	t.Run("no bin", func(t *testing.T) {
		data := glbtest.Container(glb.Magic, glb.Version, glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)})
		c, err := glb.Parse(data)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if c.Binary != nil {
			t.Errorf("expected nil binary, got %d bytes", len(c.Binary))
		}
	})

	errCases := []struct {
		name    string
		chunks  []glbtest.Chunk
		wantErr error
	}{
		{
			name:    "missing json",
			chunks:  []glbtest.Chunk{{Type: glb.ChunkBIN, Data: bin}},
			wantErr: glb.ErrMissingMetadata,
		},
		{
			name: "duplicate json",
			chunks: []glbtest.Chunk{
				{Type: glb.ChunkJSON, Data: []byte(minimalJSON)},
				{Type: glb.ChunkJSON, Data: []byte(minimalJSON)},
			},
			wantErr: glb.ErrDuplicateChunk,
		},
		{
			name: "duplicate bin",
			chunks: []glbtest.Chunk{
				{Type: glb.ChunkJSON, Data: []byte(minimalJSON)},
				{Type: glb.ChunkBIN, Data: bin},
				{Type: glb.ChunkBIN, Data: bin},
			},
			wantErr: glb.ErrDuplicateChunk,
		},
		{
			name:    "bad json",
			chunks:  []glbtest.Chunk{{Type: glb.ChunkJSON, Data: []byte(`{"asset":`)}},
			wantErr: glb.ErrFormat,
		},
		{
			name:    "asset version 1.0",
			chunks:  []glbtest.Chunk{{Type: glb.ChunkJSON, Data: []byte(`{"asset":{"version":"1.0"}}`)}},
			wantErr: glb.ErrUnsupportedVersion,
		},
	}

	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := glb.Parse(glbtest.Container(glb.Magic, glb.Version, tt.chunks...))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_TruncatedChunk(t *testing.T) {
	data := glbtest.Container(glb.Magic, glb.Version,
		glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)},
		glbtest.Chunk{Type: glb.ChunkBIN, Data: make([]byte, 16)},
	)

	// Cut the BIN payload short and fix up the header length.
	cut := data[:len(data)-8]
	binary.LittleEndian.PutUint32(cut[8:], uint32(len(cut)))

	_, err := glb.Parse(cut)
	if !errors.Is(err, glb.ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}

	// A dangling partial chunk header is also truncation.
	dangling := append(append([]byte(nil), data...), 1, 0, 0)
	binary.LittleEndian.PutUint32(dangling[8:], uint32(len(dangling)))
	if _, err := glb.Parse(dangling); !errors.Is(err, glb.ErrTruncated) {
		t.Errorf("expected ErrTruncated for partial chunk header, got %v", err)
	}
}

func TestParse_TrailingBytesIgnored(t *testing.T) {
	data := glbtest.Container(glb.Magic, glb.Version, glbtest.Chunk{Type: glb.ChunkJSON, Data: []byte(minimalJSON)})
	data = append(data, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

	if _, err := glb.Parse(data); err != nil {
		t.Errorf("expected bytes past the declared length to be ignored, got %v", err)
	}
}
