package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/glbkit/pkg/glb"
)

type fakeUploader struct {
	next     uint32
	uploads  []Params
	released []uint32
}

func (u *fakeUploader) upload(_ *image.RGBA, p Params) uint32 {
	u.next++
	u.uploads = append(u.uploads, p)
	return u.next
}

func (u *fakeUploader) release(id uint32) {
	u.released = append(u.released, id)
}

type mapFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls map[string]int
}

func (f *mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if d, ok := f.files[url]; ok {
		return d, nil
	}
	return nil, errors.New("missing")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, checker()); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func drain(t *testing.T, l *Loader) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for l.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("textures did not finish loading")
		}
		l.Update()
		time.Sleep(time.Millisecond)
	}
}

func TestLoaderUploadsAndShares(t *testing.T) {
	f := &mapFetcher{files: map[string][]byte{"a.png": pngBytes(t)}, calls: map[string]int{}}
	up := &fakeUploader{}
	l := newLoader(Options{Fetcher: f}, up)

	white := l.White()
	t1 := l.load(glb.TextureRef{URL: "a.png"})
	t2 := l.load(glb.TextureRef{URL: "a.png"})
	if t1 != t2 {
		t.Error("same reference returned different textures")
	}
	if t1.Ready() || t1.ID() != white {
		t.Error("unloaded texture should bind white")
	}

	drain(t, l)

	if !t1.Ready() || t1.ID() == white {
		t.Fatalf("texture not uploaded, id %d", t1.ID())
	}
	if f.calls["a.png"] != 1 {
		t.Errorf("fetches = %d, want 1", f.calls["a.png"])
	}
	if got := up.uploads[len(up.uploads)-1]; got != DefaultParams {
		t.Errorf("upload params = %+v, want defaults", got)
	}

	// Different sampling is a different texture
	t3 := l.load(glb.TextureRef{URL: "a.png", MagFilter: glb.FilterNearest})
	if t3 == t1 {
		t.Error("different sampler shared a texture")
	}
	drain(t, l)

	l.Close()
	if len(up.released) != 3 {
		t.Errorf("released %v, want 3 textures", up.released)
	}
}

func TestLoaderFailureKeepsWhite(t *testing.T) {
	f := &mapFetcher{files: map[string][]byte{"bad.png": []byte("garbage")}, calls: map[string]int{}}
	core, logs := observer.New(zapcore.WarnLevel)
	l := newLoader(Options{Fetcher: f, Logger: zap.New(core)}, &fakeUploader{})
	defer l.Close()

	missing := l.load(glb.TextureRef{URL: "missing.png"})
	bad := l.load(glb.TextureRef{URL: "bad.png"})
	drain(t, l)

	for _, tex := range []*Texture{missing, bad} {
		if tex.Ready() || tex.ID() != l.White() {
			t.Errorf("%s: expected white fallback", tex.URL)
		}
	}
	if n := logs.FilterMessage("texture fetch failed").Len(); n != 1 {
		t.Errorf("fetch failure logs = %d, want 1", n)
	}
	if n := logs.FilterMessage("texture decode failed").Len(); n != 1 {
		t.Errorf("decode failure logs = %d, want 1", n)
	}
}

func TestLoaderWithoutFetcher(t *testing.T) {
	l := newLoader(Options{}, &fakeUploader{})
	defer l.Close()

	tex := l.load(glb.TextureRef{URL: "x.png"})
	if l.Pending() != 0 || tex.Ready() {
		t.Error("expected white texture without a pending load")
	}
}

func TestParamsFor(t *testing.T) {
	tests := []struct {
		name string
		ref  glb.TextureRef
		want Params
	}{
		{"unset", glb.TextureRef{}, DefaultParams},
		{
			"explicit",
			glb.TextureRef{
				MagFilter: glb.FilterNearest,
				MinFilter: glb.FilterNearestMipmapLinear,
				WrapS:     glb.WrapClampToEdge,
				WrapT:     glb.WrapMirroredRepeat,
			},
			Params{gl.NEAREST, gl.NEAREST_MIPMAP_LINEAR, gl.CLAMP_TO_EDGE, gl.MIRRORED_REPEAT},
		},
		{
			"mipmap mag filter is invalid",
			glb.TextureRef{MagFilter: glb.FilterLinearMipmapLinear, MinFilter: glb.FilterLinear},
			Params{gl.LINEAR, gl.LINEAR, gl.REPEAT, gl.REPEAT},
		},
		{
			"unknown codes",
			glb.TextureRef{MinFilter: 1, WrapS: 2},
			DefaultParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParamsFor(tt.ref); got != tt.want {
				t.Errorf("ParamsFor() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if !DefaultParams.mipmapped() {
		t.Error("default min filter should use mipmaps")
	}
	if (Params{MinFilter: gl.NEAREST}).mipmapped() {
		t.Error("NEAREST should not use mipmaps")
	}
}
