package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/multierr"
)

func TestFetchLocalPriority(t *testing.T) {
	m := NewManager(Options{})
	m.AddFS("base", fstest.MapFS{
		"models/box.glb":  {Data: []byte("base")},
		"models/only.glb": {Data: []byte("only")},
	})
	m.AddFS("patch", fstest.MapFS{
		"models/box.glb": {Data: []byte("patch")},
	})

	tests := []struct {
		url  string
		want string
	}{
		{"models/box.glb", "patch"},
		{"models/only.glb", "only"},
		{"/models/only.glb", "only"},
	}
	for _, tt := range tests {
		got, err := m.Fetch(context.Background(), tt.url)
		if err != nil {
			t.Errorf("Fetch(%q): %v", tt.url, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("Fetch(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestAddRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.glb"), []byte("disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(Options{})
	if err := m.AddRoot(dir); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	got, err := m.Fetch(context.Background(), "a.glb")
	if err != nil || string(got) != "disk" {
		t.Errorf("Fetch = %q, %v", got, err)
	}

	if err := m.AddRoot(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing root")
	}
	if err := m.AddRoot(filepath.Join(dir, "a.glb")); err == nil {
		t.Error("expected error for file root")
	}
}

func TestFetchRemoteFallback(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/cdn/remote.glb" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	m := NewManager(Options{})
	m.AddFS("local", fstest.MapFS{})
	m.SetRemote(srv.URL + "/cdn")

	got, err := m.Fetch(context.Background(), "remote.glb")
	if err != nil || string(got) != "remote" {
		t.Fatalf("Fetch = %q, %v", got, err)
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}

	abs, err := m.Fetch(context.Background(), srv.URL+"/cdn/remote.glb")
	if err != nil || string(abs) != "remote" {
		t.Errorf("absolute Fetch = %q, %v", abs, err)
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := NewManager(Options{})
	m.AddFS("a", fstest.MapFS{})
	m.AddFS("b", fstest.MapFS{})
	m.SetRemote(srv.URL)

	_, err := m.Fetch(context.Background(), "missing.glb")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	fetches, failures := m.Stats()
	if fetches != 1 || failures != 1 {
		t.Errorf("Stats() = %d, %d, want 1, 1", fetches, failures)
	}
}

func TestFetchAggregatesSourceErrors(t *testing.T) {
	m := NewManager(Options{})
	m.AddFS("a", fstest.MapFS{})
	m.AddFS("b", fstest.MapFS{})

	_, err := m.fetch(context.Background(), "x.glb")
	if err == nil {
		t.Fatal("expected error")
	}

	// The aggregate is the last wrapped error.
	var agg error
	if w, ok := err.(interface{ Unwrap() []error }); ok {
		errs := w.Unwrap()
		agg = errs[len(errs)-1]
	}
	if n := len(multierr.Errors(agg)); n != 2 {
		t.Errorf("source errors = %d, want 2", n)
	}
}

func TestFetchNoSources(t *testing.T) {
	m := NewManager(Options{})
	if _, err := m.Fetch(context.Background(), "a.glb"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchRejectsTraversal(t *testing.T) {
	m := NewManager(Options{})
	m.AddFS("root", fstest.MapFS{"secret": {Data: []byte("x")}})
	if _, err := m.Fetch(context.Background(), "../secret"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	m := NewManager(Options{Timeout: 20 * time.Millisecond})
	m.SetRemote(srv.URL)

	if _, err := m.Fetch(context.Background(), "slow.glb"); err == nil {
		t.Error("expected timeout error")
	}
}

func TestFetchConcurrencyLimit(t *testing.T) {
	var active, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	m := NewManager(Options{MaxConcurrent: 2})
	m.SetRemote(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := m.Fetch(context.Background(), string(rune('a'+i))+".glb"); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestFetchDoesNotRetainBytes(t *testing.T) {
	fsys := fstest.MapFS{"a.glb": {Data: []byte("container")}}
	m := NewManager(Options{})
	m.AddFS("root", fsys)

	first, err := m.Fetch(context.Background(), "a.glb")
	if err != nil {
		t.Fatal(err)
	}
	// A caller owns what it receives.
	for i := range first {
		first[i] = 0
	}

	// The source changes; a manager holding bytes would still serve the old ones.
	fsys["a.glb"] = &fstest.MapFile{Data: []byte("updated")}
	second, err := m.Fetch(context.Background(), "a.glb")
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != "updated" {
		t.Errorf("second Fetch = %q, want %q", second, "updated")
	}
	if fetches, _ := m.Stats(); fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}

func TestClose(t *testing.T) {
	m := NewManager(Options{})
	m.AddFS("root", fstest.MapFS{"a.glb": {Data: []byte("x")}})
	m.Close()

	if _, err := m.Fetch(context.Background(), "a.glb"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
