// Package assets retrieves model and texture bytes from local roots and a remote origin.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrNotFound is returned when no source has the requested asset.
var ErrNotFound = errors.New("assets: not found")

// Options configures a Manager.
type Options struct {
	// MaxConcurrent bounds simultaneous fetches. Zero means 8.
	MaxConcurrent int64
	// Timeout bounds a single fetch. Zero disables it.
	Timeout time.Duration
	// Client is used for remote fetches. Nil means http.DefaultClient.
	Client *http.Client
	Logger *zap.Logger
}

type source struct {
	name string
	fsys fs.FS
}

// Manager fetches assets by URL.
// Local roots are searched in reverse order (last added = highest priority),
// then the remote base URL. Fetched bytes are handed to the caller and never
// retained; callers dedupe their own requests.
type Manager struct {
	mu      sync.RWMutex
	sources []source
	remote  string

	client  *http.Client
	timeout time.Duration
	sem     *semaphore.Weighted
	log     *zap.Logger

	fetches  atomic.Int64
	failures atomic.Int64
}

// NewManager creates a new asset manager.
func NewManager(opts Options) *Manager {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 8
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		client:  opts.Client,
		timeout: opts.Timeout,
		sem:     semaphore.NewWeighted(opts.MaxConcurrent),
		log:     opts.Logger.Named("assets"),
	}
}

// AddRoot adds a local directory as a source.
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening root %s: not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddFS adds a file system as a source.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.sources = append(m.sources, source{name: name, fsys: fsys})
	m.mu.Unlock()
}

// SetRemote sets the base URL relative asset URLs are fetched from when no
// local source has them. An empty base disables remote fetches.
func (m *Manager) SetRemote(base string) {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	m.mu.Lock()
	m.remote = base
	m.mu.Unlock()
}

// Fetch returns the bytes of url. It is safe for concurrent use.
func (m *Manager) Fetch(ctx context.Context, url string) ([]byte, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer m.sem.Release(1)

	m.fetches.Add(1)
	data, err := m.fetch(ctx, url)
	if err != nil {
		m.failures.Add(1)
		m.log.Debug("fetch failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	m.log.Debug("fetched", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

func (m *Manager) fetch(ctx context.Context, url string) ([]byte, error) {
	if isRemote(url) {
		return m.get(ctx, url)
	}

	m.mu.RLock()
	sources := m.sources
	remote := m.remote
	m.mu.RUnlock()

	name := strings.TrimPrefix(url, "/")
	var errs error
	if fs.ValidPath(name) {
		for i := len(sources) - 1; i >= 0; i-- {
			data, err := fs.ReadFile(sources[i].fsys, name)
			if err == nil {
				return data, nil
			}
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sources[i].name, err))
		}
	} else {
		errs = fmt.Errorf("invalid local path %q", url)
	}

	if remote != "" {
		data, err := m.get(ctx, remote+name)
		if err == nil {
			return data, nil
		}
		errs = multierr.Append(errs, err)
	}

	if errs == nil {
		errs = errors.New("no sources")
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, url, errs)
}

func (m *Manager) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// Stats returns the number of fetches and how many of them failed.
func (m *Manager) Stats() (fetches, failures int64) {
	return m.fetches.Load(), m.failures.Load()
}

// Close drops all sources. Later fetches fail with ErrNotFound.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = nil
	m.remote = ""
}
