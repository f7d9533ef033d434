package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/glbkit/pkg/glb"
)

// Options configures a Cache.
type Options struct {
	Fetcher  Fetcher
	Geometry GeometryBackend
	// Textures is optional; without it primitives draw untextured.
	Textures TextureLoader
	// Shading is optional; without it Draw only binds textures.
	Shading Shading
	// Reporter defaults to a LogReporter on Logger.
	Reporter ErrorReporter
	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Semantics and Skip default to glb.DefaultSemantics and glb.DefaultSkipSet.
	Semantics glb.SemanticTable
	Skip      glb.SkipSet

	// Placeholder overrides the builtin box container.
	Placeholder []byte
}

type completion struct {
	model *Model
	asset *glb.Asset
	err   error
}

// Cache maps model ids to models and runs their loads.
//
// Load may be called from any goroutine. Update, Wait and Close touch the
// geometry and texture backends and must be called from the thread that owns them.
type Cache struct {
	opts Options
	log  *zap.Logger

	mu     sync.Mutex
	models map[string]*Model
	closed bool

	qmu    sync.Mutex
	queue  []completion
	notify chan struct{}

	pending     atomic.Int64
	placeholder *Geometry

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a cache and builds the placeholder model.
func New(opts Options) (*Cache, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("models: fetcher is required")
	}
	if opts.Geometry == nil {
		return nil, errors.New("models: geometry backend is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Reporter == nil {
		opts.Reporter = NewLogReporter(opts.Logger)
	}
	if opts.Semantics == nil {
		opts.Semantics = glb.DefaultSemantics()
	}
	if opts.Skip == nil {
		opts.Skip = glb.DefaultSkipSet()
	}
	if opts.Placeholder == nil {
		opts.Placeholder = builtinBox
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		opts:   opts,
		log:    opts.Logger.Named("models"),
		models: make(map[string]*Model),
		notify: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}

	asset, err := glb.Decode(opts.Placeholder, c.decodeOptions(""))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("placeholder: %w", err)
	}
	g, err := c.build(asset)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("placeholder: %w", err)
	}
	g.Placeholder = true
	c.placeholder = g
	c.models[PlaceholderID] = newModel(PlaceholderID, "", opts.Shading, &snapshot{state: StateReady, geometry: g})

	return c, nil
}

// Load returns the model for id, starting its load on first use. It never blocks.
// Until the load completes the model draws the placeholder geometry.
// After Close it returns an unregistered Failed model with empty geometry
// carrying ErrClosed.
func (c *Cache) Load(id string) *Model {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return newModel(id, glb.BasePath(id), c.opts.Shading, &snapshot{state: StateFailed, geometry: &Geometry{Placeholder: true}, err: ErrClosed})
	}
	if m, ok := c.models[id]; ok {
		return m
	}

	m := newModel(id, glb.BasePath(id), c.opts.Shading, &snapshot{state: StateLoading, geometry: c.placeholder})
	c.models[id] = m
	c.pending.Add(1)
	c.wg.Add(1)
	go c.fetch(m)

	c.log.Debug("load started", zap.String("id", id))
	return m
}

// Get returns the model for id without starting a load.
func (c *Cache) Get(id string) (*Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.models[id]
	return m, ok
}

// Placeholder returns the builtin placeholder model.
func (c *Cache) Placeholder() *Model {
	m, _ := c.Get(PlaceholderID)
	return m
}

// PendingLoads returns the number of loads not yet applied by Update.
func (c *Cache) PendingLoads() int {
	return int(c.pending.Load())
}

// fetch runs off the owner thread: it retrieves and decodes, then queues the result.
func (c *Cache) fetch(m *Model) {
	defer c.wg.Done()

	data, err := c.opts.Fetcher.Fetch(c.ctx, m.ID)
	if err != nil {
		c.complete(completion{model: m, err: fmt.Errorf("%w: %w", ErrTransport, err)})
		return
	}

	asset, err := glb.Decode(data, c.decodeOptions(m.BasePath))
	c.complete(completion{model: m, asset: asset, err: err})
}

func (c *Cache) complete(d completion) {
	c.qmu.Lock()
	c.queue = append(c.queue, d)
	c.qmu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Update applies finished loads: builds GPU geometry and swaps it in, or marks
// the model Failed and reports the error. It returns the number of loads applied.
func (c *Cache) Update() int {
	c.qmu.Lock()
	done := c.queue
	c.queue = nil
	c.qmu.Unlock()

	for _, d := range done {
		c.apply(d)
	}
	return len(done)
}

func (c *Cache) apply(d completion) {
	defer c.pending.Add(-1)

	m := d.model
	err := d.err
	if err == nil {
		var g *Geometry
		g, err = c.build(d.asset)
		if err == nil {
			m.ready(g)
			c.log.Info("model ready",
				zap.String("id", m.ID),
				zap.Int("primitives", len(g.Parts)),
			)
			return
		}
	}

	m.fail(err)
	c.opts.Reporter.Report(m.ID, err)
}

func (c *Cache) build(asset *glb.Asset) (*Geometry, error) {
	g := &Geometry{Parts: make([]Part, 0, len(asset.Primitives))}
	for _, p := range asset.Primitives {
		d, err := c.opts.Geometry.Create(p.Vertices, p.Indices, p.Mode)
		if err != nil {
			g.release()
			return nil, fmt.Errorf("mesh %d primitive %d: %w", p.Mesh, p.Index, err)
		}

		part := Part{Drawable: d}
		if p.Texture != nil && c.opts.Textures != nil {
			part.Texture = c.opts.Textures.Load(*p.Texture)
		}
		g.Parts = append(g.Parts, part)
	}
	return g, nil
}

func (c *Cache) decodeOptions(basePath string) glb.Options {
	return glb.Options{
		Semantics: c.opts.Semantics,
		Skip:      c.opts.Skip,
		BasePath:  basePath,
	}
}

// Wait applies completions until no load is pending or ctx is done.
func (c *Cache) Wait(ctx context.Context) error {
	for {
		c.Update()
		if c.PendingLoads() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.notify:
		}
	}
}

// Close cancels outstanding fetches, waits for them, and releases all geometry.
// Calling it more than once is a no-op.
func (c *Cache) Close() {
	c.closeOnce.Do(c.close)
}

func (c *Cache) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.Update()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.models {
		if g := m.Geometry(); g != nil && !g.Placeholder {
			g.release()
		}
	}
	c.placeholder.release()
	c.models = make(map[string]*Model)
}
