package texture

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/glbkit/internal/models"
	"github.com/Faultbox/glbkit/pkg/glb"
)

// Texture is a handle whose image may still be loading.
// Until uploaded it binds the loader's 1x1 white texture.
type Texture struct {
	URL    string
	Params Params

	id    atomic.Uint32
	white uint32
}

// ID returns the GL texture name to bind.
func (t *Texture) ID() uint32 {
	if id := t.id.Load(); id != 0 {
		return id
	}
	return t.white
}

// Ready reports whether the image has been uploaded.
func (t *Texture) Ready() bool {
	return t.id.Load() != 0
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit int) {
	bind(unit, t.ID())
}

type textureKey struct {
	url    string
	params Params
}

type decoded struct {
	tex *Texture
	img *image.RGBA
}

// Options configures a Loader.
type Options struct {
	Fetcher models.Fetcher
	Logger  *zap.Logger
}

// Loader fetches and decodes textures in the background and uploads them in Update.
// Load and Update must be called from the GL thread.
type Loader struct {
	fetcher models.Fetcher
	log     *zap.Logger
	up      uploader

	textures map[textureKey]*Texture
	white    uint32

	qmu   sync.Mutex
	queue []decoded

	pending atomic.Int64
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewLoader creates a loader. A GL context must be current.
func NewLoader(opts Options) *Loader {
	return newLoader(opts, glUploader{})
}

func newLoader(opts Options, up uploader) *Loader {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		fetcher:  opts.Fetcher,
		log:      opts.Logger.Named("texture"),
		up:       up,
		textures: make(map[textureKey]*Texture),
		ctx:      ctx,
		cancel:   cancel,
	}

	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	white.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	l.white = up.upload(white, Params{
		MagFilter: DefaultParams.MagFilter,
		MinFilter: DefaultParams.MagFilter,
		WrapS:     DefaultParams.WrapS,
		WrapT:     DefaultParams.WrapT,
	})
	return l
}

// White returns the GL name of the 1x1 white texture.
func (l *Loader) White() uint32 {
	return l.white
}

// Load returns the texture for ref, starting its fetch on first use.
// References with the same URL and sampling parameters share one texture.
func (l *Loader) Load(ref glb.TextureRef) models.Texture {
	return l.load(ref)
}

func (l *Loader) load(ref glb.TextureRef) *Texture {
	key := textureKey{url: ref.URL, params: ParamsFor(ref)}
	if t, ok := l.textures[key]; ok {
		return t
	}

	t := &Texture{URL: key.url, Params: key.params, white: l.white}
	l.textures[key] = t

	if l.fetcher == nil {
		l.log.Warn("no fetcher, texture stays white", zap.String("url", t.URL))
		return t
	}

	l.pending.Add(1)
	l.wg.Add(1)
	go l.fetch(t)
	return t
}

func (l *Loader) fetch(t *Texture) {
	defer l.wg.Done()

	data, err := l.fetcher.Fetch(l.ctx, t.URL)
	if err != nil {
		l.log.Warn("texture fetch failed", zap.String("url", t.URL), zap.Error(err))
		l.complete(decoded{tex: t})
		return
	}

	img, err := Decode(t.URL, data)
	if err != nil {
		l.log.Warn("texture decode failed", zap.String("url", t.URL), zap.Error(err))
	}
	l.complete(decoded{tex: t, img: img})
}

func (l *Loader) complete(d decoded) {
	l.qmu.Lock()
	l.queue = append(l.queue, d)
	l.qmu.Unlock()
}

// Update uploads decoded images and returns how many loads finished.
func (l *Loader) Update() int {
	l.qmu.Lock()
	done := l.queue
	l.queue = nil
	l.qmu.Unlock()

	for _, d := range done {
		if d.img != nil {
			d.tex.id.Store(l.up.upload(d.img, d.tex.Params))
			l.log.Debug("texture uploaded",
				zap.String("url", d.tex.URL),
				zap.Int("width", d.img.Rect.Dx()),
				zap.Int("height", d.img.Rect.Dy()),
			)
		}
		l.pending.Add(-1)
	}
	return len(done)
}

// Pending returns the number of textures not yet applied by Update.
func (l *Loader) Pending() int {
	return int(l.pending.Load())
}

// Close stops outstanding fetches and deletes every texture.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
	l.Update()

	for key, t := range l.textures {
		if id := t.id.Load(); id != 0 {
			l.up.release(id)
		}
		delete(l.textures, key)
	}
	l.up.release(l.white)
}
