package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/fridgeview/internal/engine/model"
)

// ErrCacheClosed is returned by Load after Close.
var ErrCacheClosed = errors.New("model cache closed")

// ErrDecodePanic wraps a panic raised while decoding a model.
var ErrDecodePanic = errors.New("model decoder panicked")

// DefaultLoadTimeout bounds a single fetch and decode.
const DefaultLoadTimeout = 10 * time.Second

// Cache memoizes decoded model templates per URI. Concurrent loads of the
// same URI share one fetch. Templates are read-only; callers clone them
// before placing them in a scene.
type Cache struct {
	source  Source
	decode  func([]byte) (*model.Node, error)
	timeout time.Duration
	log     *zap.Logger
	metrics *Metrics

	group singleflight.Group

	mu        sync.RWMutex
	templates map[string]*model.Node
	closed    bool

	// ctx parents every fetch so Close aborts in-flight loads.
	ctx    context.Context
	cancel context.CancelFunc
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the cache logger.
func WithLogger(log *zap.Logger) CacheOption {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics records loads on m.
func WithMetrics(m *Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// WithDecoder replaces the glTF decoder.
func WithDecoder(decode func([]byte) (*model.Node, error)) CacheOption {
	return func(c *Cache) {
		if decode != nil {
			c.decode = decode
		}
	}
}

// NewCache creates a cache reading from src.
func NewCache(src Source, opts ...CacheOption) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		source:    src,
		decode:    DecodeGLTF,
		timeout:   DefaultLoadTimeout,
		log:       zap.NewNop(),
		templates: make(map[string]*model.Node),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the template for uri, fetching it on first use. Cancelling
// ctx abandons this caller's wait only; the shared fetch keeps running under
// the cache timeout. Failures are not memoized.
func (c *Cache) Load(ctx context.Context, uri string) (*model.Node, error) {
	if tmpl, ok, err := c.get(uri); err != nil || ok {
		if ok {
			c.metrics.recordHit()
		}
		return tmpl, err
	}

	select {
	case res := <-c.start(uri):
		if res.Shared {
			c.metrics.recordCoalesced()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Node), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) start(uri string) <-chan singleflight.Result {
	return c.group.DoChan(uri, func() (any, error) {
		return c.fetch(uri)
	})
}

func (c *Cache) get(uri string) (*model.Node, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, false, ErrCacheClosed
	}
	tmpl, ok := c.templates[uri]
	return tmpl, ok, nil
}

func (c *Cache) fetch(uri string) (*model.Node, error) {
	// A caller may have started a new flight just after a previous one stored.
	if tmpl, ok, err := c.get(uri); err != nil || ok {
		return tmpl, err
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	start := time.Now()
	tmpl, err := c.fetchAndDecode(ctx, uri)
	elapsed := time.Since(start)
	c.metrics.recordLoad(err, elapsed)

	if err != nil {
		c.log.Warn("model load failed",
			zap.String("uri", uri),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}
	c.templates[uri] = tmpl
	c.log.Debug("model cached", zap.String("uri", uri), zap.Duration("elapsed", elapsed))
	return tmpl, nil
}

func (c *Cache) fetchAndDecode(ctx context.Context, uri string) (*model.Node, error) {
	data, err := c.source.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	// Decoding is not interruptible; honour a deadline that passed during the fetch.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	tmpl, err := c.safeDecode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", uri, err)
	}
	return tmpl, nil
}

// safeDecode turns a decoder panic on malformed input into an error.
func (c *Cache) safeDecode(data []byte) (tmpl *model.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			tmpl, err = nil, fmt.Errorf("%w: %v", ErrDecodePanic, r)
		}
	}()
	return c.decode(data)
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Close aborts in-flight fetches and drops every template.
func (c *Cache) Close() {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.templates = make(map[string]*model.Node)
}
