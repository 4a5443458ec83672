package features

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/samirrijal/geofunlab/internal/cartography"
	"github.com/samirrijal/geofunlab/internal/core/ports"
	"github.com/samirrijal/geofunlab/internal/pkg/metrics"
)

// DefaultResource is the world-atlas 110m country outlines.
const DefaultResource = "https://cdn.jsdelivr.net/npm/world-atlas@2/countries-110m.json"

const (
	cacheKeyPrefix = "features:"
	maxResource    = 32 << 20
)

// Load sources, used as metric labels.
const (
	SourceFile   = "file"
	SourceRemote = "remote"
	SourceCache  = "cache"
)

// Loader implements ports.FeatureSource. The resource is read once, from a
// file path or an http(s) URL; remote bytes go through the cache when one is
// configured.
type Loader struct {
	resource string
	object   string
	cache    ports.CacheService
	cacheTTL time.Duration
	http     *http.Client

	mu       sync.Mutex
	raw      []byte
	features []cartography.Feature
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache stores remote resources in cache for ttl.
func WithCache(cache ports.CacheService, ttl time.Duration) Option {
	return func(l *Loader) {
		l.cache = cache
		l.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Loader) { l.http = hc }
}

// NewLoader creates a loader for resource. object names the TopoJSON object
// to draw; an empty name selects the first one.
func NewLoader(resource, object string, opts ...Option) *Loader {
	if resource == "" {
		resource = DefaultResource
	}
	l := &Loader{
		resource: resource,
		object:   object,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Features returns the decoded features, loading them on first use.
func (l *Loader) Features(ctx context.Context) ([]cartography.Feature, error) {
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l.features, nil
}

// Raw returns the resource bytes, loading them on first use.
func (l *Loader) Raw(ctx context.Context) ([]byte, error) {
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l.raw, nil
}

// Loaded reports whether the resource has been read successfully.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.features != nil
}

func (l *Loader) load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.features != nil {
		return nil
	}

	data, source, err := l.read(ctx)
	if err != nil {
		return err
	}
	feats, err := cartography.DecodeFeatures(data, l.object)
	if err != nil {
		return fmt.Errorf("features %s: %w", l.resource, err)
	}
	if feats == nil {
		feats = []cartography.Feature{}
	}

	l.raw = data
	l.features = feats
	metrics.FeaturesLoaded.WithLabelValues(source).Inc()
	slog.Info("map features loaded", "resource", l.resource, "source", source, "features", len(feats))
	return nil
}

func (l *Loader) read(ctx context.Context) ([]byte, string, error) {
	if !isRemote(l.resource) {
		data, err := os.ReadFile(l.resource)
		if err != nil {
			return nil, "", fmt.Errorf("read features: %w", err)
		}
		return data, SourceFile, nil
	}

	key := cacheKeyPrefix + l.resource
	if l.cache != nil {
		if data, err := l.cache.Get(ctx, key); err == nil && len(data) > 0 {
			metrics.CacheHits.WithLabelValues("features").Inc()
			return data, SourceCache, nil
		}
		metrics.CacheMisses.WithLabelValues("features").Inc()
	}

	data, err := l.download(ctx)
	if err != nil {
		return nil, "", err
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, data, int(l.cacheTTL.Seconds())); err != nil {
			slog.Warn("features cache write failed", "error", err)
		}
	}
	return data, SourceRemote, nil
}

func (l *Loader) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.resource, nil)
	if err != nil {
		return nil, fmt.Errorf("features request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download features: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download features: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResource))
	if err != nil {
		return nil, fmt.Errorf("download features: %w", err)
	}
	return data, nil
}

func isRemote(resource string) bool {
	return strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://")
}
