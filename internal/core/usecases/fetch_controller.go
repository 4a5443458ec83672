package usecases

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/geofunlab/internal/core/domain"
	"github.com/samirrijal/geofunlab/internal/core/ports"
	"github.com/samirrijal/geofunlab/internal/pkg/logging"
	"github.com/samirrijal/geofunlab/internal/pkg/metrics"
)

// FetchObserver receives fetch lifecycle transitions. Calls are made while
// the controller holds its lock, so they arrive in generation order. They
// must return promptly and must not call back into the controller.
type FetchObserver interface {
	FetchStarted(ctx context.Context, gen uint64)
	FetchSucceeded(ctx context.Context, gen uint64, resp *domain.GeoFunResponse)
	FetchFailed(ctx context.Context, gen uint64, message string)
}

// FetchController drives the Idle → Loading → Success|Failure lifecycle
// against a TriviaSource. Only the latest issued request may complete the
// Loading phase; older completions are discarded.
type FetchController struct {
	source  ports.TriviaSource
	timeout time.Duration

	mu       sync.Mutex
	observer FetchObserver
	phase    domain.Phase
	errMsg   string
	gen      uint64

	inflight sync.WaitGroup
}

// NewFetchController creates a controller in the Idle phase. A zero timeout
// leaves requests bounded only by the source.
func NewFetchController(source ports.TriviaSource, timeout time.Duration) *FetchController {
	return &FetchController{source: source, timeout: timeout}
}

// SetObserver registers the observer notified on every transition.
func (c *FetchController) SetObserver(o FetchObserver) {
	c.mu.Lock()
	c.observer = o
	c.mu.Unlock()
}

// Refresh enters Loading and issues a new request. It never blocks on the
// network and is legal in every phase. It returns the request's generation.
func (c *FetchController) Refresh(ctx context.Context) uint64 {
	gen, _ := c.start(ctx, false)
	return gen
}

// TryRefresh is Refresh unless a request is already loading, in which case
// it does nothing and reports false.
func (c *FetchController) TryRefresh(ctx context.Context) (uint64, bool) {
	return c.start(ctx, true)
}

func (c *FetchController) start(ctx context.Context, onlyWhenSettled bool) (uint64, bool) {
	c.mu.Lock()
	if onlyWhenSettled && c.phase == domain.PhaseLoading {
		gen := c.gen
		c.mu.Unlock()
		return gen, false
	}
	c.gen++
	gen := c.gen
	c.phase = domain.PhaseLoading
	c.errMsg = ""
	if c.observer != nil {
		c.observer.FetchStarted(ctx, gen)
	}
	c.inflight.Add(1)
	c.mu.Unlock()

	logging.FromContext(ctx).Debug("challenge fetch issued", "generation", gen)

	go c.run(context.WithoutCancel(ctx), gen)
	return gen, true
}

// State returns the current phase, error message and latest generation.
func (c *FetchController) State() (domain.Phase, string, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase, c.errMsg, c.gen
}

// Wait blocks until every issued request has completed.
func (c *FetchController) Wait() {
	c.inflight.Wait()
}

func (c *FetchController) run(ctx context.Context, gen uint64) {
	defer c.inflight.Done()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("geofunlab/usecases").Start(ctx, "FetchController.fetch")
	span.SetAttributes(attribute.Int64("geofun.generation", int64(gen)))
	defer span.End()

	start := time.Now()
	resp, err := c.source.Fetch(ctx)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err == nil && resp == nil {
		err = &domain.DecodeError{}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.FailureKind(err))
	}

	if !c.complete(ctx, gen, resp, err) {
		span.SetAttributes(attribute.Bool("geofun.stale", true))
	}
}

// complete applies a finished request. It reports false when the request
// was superseded and its result dropped.
func (c *FetchController) complete(ctx context.Context, gen uint64, resp *domain.GeoFunResponse, err error) bool {
	log := logging.FromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		metrics.FetchStale.Inc()
		log.Debug("stale challenge fetch discarded", "generation", gen, "latest", c.gen)
		return false
	}

	if err != nil {
		kind := domain.FailureKind(err)
		c.phase = domain.PhaseFailure
		c.errMsg = domain.FailureMessage(err)
		metrics.FetchTotal.WithLabelValues(kind).Inc()
		log.Warn("challenge fetch failed", "generation", gen, "kind", kind, "error", err)
		if c.observer != nil {
			c.observer.FetchFailed(ctx, gen, c.errMsg)
		}
		return true
	}

	c.phase = domain.PhaseSuccess
	c.errMsg = ""
	metrics.FetchTotal.WithLabelValues("success").Inc()
	log.Info("challenge fetched", "generation", gen, "challenge_id", resp.Challenge.ID)
	if c.observer != nil {
		c.observer.FetchSucceeded(ctx, gen, resp)
	}
	return true
}
