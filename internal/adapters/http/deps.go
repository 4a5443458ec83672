package http

import (
	"context"

	"github.com/samirrijal/geofunlab/internal/cartography"
	"github.com/samirrijal/geofunlab/internal/core/ports"
	"github.com/samirrijal/geofunlab/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Shell    *usecases.Shell
	Features ports.FeatureSource
	Hub      *Hub
	NATS     ConnState // nil when NATS is not configured
	Cache    Pinger    // nil when the cache is not configured
	Map      MapOptions
	DocsPath string
}

// MapOptions configures the map panel.
type MapOptions struct {
	// PublicPath is where the raw features resource is re-served.
	PublicPath string
	Viewport   cartography.Viewport
}

// ConnState reports broker connectivity.
type ConnState interface {
	IsConnected() bool
}

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}
