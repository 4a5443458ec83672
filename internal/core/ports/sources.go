package ports

import (
	"context"

	"github.com/samirrijal/geofunlab/internal/cartography"
	"github.com/samirrijal/geofunlab/internal/core/domain"
)

// TriviaSource retrieves one geography challenge from the trivia service.
// Errors are *domain.StatusError, *domain.TransportError or
// *domain.DecodeError, possibly wrapped.
type TriviaSource interface {
	Fetch(ctx context.Context) (*domain.GeoFunResponse, error)
}

// FeatureSource provides the static world features resource.
type FeatureSource interface {
	// Features returns the decoded polygons. The slice is shared; callers
	// must not modify it.
	Features(ctx context.Context) ([]cartography.Feature, error)
	// Raw returns the resource bytes as published.
	Raw(ctx context.Context) ([]byte, error)
}
