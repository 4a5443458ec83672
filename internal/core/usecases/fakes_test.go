package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/geofunlab/internal/core/domain"
)

// --- Fake TriviaSource ---

type fakeSource struct {
	fetchFn func(ctx context.Context) (*domain.GeoFunResponse, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Fetch(ctx context.Context) (*domain.GeoFunResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fetchFn != nil {
		return f.fetchFn(ctx)
	}
	return nil, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// gatedSource blocks every Fetch until the test releases it.
type gatedSource struct {
	calls chan chan result
}

type result struct {
	resp *domain.GeoFunResponse
	err  error
}

func newGatedSource() *gatedSource {
	return &gatedSource{calls: make(chan chan result, 8)}
}

func (g *gatedSource) Fetch(ctx context.Context) (*domain.GeoFunResponse, error) {
	ch := make(chan result, 1)
	g.calls <- ch
	r := <-ch
	return r.resp, r.err
}

// --- Fake EventPublisher ---

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ViewChanged
	err    error
}

func (p *fakePublisher) PublishViewChanged(ctx context.Context, ev *domain.ViewChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *ev)
	return p.err
}

func (p *fakePublisher) Phases() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Phase
	}
	return out
}

func sampleResponse(id string) *domain.GeoFunResponse {
	return &domain.GeoFunResponse{
		Challenge: domain.ChallengePayload{
			ID:      id,
			Title:   "Capital Quest",
			Prompt:  "Which capital sits on the Sumida river?",
			Answer:  "Tokyo",
			Hints:   []string{"Island nation", "Hosted the 2020 Olympics", "Shibuya crossing"},
			Type:    "Capital Quest",
			FunFact: "Greater Tokyo is the largest metro area on Earth.",
			Location: &domain.GeoPoint{
				Lat: 35.6762, Lng: 139.6503, Zoom: 3.5,
			},
		},
		WorldFact:   "Russia spans eleven time zones.",
		Inspiration: "Map every river that reaches the sea.",
		GeneratedAt: "2024-05-01T15:04:05.123456+00:00",
	}
}
