package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/geofunlab/internal/core/domain"
	"github.com/samirrijal/geofunlab/internal/core/ports"
	"github.com/samirrijal/geofunlab/internal/pkg/logging"
)

// maxPendingEvents bounds the publish queue; the oldest event is dropped
// when a publisher falls this far behind.
const maxPendingEvents = 64

var (
	// ErrBusy is returned when a new challenge is requested while one is loading.
	ErrBusy = errors.New("a challenge is already loading")
	// ErrNothingToReveal is returned when no challenge is on screen.
	ErrNothingToReveal = errors.New("no challenge to reveal")
)

// Shell owns the visible state of the lab: the current response, the
// answer-reveal flag and a mirror of the fetch phase. It is the controller's
// FetchObserver.
//
// Transitions are published in order from a dedicated goroutine, so a slow
// publisher delays events but never a state change.
type Shell struct {
	controller *FetchController
	publisher  ports.EventPublisher
	stamps     *TimestampFormatter

	mount sync.Once

	mu    sync.Mutex
	state viewState

	queueMu   sync.Mutex
	pending   []queuedEvent
	wake      chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type queuedEvent struct {
	ctx context.Context
	ev  *domain.ViewChanged
}

// NewShell wires a shell to its controller. publisher may be nil.
func NewShell(controller *FetchController, publisher ports.EventPublisher, stamps *TimestampFormatter) *Shell {
	s := &Shell{
		controller: controller,
		publisher:  publisher,
		stamps:     stamps,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	controller.SetObserver(s)
	if publisher != nil {
		go s.drain()
	} else {
		close(s.stopped)
	}
	return s
}

// Close publishes the events still queued and stops the publishing
// goroutine. It gives up when ctx is done. Later transitions are not
// published.
func (s *Shell) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.stop) })
	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Mount enters Loading for the first time. Later calls do nothing.
func (s *Shell) Mount(ctx context.Context) {
	s.mount.Do(func() {
		s.controller.Refresh(ctx)
	})
}

// Refresh re-enters Loading unconditionally.
func (s *Shell) Refresh(ctx context.Context) {
	s.controller.Refresh(ctx)
}

// RequestNewChallenge is the user's "new challenge" action. It is refused
// while a request is loading.
func (s *Shell) RequestNewChallenge(ctx context.Context) error {
	if _, ok := s.controller.TryRefresh(ctx); !ok {
		return ErrBusy
	}
	return nil
}

// ToggleReveal flips the answer-reveal flag and returns its new value.
func (s *Shell) ToggleReveal(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.state.phase != domain.PhaseSuccess || s.state.response == nil {
		s.mu.Unlock()
		return false, ErrNothingToReveal
	}
	s.state.revealed = !s.state.revealed
	revealed := s.state.revealed
	s.enqueue(ctx, s.eventLocked())
	s.mu.Unlock()

	return revealed, nil
}

// View projects the current state.
func (s *Shell) View() View {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	return project(st, s.stamps)
}

// Location returns a copy of the current response's location, if any.
func (s *Shell) Location() *domain.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.response == nil || s.state.response.Challenge.Location == nil {
		return nil
	}
	loc := *s.state.response.Challenge.Location
	return &loc
}

func (s *Shell) FetchStarted(ctx context.Context, gen uint64) {
	s.transition(ctx, func(st *viewState) {
		st.phase = domain.PhaseLoading
		st.generation = gen
		st.errMsg = ""
		st.revealed = false
	})
}

func (s *Shell) FetchSucceeded(ctx context.Context, gen uint64, resp *domain.GeoFunResponse) {
	s.transition(ctx, func(st *viewState) {
		st.phase = domain.PhaseSuccess
		st.generation = gen
		st.errMsg = ""
		st.response = resp
	})
}

func (s *Shell) FetchFailed(ctx context.Context, gen uint64, message string) {
	s.transition(ctx, func(st *viewState) {
		st.phase = domain.PhaseFailure
		st.generation = gen
		st.errMsg = message
	})
}

func (s *Shell) transition(ctx context.Context, apply func(*viewState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.state)
	// queued under s.mu so events keep the order of the state changes
	s.enqueue(ctx, s.eventLocked())
}

func (s *Shell) eventLocked() *domain.ViewChanged {
	return &domain.ViewChanged{
		ID:         uuid.NewString(),
		Phase:      s.state.phase.String(),
		Generation: s.state.generation,
		Revealed:   s.state.revealed,
		At:         time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func (s *Shell) enqueue(ctx context.Context, ev *domain.ViewChanged) {
	if s.publisher == nil {
		return
	}

	s.queueMu.Lock()
	if len(s.pending) >= maxPendingEvents {
		logging.FromContext(ctx).Warn("view event queue full, dropping oldest", "phase", s.pending[0].ev.Phase)
		s.pending = append(s.pending[:0], s.pending[1:]...)
	}
	s.pending = append(s.pending, queuedEvent{ctx: context.WithoutCancel(ctx), ev: ev})
	s.queueMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Shell) drain() {
	defer close(s.stopped)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.stop:
			s.flush()
			return
		}
	}
}

func (s *Shell) flush() {
	for {
		s.queueMu.Lock()
		batch := s.pending
		s.pending = nil
		s.queueMu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, q := range batch {
			if err := s.publisher.PublishViewChanged(q.ctx, q.ev); err != nil {
				logging.FromContext(q.ctx).Warn("publish view change failed", "phase", q.ev.Phase, "error", err)
			}
		}
	}
}
