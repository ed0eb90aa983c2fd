package viewstate

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/disclosure"
	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/orgmatch"
)

// Listener observes a state transition. Listeners run outside the store lock
// and may call mutators; the resulting changes are delivered after the
// current one, in mutation order.
type Listener func(prev, next State)

type transition struct {
	prev, next State
}

// Store is the view-state container. The zero value is not usable; create
// one with New.
type Store struct {
	mu       sync.Mutex
	state    State
	viewport Viewport
	memo     disclosure.Memo

	listeners map[int]Listener
	nextID    int

	pending     []transition
	dispatching bool

	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used to stamp tour pauses.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithInitialView sets the starting center and zoom. Non-finite values are
// ignored.
func WithInitialView(center geo.LatLng, zoom float64) Option {
	return func(s *Store) {
		if center.IsFinite() {
			s.state.MapCenter = center
		}
		if isFinite(zoom) {
			s.state.CurrentZoom = zoom
		}
	}
}

// WithSessionID fixes the session ID instead of generating one.
func WithSessionID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.state.SessionID = id
		}
	}
}

// New creates a store with empty collections.
func New(opts ...Option) *Store {
	s := &Store{
		state:     State{SessionID: uuid.NewString()},
		listeners: make(map[int]Listener),
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Viewport returns the attached viewport handle, or nil.
func (s *Store) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// VisibleCapabilities returns the capabilities shown at the current zoom.
func (s *Store) VisibleCapabilities() []model.Capability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Capabilities(s.state.Capabilities, s.state.CurrentZoom)
}

// VisibleLandmarks returns the landmarks shown at the current zoom.
func (s *Store) VisibleLandmarks() []model.Landmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memo.Landmarks(s.state.Landmarks, s.state.CurrentZoom)
}

// Subscribe registers l for every subsequent transition and returns a
// function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// update applies fn to a copy of the state under the lock. fn reports whether
// it changed anything; unchanged mutations are not delivered. Derived fields
// are the responsibility of fn so that each mutation is one atomic step.
func (s *Store) update(op string, fn func(st *State) bool) {
	s.mu.Lock()
	next := s.state
	if !fn(&next) {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, transition{prev: s.state, next: next})
	s.state = next
	s.logger.Debug("view state changed", zap.String("op", op))

	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	for len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		listeners := s.sortedListeners()
		s.mu.Unlock()
		for _, l := range listeners {
			s.notify(l, t)
		}
		s.mu.Lock()
	}
	s.pending = nil
	s.dispatching = false
	s.mu.Unlock()
}

// notify runs one listener. A panicking listener is logged and skipped so the
// remaining listeners and later transitions are still delivered.
func (s *Store) notify(l Listener, t transition) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("view state listener panicked", zap.Any("panic", r))
		}
	}()
	l(t.prev, t.next)
}

func (s *Store) sortedListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}

// deriveOrgHighlight recomputes the highlighted landmark set. An unknown
// organization yields an empty, non-nil set.
func deriveOrgHighlight(st *State) {
	if st.HighlightedOrgID == "" {
		st.HighlightedLandmarkIDs = nil
		return
	}
	org, ok := st.FindOrganization(st.HighlightedOrgID)
	if !ok {
		st.HighlightedLandmarkIDs = []string{}
		return
	}
	st.HighlightedLandmarkIDs = orgmatch.LandmarkIDs(org, st.Landmarks)
}

func deriveTourHighlights(st *State) {
	st.TourHighlights = st.Tour.Highlights()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
