package urlstate

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/viewstate"
)

// DefaultDebounce is the quiet period before a state change is written.
const DefaultDebounce = 500 * time.Millisecond

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. It exists so tests can drive time by hand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Writer receives the encoded query string. An empty string means the view
// has no shareable parameters.
type Writer interface {
	WriteQuery(query string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(query string) error

// WriteQuery calls f.
func (f WriterFunc) WriteQuery(query string) error { return f(query) }

// Syncer mirrors the store into a Writer with debouncing: every relevant
// change cancels the pending write and schedules a new one, so a burst of
// changes produces one write. The state present when Start is called is
// never written.
type Syncer struct {
	store  *viewstate.Store
	w      Writer
	clock  Clock
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	timer   Timer
	gen     int
	last    string
	unsub   func()
	running bool
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithDebounce sets the quiet period. Negative values are ignored; zero
// writes on the next clock tick.
func WithDebounce(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) SyncerOption {
	return func(s *Syncer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSyncLogger sets the logger for write failures.
func WithSyncLogger(l *zap.Logger) SyncerOption {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSyncer creates a syncer from store to w. Call Start to begin.
func NewSyncer(store *viewstate.Store, w Writer, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:  store,
		w:      w,
		clock:  realClock{},
		delay:  DefaultDebounce,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start records the current query as already written and subscribes to
// the store.
func (s *Syncer) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.last = Query(ViewOf(s.store.State()))
	s.mu.Unlock()

	unsub := s.store.Subscribe(s.onChange)

	s.mu.Lock()
	s.unsub = unsub
	s.mu.Unlock()
}

// Stop unsubscribes and cancels any pending write.
func (s *Syncer) Stop() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.running = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		s.gen++
	}
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Flush writes immediately if a write is pending.
func (s *Syncer) Flush() {
	s.mu.Lock()
	pending := s.timer != nil
	if pending {
		s.timer.Stop()
		s.timer = nil
		s.gen++
	}
	s.mu.Unlock()
	if pending {
		s.write()
	}
}

// Last returns the most recently written query.
func (s *Syncer) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Syncer) onChange(prev, next viewstate.State) {
	if Query(ViewOf(prev)) == Query(ViewOf(next)) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
}

// fire runs on the clock's goroutine. A callback from a superseded timer
// that could not be stopped in time sees a newer generation and returns.
func (s *Syncer) fire(gen int) {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()
	s.write()
}

func (s *Syncer) write() {
	q := Query(ViewOf(s.store.State()))

	s.mu.Lock()
	if q == s.last {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.w.WriteQuery(q); err != nil {
		s.logger.Warn("url state write failed", zap.String("query", q), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.last = q
	s.mu.Unlock()
}
