// Package telemetry records explorer sessions as a JSONL event stream: one
// line per observable state change, so a session can be audited or replayed.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/viewstate"
)

// Session-level event kinds. State changes use the viewstate.ChangeKind
// string prefixed with "state.".
const (
	KindSessionStart = "session_start"
	KindSessionEnd   = "session_end"
	KindDataLoaded   = "data_loaded"
	KindSearch       = "search"
	KindShare        = "share"

	statePrefix = "state."
)

// StateKind returns the event kind recorded for a state change.
func StateKind(k viewstate.ChangeKind) string {
	return statePrefix + string(k)
}

// Event is a single telemetry record.
type Event struct {
	Timestamp time.Time      `json:"ts"`
	Kind      string         `json:"kind"`
	SessionID string         `json:"session,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Emitter writes events as JSON lines. It is safe for concurrent use.
// A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	enc    *json.Encoder
	now    func() time.Time
}

// NewEmitter appends events to the file at path, creating it if needed.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	e := NewWriterEmitter(f)
	e.closer = f
	return e, nil
}

// NewWriterEmitter writes events to w. Close does not close w.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, enc: json.NewEncoder(w), now: time.Now}
}

// Emit writes one event, stamping Timestamp when it is zero.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the emitter owns one.
func (e *Emitter) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.closer.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// Attach records every change of s as an event until the returned function
// is called. It emits session_start immediately and session_end on detach.
// Emit failures are logged and never interrupt the store.
func Attach(s *viewstate.Store, e *Emitter, logger *zap.Logger) (detach func()) {
	if e == nil {
		return func() {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	session := s.State().SessionID
	emit := func(evt Event) {
		evt.SessionID = session
		if err := e.Emit(evt); err != nil {
			logger.Warn("telemetry emit failed", zap.String("kind", evt.Kind), zap.Error(err))
		}
	}

	emit(Event{Kind: KindSessionStart})
	unsub := s.Subscribe(func(prev, next viewstate.State) {
		for _, c := range viewstate.Diff(prev, next) {
			emit(Event{Kind: StateKind(c.Kind), Data: c.Data})
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			unsub()
			emit(Event{Kind: KindSessionEnd})
		})
	}
}

// Decode reads every event from r. Blank lines are skipped; a malformed line
// stops decoding with an error naming the line number.
func Decode(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var out []Event
	for line := 1; ; line++ {
		var evt Event
		err := dec.Decode(&evt)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("telemetry: event %d: %w", line, err)
		}
		out = append(out, evt)
	}
}

// Format renders an event as one human-readable line:
// "[15:04:05] state.viewport session=abc lat=1 lng=2 zoom=1".
func Format(evt Event) string {
	parts := []string{fmt.Sprintf("[%s]", evt.Timestamp.Format(time.TimeOnly)), evt.Kind}
	if evt.SessionID != "" {
		parts = append(parts, "session="+evt.SessionID)
	}
	keys := make([]string, 0, len(evt.Data))
	for k := range evt.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, evt.Data[k]))
	}
	return strings.Join(parts, " ")
}
