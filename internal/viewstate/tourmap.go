package viewstate

import (
	"go.uber.org/zap"
)

// TourMapSync keeps the viewport on the current tour stage. It flies to the
// stage whenever the tour, the stage index or the viewport handle changes
// while a tour is loaded.
type TourMapSync struct {
	store  *Store
	opts   FlyOptions
	logger *zap.Logger
	unsub  func()
}

// NewTourMapSync creates a sync for store. Zero-valued options fall back to
// DefaultFlyOptions field by field.
func NewTourMapSync(store *Store, opts FlyOptions, logger *zap.Logger) *TourMapSync {
	if opts.Duration <= 0 {
		opts.Duration = DefaultFlyOptions.Duration
	}
	if opts.EaseLinearity <= 0 || opts.EaseLinearity > 1 {
		opts.EaseLinearity = DefaultFlyOptions.EaseLinearity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TourMapSync{store: store, opts: opts, logger: logger}
}

// Start subscribes to the store. Calling Start twice has no further effect.
func (t *TourMapSync) Start() {
	if t.unsub != nil {
		return
	}
	t.unsub = t.store.Subscribe(t.onChange)
}

// Stop unsubscribes.
func (t *TourMapSync) Stop() {
	if t.unsub != nil {
		t.unsub()
		t.unsub = nil
	}
}

func (t *TourMapSync) onChange(prev, next State) {
	if !next.TourActive() || next.Tour.Paused {
		return
	}
	stageChanged := prev.Tour.Tour != next.Tour.Tour || prev.Tour.StageIndex != next.Tour.StageIndex
	attached := !prev.ViewportAttached && next.ViewportAttached
	resumed := prev.Tour.Paused && !next.Tour.Paused
	if !stageChanged && !attached && !resumed {
		return
	}

	stage, ok := next.Tour.Stage()
	if !ok {
		return
	}
	vp := t.store.Viewport()
	if vp == nil {
		return
	}
	t.logger.Debug("tour stage transition",
		zap.String("tour", next.Tour.Tour.ID), zap.Int("stage", next.Tour.StageIndex))
	Move(vp, stage.MapCenter, stage.MapZoom, t.opts, t.logger)
}
