package viewstate

import (
	"time"

	"github.com/papapumpkin/atlas/internal/geo"
)

// FlyOptions tunes an animated viewport transition.
type FlyOptions struct {
	Duration      time.Duration
	EaseLinearity float64
}

// DefaultFlyOptions match the tour transition defaults.
var DefaultFlyOptions = FlyOptions{Duration: time.Second, EaseLinearity: 0.25}

// Viewport is the map handle owned by the renderer. Transitions are
// fire-and-forget: a later call supersedes an in-flight one and nothing in
// this package waits for completion.
type Viewport interface {
	FlyTo(center geo.LatLng, zoom float64, opts FlyOptions) error
	SetView(center geo.LatLng, zoom float64) error
}
