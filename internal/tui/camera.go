package tui

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// ErrNonFiniteView is returned for a NaN or infinite center or zoom.
var ErrNonFiniteView = errors.New("non-finite view")

// Camera is the explorer's map handle. FlyTo records a flight and returns
// immediately; the program advances it on frame ticks through Step, so a
// transition never blocks the caller or the store listener that issued it.
type Camera struct {
	store            *viewstate.Store
	minZoom, maxZoom float64
	now              func() time.Time

	mu     sync.Mutex
	flight *flight
}

type flight struct {
	from, to         geo.LatLng
	fromZoom, toZoom float64
	start            time.Time
	duration         time.Duration
	linearity        float64
}

// NewCamera returns a camera driving store, clamping zoom to [minZoom, maxZoom].
func NewCamera(store *viewstate.Store, minZoom, maxZoom float64) *Camera {
	if minZoom > maxZoom {
		minZoom, maxZoom = maxZoom, minZoom
	}
	return &Camera{store: store, minZoom: minZoom, maxZoom: maxZoom, now: time.Now}
}

// FlyTo starts an eased transition from the current view, replacing any
// flight in progress. A non-positive duration jumps instantly.
func (c *Camera) FlyTo(center geo.LatLng, zoom float64, opts viewstate.FlyOptions) error {
	if !center.IsFinite() || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return ErrNonFiniteView
	}
	if opts.Duration <= 0 {
		return c.SetView(center, zoom)
	}
	lin := opts.EaseLinearity
	if lin <= 0 || lin > 1 {
		lin = viewstate.DefaultFlyOptions.EaseLinearity
	}

	st := c.store.State()
	c.mu.Lock()
	c.flight = &flight{
		from:      st.MapCenter,
		to:        center,
		fromZoom:  st.CurrentZoom,
		toZoom:    c.clamp(zoom),
		start:     c.now(),
		duration:  opts.Duration,
		linearity: lin,
	}
	c.mu.Unlock()
	return nil
}

// SetView cancels any flight and moves the view at once.
func (c *Camera) SetView(center geo.LatLng, zoom float64) error {
	if !center.IsFinite() || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return ErrNonFiniteView
	}
	c.mu.Lock()
	c.flight = nil
	c.mu.Unlock()
	c.store.SetView(center, c.clamp(zoom))
	return nil
}

// Animating reports whether a flight is in progress.
func (c *Camera) Animating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flight != nil
}

// Step applies the view for the current instant of the flight in progress.
// It reports whether the flight continues after this frame.
func (c *Camera) Step() bool {
	c.mu.Lock()
	f := c.flight
	if f == nil {
		c.mu.Unlock()
		return false
	}
	t := float64(c.now().Sub(f.start)) / float64(f.duration)
	done := t >= 1
	if done {
		t = 1
		c.flight = nil
	}
	c.mu.Unlock()

	p := easeOut(t, f.linearity)
	center := geo.Pt(lerp(f.from.Lat, f.to.Lat, p), lerp(f.from.Lng, f.to.Lng, p))
	c.store.SetView(center, lerp(f.fromZoom, f.toZoom, p))
	return !done
}

func (c *Camera) clamp(z float64) float64 {
	return math.Max(c.minZoom, math.Min(c.maxZoom, z))
}

// easeOut maps linear progress t in [0,1] onto a decelerating curve. A
// linearity of 1 is linear; smaller values front-load the motion.
func easeOut(t, linearity float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(1-t, 1/linearity)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
