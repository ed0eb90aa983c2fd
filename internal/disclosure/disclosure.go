// Package disclosure decides which capabilities and landmarks are shown at a
// zoom level. The map reveals detail in three bands: continents first, then
// archipelagos, then islands and straits.
package disclosure

import (
	"math"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
)

// Band is a zoom band.
type Band int

const (
	Continental Band = iota // zoom below 1
	Archipelago             // zoom in [1, 2)
	Island                  // zoom 2 and above
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case Continental:
		return "continental"
	case Archipelago:
		return "archipelago"
	case Island:
		return "island"
	}
	return "unknown"
}

// BandForZoom maps a zoom level to its band. NaN maps to Continental.
func BandForZoom(zoom float64) Band {
	switch {
	case math.IsNaN(zoom), zoom < 1:
		return Continental
	case zoom < 2:
		return Archipelago
	default:
		return Island
	}
}

// CapabilityVisible reports whether a capability of the given level is drawn
// in band b.
func CapabilityVisible(level model.CapabilityLevel, b Band) bool {
	switch level {
	case model.LevelContinent:
		return true
	case model.LevelArchipelago:
		return b >= Archipelago
	case model.LevelIsland, model.LevelStrait:
		return b >= Island
	}
	return false
}

// LandmarkVisible reports whether a landmark with the given threshold is drawn
// in band b.
func LandmarkVisible(threshold int, b Band) bool {
	return threshold <= int(b)-1
}

// Capabilities returns the capabilities visible at zoom, preserving order.
func Capabilities(caps []model.Capability, zoom float64) []model.Capability {
	return capabilitiesIn(caps, BandForZoom(zoom))
}

// Landmarks returns the landmarks visible at zoom, preserving order.
func Landmarks(landmarks []model.Landmark, zoom float64) []model.Landmark {
	return landmarksIn(landmarks, BandForZoom(zoom))
}

func capabilitiesIn(caps []model.Capability, b Band) []model.Capability {
	if b == Island {
		return caps
	}
	out := make([]model.Capability, 0, len(caps))
	for _, c := range caps {
		if CapabilityVisible(c.Level, b) {
			out = append(out, c)
		}
	}
	return out
}

func landmarksIn(landmarks []model.Landmark, b Band) []model.Landmark {
	out := make([]model.Landmark, 0, len(landmarks))
	for _, l := range landmarks {
		if LandmarkVisible(l.ZoomThreshold, b) {
			out = append(out, l)
		}
	}
	return out
}

// DefaultCullBuffer is the fraction of the viewport span added on every side
// before culling, so markers do not pop in at the edges while panning.
const DefaultCullBuffer = 0.2

// Cull keeps the landmarks whose coordinates fall inside view grown by
// buffer. Empty bounds mean the viewport is unknown and keep everything.
func Cull(landmarks []model.Landmark, view geo.Bounds, buffer float64) []model.Landmark {
	if view.IsEmpty() {
		return landmarks
	}
	area := view.Buffered(buffer)
	out := make([]model.Landmark, 0, len(landmarks))
	for _, l := range landmarks {
		if area.Contains(l.Coordinates) {
			out = append(out, l)
		}
	}
	return out
}
