// Package viewstate holds the explorer's single source of truth: the loaded
// collections, the map viewport, the selection, organization highlighting and
// tour progress. All writes go through Store mutators; readers take snapshots
// or subscribe to changes.
package viewstate

import (
	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/tour"
)

// Collections groups the four loaded entity sets.
type Collections struct {
	Capabilities  []model.Capability
	Landmarks     []model.Landmark
	Organizations []model.Organization
	Tours         []model.Tour
}

// State is an immutable snapshot of the view. Slices are shared between
// snapshots and must be treated as read-only.
type State struct {
	SessionID string

	Collections

	CurrentZoom float64
	MapCenter   geo.LatLng

	Selected      *model.EntityRef
	InfoPanelOpen bool

	// HighlightedLandmarkIDs is derived from HighlightedOrgID and the
	// loaded landmarks and organizations. It is nil when no organization is
	// highlighted and non-nil (possibly empty) when one is.
	HighlightedOrgID       string
	HighlightedLandmarkIDs []string

	Tour           tour.Progress
	TourHighlights tour.Highlights

	ViewportAttached bool
}

// IsLandmarkHighlighted reports whether id belongs to the highlighted
// organization.
func (s State) IsLandmarkHighlighted(id string) bool {
	for _, x := range s.HighlightedLandmarkIDs {
		if x == id {
			return true
		}
	}
	return false
}

// TourActive reports whether a tour is running or paused.
func (s State) TourActive() bool {
	return s.Tour.Tour != nil
}

// FindCapability returns the capability with the given ID.
func (s State) FindCapability(id string) (model.Capability, bool) {
	for _, c := range s.Capabilities {
		if c.ID == id {
			return c, true
		}
	}
	return model.Capability{}, false
}

// FindLandmark returns the landmark with the given ID.
func (s State) FindLandmark(id string) (model.Landmark, bool) {
	for _, l := range s.Landmarks {
		if l.ID == id {
			return l, true
		}
	}
	return model.Landmark{}, false
}

// FindOrganization returns the organization with the given ID.
func (s State) FindOrganization(id string) (model.Organization, bool) {
	for _, o := range s.Organizations {
		if o.ID == id {
			return o, true
		}
	}
	return model.Organization{}, false
}

// CapabilityAt returns the finest capability whose polygon contains p.
func (s State) CapabilityAt(p geo.LatLng) (model.Capability, bool) {
	var best model.Capability
	found := false
	for _, c := range s.Capabilities {
		if c.Contains(p) && (!found || c.Level.Rank() > best.Level.Rank()) {
			best, found = c, true
		}
	}
	return best, found
}
