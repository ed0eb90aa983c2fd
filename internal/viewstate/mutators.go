package viewstate

import (
	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/tour"
)

// SetCapabilities replaces the capability collection.
func (s *Store) SetCapabilities(caps []model.Capability) {
	s.update("set_capabilities", func(st *State) bool {
		st.Capabilities = caps
		return true
	})
}

// SetLandmarks replaces the landmark collection and re-derives the
// organization highlight.
func (s *Store) SetLandmarks(landmarks []model.Landmark) {
	s.update("set_landmarks", func(st *State) bool {
		st.Landmarks = landmarks
		deriveOrgHighlight(st)
		return true
	})
}

// SetOrganizations replaces the organization collection and re-derives the
// organization highlight.
func (s *Store) SetOrganizations(orgs []model.Organization) {
	s.update("set_organizations", func(st *State) bool {
		st.Organizations = orgs
		deriveOrgHighlight(st)
		return true
	})
}

// SetTours replaces the tour catalog. A running tour keeps its own copy.
func (s *Store) SetTours(tours []model.Tour) {
	s.update("set_tours", func(st *State) bool {
		st.Tours = tours
		return true
	})
}

// SetCollections replaces all four collections in one step.
func (s *Store) SetCollections(c Collections) {
	s.update("set_collections", func(st *State) bool {
		st.Collections = c
		deriveOrgHighlight(st)
		return true
	})
}

// SetZoom records the map zoom. Non-finite values are ignored.
func (s *Store) SetZoom(zoom float64) {
	s.update("set_zoom", func(st *State) bool {
		if !isFinite(zoom) || st.CurrentZoom == zoom {
			return false
		}
		st.CurrentZoom = zoom
		return true
	})
}

// SetCenter records the map center. Non-finite values are ignored.
func (s *Store) SetCenter(center geo.LatLng) {
	s.update("set_center", func(st *State) bool {
		if !center.IsFinite() || st.MapCenter == center {
			return false
		}
		st.MapCenter = center
		return true
	})
}

// SetView records center and zoom together. Either value is skipped when not
// finite.
func (s *Store) SetView(center geo.LatLng, zoom float64) {
	s.update("set_view", func(st *State) bool {
		changed := false
		if center.IsFinite() && st.MapCenter != center {
			st.MapCenter = center
			changed = true
		}
		if isFinite(zoom) && st.CurrentZoom != zoom {
			st.CurrentZoom = zoom
			changed = true
		}
		return changed
	})
}

// SelectEntity selects an entity and opens the info panel. The ID is not
// checked against the loaded collections.
func (s *Store) SelectEntity(t model.EntityType, id string) {
	s.update("select_entity", func(st *State) bool {
		st.Selected = &model.EntityRef{Type: t, ID: id}
		st.InfoPanelOpen = true
		return true
	})
}

// ClearSelection drops the selection. The info panel stays open only while a
// tour is active.
func (s *Store) ClearSelection() {
	s.update("clear_selection", func(st *State) bool {
		open := st.TourActive()
		if st.Selected == nil && st.InfoPanelOpen == open {
			return false
		}
		st.Selected = nil
		st.InfoPanelOpen = open
		return true
	})
}

// OpenPanel shows the info panel.
func (s *Store) OpenPanel() {
	s.update("open_panel", func(st *State) bool {
		if st.InfoPanelOpen {
			return false
		}
		st.InfoPanelOpen = true
		return true
	})
}

// ClosePanel hides the info panel and clears the selection with it.
func (s *Store) ClosePanel() {
	s.update("close_panel", func(st *State) bool {
		if !st.InfoPanelOpen && st.Selected == nil {
			return false
		}
		st.InfoPanelOpen = false
		st.Selected = nil
		return true
	})
}

// SetViewport attaches the renderer's map handle. Passing nil detaches it.
func (s *Store) SetViewport(v Viewport) {
	s.update("set_viewport", func(st *State) bool {
		s.viewport = v
		st.ViewportAttached = v != nil
		return true
	})
}

// HighlightOrganization highlights the landmarks matched to the organization.
// An unknown ID is kept with an empty landmark set. An empty ID clears the
// highlight.
func (s *Store) HighlightOrganization(id string) {
	s.update("highlight_organization", func(st *State) bool {
		st.HighlightedOrgID = id
		deriveOrgHighlight(st)
		return true
	})
}

// ClearHighlights removes the organization highlight.
func (s *Store) ClearHighlights() {
	s.update("clear_highlights", func(st *State) bool {
		if st.HighlightedOrgID == "" && st.HighlightedLandmarkIDs == nil {
			return false
		}
		st.HighlightedOrgID = ""
		st.HighlightedLandmarkIDs = nil
		return true
	})
}

// StartTour begins t at its first stage and opens the info panel. Tours
// without stages are ignored.
func (s *Store) StartTour(t model.Tour) {
	s.update("start_tour", func(st *State) bool {
		if len(t.Stages) == 0 {
			s.logger.Warn("ignoring tour without stages")
			return false
		}
		st.Tour = st.Tour.Start(t)
		st.InfoPanelOpen = true
		deriveTourHighlights(st)
		return true
	})
}

// AdvanceTourStage moves one stage forward or back. It does nothing at either
// end, while paused, or without a tour.
func (s *Store) AdvanceTourStage(dir tour.Direction) {
	s.progress("advance_tour_stage", func(p tour.Progress) tour.Progress { return p.Advance(dir) })
}

// GoToTourStage jumps to stage i of the running tour.
func (s *Store) GoToTourStage(i int) {
	s.progress("go_to_tour_stage", func(p tour.Progress) tour.Progress { return p.GoTo(i) })
}

// PauseTour pauses the running tour, recording the stage and time.
func (s *Store) PauseTour() {
	s.progress("pause_tour", func(p tour.Progress) tour.Progress { return p.Pause(s.now()) })
}

// ResumeTour restores the stage recorded by PauseTour.
func (s *Store) ResumeTour() {
	s.progress("resume_tour", tour.Progress.Resume)
}

// ClearTourPauseState discards the pause record and unpauses without moving.
func (s *Store) ClearTourPauseState() {
	s.progress("clear_tour_pause_state", tour.Progress.ClearPause)
}

// ExitTour ends the tour and clears tour highlights. The info panel stays
// open only if an entity is selected.
func (s *Store) ExitTour() {
	s.update("exit_tour", func(st *State) bool {
		if !st.TourActive() {
			return false
		}
		st.Tour = st.Tour.Exit()
		st.TourHighlights = tour.Highlights{}
		st.InfoPanelOpen = st.Selected != nil
		return true
	})
}

// UpdateTourHighlights re-derives the tour highlights from the current stage.
func (s *Store) UpdateTourHighlights() {
	s.update("update_tour_highlights", func(st *State) bool {
		deriveTourHighlights(st)
		return true
	})
}

func (s *Store) progress(op string, step func(tour.Progress) tour.Progress) {
	s.update(op, func(st *State) bool {
		next := step(st.Tour)
		if progressEqual(st.Tour, next) {
			return false
		}
		st.Tour = next
		deriveTourHighlights(st)
		return true
	})
}

func progressEqual(a, b tour.Progress) bool {
	return a.Tour == b.Tour && a.StageIndex == b.StageIndex &&
		a.Paused == b.Paused && a.Record == b.Record
}
