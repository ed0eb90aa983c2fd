package viewstate

import (
	"slices"
)

// ChangeKind names one observable aspect of a transition.
type ChangeKind string

// Change kinds, in the order Diff reports them.
const (
	ChangeCollections  ChangeKind = "collections"
	ChangeViewport     ChangeKind = "viewport"
	ChangeSelection    ChangeKind = "selection"
	ChangePanel        ChangeKind = "panel"
	ChangeOrgHighlight ChangeKind = "org_highlight"
	ChangeTour         ChangeKind = "tour"
	ChangeTourStage    ChangeKind = "tour_stage"
	ChangeTourPause    ChangeKind = "tour_pause"
)

// Change describes one aspect that differs between two states.
type Change struct {
	Kind ChangeKind     `json:"kind"`
	Data map[string]any `json:"data,omitempty"`
}

// Diff lists what changed from prev to next, in a fixed order.
func Diff(prev, next State) []Change {
	var out []Change

	if len(prev.Capabilities) != len(next.Capabilities) || len(prev.Landmarks) != len(next.Landmarks) ||
		len(prev.Organizations) != len(next.Organizations) || len(prev.Tours) != len(next.Tours) {
		out = append(out, Change{Kind: ChangeCollections, Data: map[string]any{
			"capabilities":  len(next.Capabilities),
			"landmarks":     len(next.Landmarks),
			"organizations": len(next.Organizations),
			"tours":         len(next.Tours),
		}})
	}

	if prev.MapCenter != next.MapCenter || prev.CurrentZoom != next.CurrentZoom {
		out = append(out, Change{Kind: ChangeViewport, Data: map[string]any{
			"lat":  next.MapCenter.Lat,
			"lng":  next.MapCenter.Lng,
			"zoom": next.CurrentZoom,
		}})
	}

	if !sameRef(prev, next) {
		data := map[string]any{}
		if next.Selected != nil {
			data["type"] = string(next.Selected.Type)
			data["id"] = next.Selected.ID
		}
		out = append(out, Change{Kind: ChangeSelection, Data: data})
	}

	if prev.InfoPanelOpen != next.InfoPanelOpen {
		out = append(out, Change{Kind: ChangePanel, Data: map[string]any{"open": next.InfoPanelOpen}})
	}

	if prev.HighlightedOrgID != next.HighlightedOrgID || !slices.Equal(prev.HighlightedLandmarkIDs, next.HighlightedLandmarkIDs) {
		out = append(out, Change{Kind: ChangeOrgHighlight, Data: map[string]any{
			"org":       next.HighlightedOrgID,
			"landmarks": len(next.HighlightedLandmarkIDs),
		}})
	}

	switch {
	case prev.Tour.Tour != next.Tour.Tour:
		data := map[string]any{}
		if next.Tour.Tour != nil {
			data["id"] = next.Tour.Tour.ID
			data["stages"] = len(next.Tour.Tour.Stages)
		}
		out = append(out, Change{Kind: ChangeTour, Data: data})
	case prev.Tour.StageIndex != next.Tour.StageIndex:
		out = append(out, Change{Kind: ChangeTourStage, Data: map[string]any{
			"from": prev.Tour.StageIndex,
			"to":   next.Tour.StageIndex,
		}})
	}

	if prev.Tour.Paused != next.Tour.Paused {
		out = append(out, Change{Kind: ChangeTourPause, Data: map[string]any{"paused": next.Tour.Paused}})
	}

	return out
}

func sameRef(prev, next State) bool {
	switch {
	case prev.Selected == nil && next.Selected == nil:
		return true
	case prev.Selected == nil || next.Selected == nil:
		return false
	default:
		return *prev.Selected == *next.Selected
	}
}
