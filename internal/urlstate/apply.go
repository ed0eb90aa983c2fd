package urlstate

import (
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// Apply replays decoded parameters into the store: center, then zoom, then
// selection, then organization highlight. Absent parameters leave the
// corresponding state alone.
func Apply(s *viewstate.Store, p Params) {
	if p.Center != nil {
		s.SetCenter(*p.Center)
	}
	if p.Zoom != nil {
		s.SetZoom(float64(*p.Zoom))
	}
	if p.Selected != nil {
		s.SelectEntity(p.Selected.Type, p.Selected.ID)
	}
	if p.OrgID != "" {
		s.HighlightOrganization(p.OrgID)
	}
}
