package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/orgmatch"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// renderPanel draws the info panel: the active tour stage, then the selected
// entity.
func renderPanel(st viewstate.State, width int) string {
	inner := max(width-4, 10)
	wrap := lipgloss.NewStyle().Width(inner)

	var sections []string
	if st.TourActive() {
		sections = append(sections, tourSection(st, wrap))
	}
	if st.Selected != nil {
		sections = append(sections, selectionSection(st, *st.Selected, wrap))
	}
	if len(sections) == 0 {
		sections = append(sections, styleDetailDim.Render("Select an entity to see its details."))
	}
	return styleDetailBorder.Width(width - 2).Render(strings.Join(sections, "\n\n"))
}

func tourSection(st viewstate.State, wrap lipgloss.Style) string {
	p := st.Tour
	stage, _ := p.Stage()
	lines := []string{
		styleDetailTitle.Render(p.Tour.Title) + styleDetailDim.Render(fmt.Sprintf("  stage %d/%d", p.StageIndex+1, len(p.Tour.Stages))),
		styleRowSelected.Render(stage.Title),
	}
	if p.Paused {
		lines = append(lines, styleDetailWarn.Render("PAUSED"))
	}
	if stage.Narration != "" {
		lines = append(lines, wrap.Render(stage.Narration))
	} else if stage.Description != "" {
		lines = append(lines, wrap.Render(stage.Description))
	}
	return strings.Join(lines, "\n")
}

func selectionSection(st viewstate.State, ref model.EntityRef, wrap lipgloss.Style) string {
	switch ref.Type {
	case model.EntityCapability:
		if c, ok := st.FindCapability(ref.ID); ok {
			lines := []string{
				styleDetailTitle.Render(c.Name),
				styleDetailDim.Render(c.Level.Label()),
				wrap.Render(firstNonEmpty(c.Description, c.ShortDescription)),
			}
			if n := len(c.RelatedLandmarks); n > 0 {
				lines = append(lines, styleDetailDim.Render(fmt.Sprintf("%d related landmark(s)", n)))
			}
			return strings.Join(lines, "\n")
		}
	case model.EntityLandmark:
		if l, ok := st.FindLandmark(ref.ID); ok {
			lines := []string{
				styleDetailTitle.Render(l.Name),
				styleDetailDim.Render(fmt.Sprintf("%s · %d · %s", l.Type.Label(), l.Year, l.Organization)),
				wrap.Render(l.Description),
			}
			for _, link := range l.ExternalLinks {
				lines = append(lines, styleStatusLink.Render(firstNonEmpty(link.Label, string(link.Type)))+" "+styleDetailDim.Render(link.URL))
			}
			return strings.Join(lines, "\n")
		}
	case model.EntityOrganization:
		if o, ok := st.FindOrganization(ref.ID); ok {
			lines := []string{
				styleDetailTitle.Render(o.Name),
				wrap.Render(o.Description),
				styleDetailDim.Render(fmt.Sprintf("%d landmark(s)", len(orgmatch.LandmarkIDs(o, st.Landmarks)))),
			}
			if o.Website != "" {
				lines = append(lines, styleStatusLink.Render(o.Website))
			}
			return strings.Join(lines, "\n")
		}
	}
	return styleDetailDim.Render(fmt.Sprintf("%s %q not found", ref.Type, ref.ID))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
