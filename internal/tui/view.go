package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/atlas/internal/disclosure"
	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// layout returns the map and side panel sizes for the current window.
func (m Model) layout() (mapCols, sideCols, rows int) {
	const chrome = 3 // status bar + footer with its border
	rows = max(m.height-chrome, 1)
	sideCols = max(28, min(48, m.width/3))
	mapCols = max(m.width-sideCols-1, 1)
	return mapCols, sideCols, rows
}

func (m Model) projection(st viewstate.State) Projection {
	cols, _, rows := m.layout()
	return NewProjection(st.MapCenter, st.CurrentZoom, m.extent, cols, rows)
}

// inView returns the visible capabilities and landmarks that intersect the
// map area.
func (m Model) inView(st viewstate.State, proj Projection) ([]model.Capability, []model.Landmark) {
	view := proj.Bounds()
	var caps []model.Capability
	for _, c := range m.store.VisibleCapabilities() {
		if geo.BoundsOf(c.PolygonCoordinates).Intersects(view) {
			caps = append(caps, c)
		}
	}
	return caps, disclosure.Cull(m.store.VisibleLandmarks(), view, disclosure.DefaultCullBuffer)
}

func (m Model) items(st viewstate.State) []listItem {
	switch m.mode {
	case modeSearch:
		return searchItems(m.results)
	case modeTours:
		return tourItems(st.Tours)
	}
	return browseItems(m.inView(st, m.projection(st)))
}

// View renders the status bar, the map beside the side panel, and the footer.
func (m Model) View() string {
	if m.width == 0 {
		return "loading…"
	}
	st := m.store.State()
	mapCols, sideCols, rows := m.layout()
	proj := m.projection(st)
	caps, landmarks := m.inView(st, proj)

	status := StatusBar{Width: m.width}.View(st, m.share.URL())
	footer := Footer{Width: m.width, Bindings: m.footerBindings(st)}.View()

	var side []string
	if st.InfoPanelOpen || st.TourActive() {
		side = append(side, renderPanel(st, sideCols))
	}
	switch m.mode {
	case modeSearch:
		side = append(side, m.input.View())
	case modeTours:
		side = append(side, styleDetailTitle.Render("Tours"))
	}
	if m.message != "" {
		side = append(side, styleDetailWarn.Render(truncate(m.message, sideCols)))
	}
	used := lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, side...))
	if len(side) == 0 {
		used = 0
	}
	var items []listItem
	if m.mode == modeBrowse {
		items = browseItems(caps, landmarks)
	} else {
		items = m.items(st)
	}
	side = append(side, renderList(items, m.cursor, sideCols, rows-used))

	mapView := lipgloss.NewStyle().Width(mapCols).Height(rows).Render(RenderMap(st, caps, landmarks, proj))
	sideView := lipgloss.NewStyle().Width(sideCols).MaxHeight(rows).Render(lipgloss.JoinVertical(lipgloss.Left, side...))
	body := lipgloss.JoinHorizontal(lipgloss.Top, mapView, " ", sideView)
	return lipgloss.JoinVertical(lipgloss.Left, status, body, footer)
}

func (m Model) footerBindings(st viewstate.State) []key.Binding {
	switch {
	case m.mode == modeSearch:
		return SearchFooterBindings(SearchKeyMap())
	case m.mode == modeTours:
		return TourCatalogFooterBindings(m.keys)
	case st.TourActive():
		return TourFooterBindings(m.keys)
	}
	return BrowseFooterBindings(m.keys)
}
