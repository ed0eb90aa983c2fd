package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// BaseSpan is the latitude span shown at zoom 0 when no data is loaded.
const BaseSpan = 180.0

// Projection maps between map coordinates and terminal cells. A cell is
// about twice as tall as it is wide, so one row covers twice the degrees of
// one column.
type Projection struct {
	Center     geo.LatLng
	LatPerRow  float64
	LngPerCol  float64
	Cols, Rows int
}

// NewProjection frames the view so that at zoom 0 the whole data extent
// fits, and each zoom step halves the span.
func NewProjection(center geo.LatLng, zoom float64, data geo.Bounds, cols, rows int) Projection {
	cols, rows = max(cols, 1), max(rows, 1)
	span := BaseSpan
	if !data.IsEmpty() {
		sw, ne := data.SouthWest(), data.NorthEast()
		span = math.Max(ne.Lat-sw.Lat, (ne.Lng-sw.Lng)*2*float64(rows)/float64(cols)) * 1.1
		if span <= 0 {
			span = BaseSpan
		}
	}
	span /= math.Exp2(zoom)
	latPerRow := span / float64(rows)
	return Projection{Center: center, LatPerRow: latPerRow, LngPerCol: latPerRow / 2, Cols: cols, Rows: rows}
}

// Bounds returns the map area covered by the grid.
func (p Projection) Bounds() geo.Bounds {
	return geo.BoundsAround(p.Center, p.LatPerRow*float64(p.Rows), p.LngPerCol*float64(p.Cols))
}

// Cell returns the grid cell containing pt.
func (p Projection) Cell(pt geo.LatLng) (col, row int, ok bool) {
	north := p.Center.Lat + p.LatPerRow*float64(p.Rows)/2
	west := p.Center.Lng - p.LngPerCol*float64(p.Cols)/2
	col = int(math.Floor((pt.Lng - west) / p.LngPerCol))
	row = int(math.Floor((north - pt.Lat) / p.LatPerRow))
	ok = col >= 0 && col < p.Cols && row >= 0 && row < p.Rows
	return col, row, ok
}

// Point returns the map coordinate at the center of a cell.
func (p Projection) Point(col, row int) geo.LatLng {
	north := p.Center.Lat + p.LatPerRow*float64(p.Rows)/2
	west := p.Center.Lng - p.LngPerCol*float64(p.Cols)/2
	return geo.Pt(north-(float64(row)+0.5)*p.LatPerRow, west+(float64(col)+0.5)*p.LngPerCol)
}

type cell struct {
	glyph string
	style lipgloss.Style
	set   bool
}

// RenderMap draws capability regions and landmark markers into a cols×rows
// block. Finer capabilities are drawn over coarser ones.
func RenderMap(st viewstate.State, caps []model.Capability, landmarks []model.Landmark, proj Projection) string {
	grid := make([][]cell, proj.Rows)
	for r := range grid {
		grid[r] = make([]cell, proj.Cols)
	}

	view := proj.Bounds()
	regions := make([]model.Capability, 0, len(caps))
	for _, c := range caps {
		if geo.BoundsOf(c.PolygonCoordinates).Intersects(view) {
			regions = append(regions, c)
		}
	}
	styles := make(map[string]lipgloss.Style, len(regions))
	for _, c := range regions {
		styles[c.ID] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.VisualStyleHints.FillColor))
	}

	for r := 0; r < proj.Rows; r++ {
		for col := 0; col < proj.Cols; col++ {
			pt := proj.Point(col, r)
			best, rank := -1, -1
			for i, c := range regions {
				if c.Level.Rank() > rank && c.Contains(pt) {
					best, rank = i, c.Level.Rank()
				}
			}
			if best >= 0 {
				c := regions[best]
				grid[r][col] = cell{glyph: fillGlyph(c), style: styles[c.ID], set: true}
			}
		}
	}

	hl := st.TourHighlights
	touring := st.TourActive()
	for _, l := range landmarks {
		col, r, ok := proj.Cell(l.Coordinates)
		if !ok {
			continue
		}
		glyph := landmarkGlyph(l.Type)
		if prev := grid[r][col]; prev.set && isMarker(prev.glyph) {
			glyph = glyphCluster
		}
		grid[r][col] = cell{glyph: glyph, style: markerStyle(st, l.ID, touring, hl.Role(l.ID)), set: true}
	}

	var b strings.Builder
	plain := lipgloss.NewStyle()
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		// Render runs of equally styled cells together.
		var run strings.Builder
		runStyle, runSet := plain, false
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		for _, c := range row {
			style, glyph := plain, " "
			if c.set {
				style, glyph = c.style, c.glyph
			}
			if !runSet || !sameStyle(style, runStyle) {
				flush()
				runStyle, runSet = style, true
			}
			run.WriteString(glyph)
		}
		flush()
	}
	return b.String()
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetReverse() == b.GetReverse() &&
		a.GetBold() == b.GetBold() && a.GetFaint() == b.GetFaint()
}

func fillGlyph(c model.Capability) string {
	switch c.VisualStyleHints.Pattern {
	case model.PatternDots:
		return "·"
	case model.PatternStripes:
		return "╱"
	case model.PatternSolid:
		return "█"
	}
	switch c.Level {
	case model.LevelContinent:
		return "░"
	case model.LevelArchipelago:
		return "▒"
	default:
		return "▓"
	}
}

func landmarkGlyph(t model.LandmarkType) string {
	switch t {
	case model.LandmarkPaper:
		return glyphPaper
	case model.LandmarkModel:
		return glyphModel
	case model.LandmarkTool:
		return glyphTool
	case model.LandmarkBenchmark:
		return glyphBenchmark
	}
	return glyphCluster
}

func isMarker(g string) bool {
	switch g {
	case glyphPaper, glyphModel, glyphTool, glyphBenchmark, glyphCluster:
		return true
	}
	return false
}

// markerStyle picks the landmark style: selection first, then the tour role,
// then organization highlighting. During a tour, landmarks outside every
// stage are dimmed.
func markerStyle(st viewstate.State, id string, touring bool, role string) lipgloss.Style {
	if st.Selected != nil && st.Selected.Type == model.EntityLandmark && st.Selected.ID == id {
		return styleMarkerSelected
	}
	switch role {
	case "current":
		return styleMarkerCurrent
	case "previous":
		return styleMarkerPrevious
	case "future":
		return styleMarkerFuture
	}
	if st.IsLandmarkHighlighted(id) {
		return styleMarkerOrg
	}
	if touring {
		return styleMarkerDimmed
	}
	return styleMarker
}
