package tui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/search"
	"github.com/papapumpkin/atlas/internal/tour"
)

// listMode selects what the side list shows.
type listMode int

const (
	modeBrowse listMode = iota // entities in view
	modeSearch                 // search results
	modeTours                  // tour catalog
)

type listItem struct {
	ref    model.EntityRef
	tourID string
	label  string
	detail string
}

func browseItems(caps []model.Capability, landmarks []model.Landmark) []listItem {
	items := make([]listItem, 0, len(caps)+len(landmarks))
	for _, c := range caps {
		items = append(items, listItem{
			ref:    model.EntityRef{Type: model.EntityCapability, ID: c.ID},
			label:  c.Name,
			detail: c.Level.Label(),
		})
	}
	for _, l := range landmarks {
		items = append(items, listItem{
			ref:    model.EntityRef{Type: model.EntityLandmark, ID: l.ID},
			label:  l.Name,
			detail: fmt.Sprintf("%s %d", l.Type.Label(), l.Year),
		})
	}
	return items
}

func searchItems(results []search.Result) []listItem {
	items := make([]listItem, len(results))
	for i, r := range results {
		items[i] = listItem{ref: r.Ref(), label: r.Name, detail: string(r.EntityType)}
	}
	return items
}

func tourItems(tours []model.Tour) []listItem {
	sorted := tour.SortByDifficulty(tours)
	items := make([]listItem, len(sorted))
	for i, t := range sorted {
		items[i] = listItem{
			tourID: t.ID,
			label:  t.Title,
			detail: fmt.Sprintf("%s, %d stages", t.Difficulty, len(t.Stages)),
		}
	}
	return items
}

// renderList draws at most height rows, scrolled so the cursor stays visible.
func renderList(items []listItem, cursor, width, height int) string {
	if len(items) == 0 {
		return styleDetailDim.Render("  (nothing here)")
	}
	if height < 1 {
		height = 1
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(len(items), start+height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		it := items[i]
		text := truncate(it.label, max(width-len(it.detail)-4, 4))
		detail := styleDetailDim.Render(it.detail)
		if i == cursor {
			lines = append(lines, styleSelectionIndicator.Render(selectionIndicator)+" "+styleRowSelected.Render(text)+" "+detail)
		} else {
			lines = append(lines, "  "+styleRowNormal.Render(text)+" "+detail)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
