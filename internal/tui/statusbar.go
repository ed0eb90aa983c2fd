package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/atlas/internal/disclosure"
	"github.com/papapumpkin/atlas/internal/urlstate"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// CompactWidth is the terminal width below which bars drop descriptions.
const CompactWidth = 80

// ShareLink receives debounced queries from the URL syncer and exposes the
// resulting share URL to the status bar.
type ShareLink struct {
	base string

	mu    sync.Mutex
	query string
}

// NewShareLink returns a link rooted at base.
func NewShareLink(base string) *ShareLink {
	return &ShareLink{base: base}
}

// WriteQuery records the latest encoded view.
func (l *ShareLink) WriteQuery(q string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = q
	return nil
}

// URL returns the share URL for the last written query.
func (l *ShareLink) URL() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return urlstate.JoinQuery(l.base, l.query)
}

// StatusBar renders the top bar: zoom band, center, the region under the
// center and the share link.
type StatusBar struct {
	Width int
}

// View renders the status bar as a single line. The link is truncated first
// when space runs out.
func (s StatusBar) View(st viewstate.State, link string) string {
	const barPadding = 2
	inner := max(s.Width-barPadding, 0)
	compact := s.Width < CompactWidth

	segments := []string{
		styleStatusLabel.Render("ATLAS"),
		styleStatusValue.Render(fmt.Sprintf("z%.1f", st.CurrentZoom)),
	}
	if !compact {
		segments = append(segments, styleStatusValue.Render(disclosure.BandForZoom(st.CurrentZoom).String()))
	}
	segments = append(segments, styleStatusValue.Render(st.MapCenter.String()))
	if c, ok := st.CapabilityAt(st.MapCenter); ok {
		segments = append(segments, styleStatusLabel.Render(c.Name))
	}
	if st.Tour.Paused {
		segments = append(segments, styleDetailWarn.Render("PAUSED"))
	}
	left := strings.Join(segments, "  ")

	right := ""
	if room := inner - lipgloss.Width(left) - 2; link != "" && room > 8 {
		right = styleStatusLink.Render(truncate(link, room))
	}
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styleStatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
