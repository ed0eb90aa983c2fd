package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
// In compact mode (narrow terminals), shows only key hints without descriptions.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		part := styleFooterKey.Render(help.Key)
		if !compact {
			part += styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	return styleFooter.Width(f.Width).Render(strings.Join(parts, sep))
}

// BrowseFooterBindings returns footer bindings while exploring the map.
func BrowseFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Enter, km.ZoomIn, km.ZoomOut, km.Search, km.Highlight, km.Tours, km.Back, km.Quit}
}

// SearchFooterBindings returns footer bindings while the search box is open.
func SearchFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Enter, km.Back}
}

// TourCatalogFooterBindings returns footer bindings in the tour picker.
func TourCatalogFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Enter, km.Back, km.Quit}
}

// TourFooterBindings returns footer bindings while a tour runs.
func TourFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.PrevStage, km.NextStage, km.Pause, km.Enter, km.ZoomIn, km.ZoomOut, km.Back, km.Quit}
}
