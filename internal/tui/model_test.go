package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

func fixtureCollections() viewstate.Collections {
	return viewstate.Collections{
		Capabilities: []model.Capability{{
			ID: "cap-1", Name: "Language Modeling", Level: model.LevelContinent, ZoomThreshold: -1,
			PolygonCoordinates: []geo.LatLng{geo.Pt(0, 0), geo.Pt(0, 10), geo.Pt(10, 10), geo.Pt(10, 0)},
			VisualStyleHints:   model.VisualStyle{FillColor: "#336699"},
		}},
		Landmarks: []model.Landmark{{
			ID: "lm-1", Name: "Attention Is All You Need", Type: model.LandmarkPaper, Year: 2017,
			Organization: "Google", Coordinates: geo.Pt(5.3, 5.3), CapabilityID: "cap-1", ZoomThreshold: -1,
		}},
		Organizations: []model.Organization{{ID: "org-1", Name: "Google", LandmarkIDs: []string{"lm-1"}}},
		Tours: []model.Tour{{
			ID: "tour-1", Title: "Transformers", Difficulty: model.DifficultyBeginner,
			Stages: []model.TourStage{
				{Index: 0, Title: "Origins", LandmarkIDs: []string{"lm-1"}, MapCenter: geo.Pt(5, 5), MapZoom: 1},
				{Index: 1, Title: "Scale", MapCenter: geo.Pt(6, 6), MapZoom: 2},
			},
		}},
	}
}

func newTestModel(t *testing.T) (Model, *viewstate.Store, *stepClock) {
	t.Helper()
	s := viewstate.New(viewstate.WithInitialView(geo.Pt(5, 5), 0))
	s.SetCollections(fixtureCollections())
	cam := NewCamera(s, -1, 4)
	clock := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cam.now = clock.now

	m := NewModel(Options{Store: s, Camera: cam})
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, s, clock
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m = update(m, keyMsg(k))
	}
	return m
}

func TestModel_ZoomKeyFlies(t *testing.T) {
	t.Parallel()
	m, s, clock := newTestModel(t)

	m = press(m, "+")
	if z := s.State().CurrentZoom; z != 0 {
		t.Fatalf("zoom moved before the first frame: %v", z)
	}
	clock.t = clock.t.Add(time.Second)
	m = update(m, frameMsg(clock.t))
	if z := s.State().CurrentZoom; z != 1 {
		t.Errorf("zoom after flight = %v, want 1", z)
	}

	for n := 0; n < 3; n++ {
		m = press(m, "-")
		clock.t = clock.t.Add(time.Second)
		m = update(m, frameMsg(clock.t))
	}
	if z := s.State().CurrentZoom; z != -1 {
		t.Errorf("zoom should clamp at -1, got %v", z)
	}
}

func TestModel_BrowseSelectAndHighlight(t *testing.T) {
	t.Parallel()
	m, s, _ := newTestModel(t)

	m = press(m, "enter")
	st := s.State()
	if st.Selected == nil || st.Selected.ID != "cap-1" || !st.InfoPanelOpen {
		t.Fatalf("enter on first item should select cap-1, got %+v", st.Selected)
	}

	m = press(m, "down", "enter")
	if sel := s.State().Selected; sel == nil || sel.ID != "lm-1" {
		t.Fatalf("second item should be lm-1, got %+v", sel)
	}

	m = press(m, "o")
	if got := s.State().HighlightedOrgID; got != "org-1" {
		t.Errorf("highlight = %q, want org-1", got)
	}
	m = press(m, "o")
	if got := s.State().HighlightedOrgID; got != "" {
		t.Errorf("second toggle should clear, got %q", got)
	}

	press(m, "esc")
	st = s.State()
	if st.InfoPanelOpen || st.Selected != nil {
		t.Error("esc should close the panel and drop the selection")
	}
}

func TestModel_Search(t *testing.T) {
	t.Parallel()
	m, s, _ := newTestModel(t)

	m = press(m, "/")
	if m.mode != modeSearch {
		t.Fatalf("mode = %v, want search", m.mode)
	}
	m = press(m, "Attention")
	if len(m.results) == 0 || m.results[0].ID != "lm-1" {
		t.Fatalf("results = %+v", m.results)
	}
	m = press(m, "enter")
	if m.mode != modeBrowse {
		t.Error("enter should leave search")
	}
	if sel := s.State().Selected; sel == nil || sel.ID != "lm-1" {
		t.Errorf("selected = %+v, want lm-1", sel)
	}
}

func TestModel_TourControls(t *testing.T) {
	t.Parallel()
	m, s, _ := newTestModel(t)

	m = press(m, "t", "enter")
	st := s.State()
	if !st.TourActive() || st.Tour.StageIndex != 0 {
		t.Fatalf("tour not started: %+v", st.Tour)
	}

	m = press(m, "]")
	if got := s.State().Tour.StageIndex; got != 1 {
		t.Errorf("stage = %d, want 1", got)
	}
	m = press(m, "space")
	if !s.State().Tour.Paused {
		t.Error("space should pause")
	}
	m = press(m, "space")
	st = s.State()
	if st.Tour.Paused || st.Tour.StageIndex != 1 {
		t.Errorf("resume should return to stage 1, got %+v", st.Tour)
	}

	press(m, "esc")
	if s.State().TourActive() {
		t.Error("esc should exit the tour")
	}
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)

	out := m.View()
	for _, want := range []string{"ATLAS", glyphPaper, "Language Modeling"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	t.Parallel()
	s := viewstate.New()
	m := NewModel(Options{Store: s})
	if got := m.View(); got != "loading…" {
		t.Errorf("View() = %q", got)
	}
	if s.Viewport() == nil {
		t.Error("NewModel should attach its camera")
	}
}
