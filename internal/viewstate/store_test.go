package viewstate

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/tour"
)

func fixtureCollections() Collections {
	return Collections{
		Capabilities: []model.Capability{
			{ID: "cap-lang", Level: model.LevelContinent, ZoomThreshold: -1,
				PolygonCoordinates: []geo.LatLng{geo.Pt(0, 0), geo.Pt(2, 0), geo.Pt(2, 2), geo.Pt(0, 2)}},
			{ID: "cap-reason", Level: model.LevelArchipelago, ZoomThreshold: 0, ParentCapabilityID: "cap-lang",
				PolygonCoordinates: []geo.LatLng{geo.Pt(0, 0), geo.Pt(1, 0), geo.Pt(1, 1)}},
		},
		Landmarks: []model.Landmark{
			{ID: "landmark-1", Organization: "Google DeepMind", Coordinates: geo.Pt(10, 20), ZoomThreshold: -1},
			{ID: "landmark-2", Organization: "OpenAI Research Team", Coordinates: geo.Pt(30, 40), ZoomThreshold: 0},
			{ID: "landmark-3", Organization: "Meta", Coordinates: geo.Pt(50, 60), ZoomThreshold: 1},
		},
		Organizations: []model.Organization{
			{ID: "org-001", Name: "Google DeepMind"},
			{ID: "org-002", Name: "OpenAI"},
			{ID: "org-003", Name: "Nobody Inc", LandmarkIDs: []string{}},
		},
		Tours: []model.Tour{fixtureTour()},
	}
}

func fixtureTour() model.Tour {
	return model.Tour{
		ID: "tour-1",
		Stages: []model.TourStage{
			{Index: 0, LandmarkIDs: []string{"landmark-1"}, MapCenter: geo.Pt(10, 20), MapZoom: 1},
			{Index: 1, LandmarkIDs: []string{"landmark-2"}, MapCenter: geo.Pt(30, 40), MapZoom: 2},
			{Index: 2, LandmarkIDs: []string{"landmark-3"}, MapCenter: geo.Pt(50, 60), MapZoom: 2},
		},
	}
}

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := New(opts...)
	s.SetCollections(fixtureCollections())
	return s
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s := New(WithInitialView(geo.Pt(1536, 2048), 0.5))
	st := s.State()
	if st.SessionID == "" {
		t.Error("expected a generated session ID")
	}
	if st.MapCenter != geo.Pt(1536, 2048) || st.CurrentZoom != 0.5 {
		t.Errorf("initial view = %v @ %v", st.MapCenter, st.CurrentZoom)
	}
	if st.Selected != nil || st.InfoPanelOpen || st.TourActive() {
		t.Errorf("new store should be idle: %+v", st)
	}

	other := New(WithSessionID("fixed"))
	if other.State().SessionID != "fixed" {
		t.Errorf("SessionID = %q", other.State().SessionID)
	}
}

func TestSetZoomAndCenter_IgnoreNonFinite(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetZoom(1.5)
	s.SetZoom(math.NaN())
	s.SetZoom(math.Inf(1))
	s.SetCenter(geo.Pt(5, 6))
	s.SetCenter(geo.Pt(math.NaN(), 1))

	st := s.State()
	if st.CurrentZoom != 1.5 {
		t.Errorf("CurrentZoom = %v, want 1.5", st.CurrentZoom)
	}
	if st.MapCenter != geo.Pt(5, 6) {
		t.Errorf("MapCenter = %v, want 5,6", st.MapCenter)
	}

	s.SetView(geo.Pt(math.Inf(-1), 0), 2)
	st = s.State()
	if st.MapCenter != geo.Pt(5, 6) || st.CurrentZoom != 2 {
		t.Errorf("SetView partial apply = %v @ %v", st.MapCenter, st.CurrentZoom)
	}
}

func TestVisibleSets_FollowZoom(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	tests := []struct {
		zoom      float64
		caps, lms int
	}{
		{0, 1, 1},
		{1, 2, 2},
		{2, 2, 3},
	}
	for _, tt := range tests {
		s.SetZoom(tt.zoom)
		if got := len(s.VisibleCapabilities()); got != tt.caps {
			t.Errorf("zoom %v: %d capabilities, want %d", tt.zoom, got, tt.caps)
		}
		if got := len(s.VisibleLandmarks()); got != tt.lms {
			t.Errorf("zoom %v: %d landmarks, want %d", tt.zoom, got, tt.lms)
		}
	}
}

func TestSelection_PanelInvariant(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	s.SelectEntity(model.EntityLandmark, "does-not-exist")
	st := s.State()
	if st.Selected == nil || st.Selected.ID != "does-not-exist" || !st.InfoPanelOpen {
		t.Fatalf("SelectEntity should select unconditionally and open the panel: %+v", st)
	}

	s.ClosePanel()
	st = s.State()
	if st.InfoPanelOpen || st.Selected != nil {
		t.Errorf("ClosePanel should clear selection too: %+v", st)
	}

	s.OpenPanel()
	if !s.State().InfoPanelOpen {
		t.Error("OpenPanel without selection should still open the panel")
	}

	s.SelectEntity(model.EntityCapability, "cap-lang")
	s.ClearSelection()
	st = s.State()
	if st.Selected != nil || st.InfoPanelOpen {
		t.Errorf("ClearSelection without a tour should close the panel: %+v", st)
	}

	s.StartTour(fixtureTour())
	s.SelectEntity(model.EntityCapability, "cap-lang")
	s.ClearSelection()
	st = s.State()
	if st.Selected != nil || !st.InfoPanelOpen {
		t.Errorf("ClearSelection during a tour should keep the panel: %+v", st)
	}
}

func TestHighlightOrganization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		org  string
		want []string
	}{
		{"exact name", "org-001", []string{"landmark-1"}},
		{"token overlap", "org-002", []string{"landmark-2"}},
		{"empty landmark ids", "org-003", []string{}},
		{"unknown org", "org-999", []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newStore(t)
			s.HighlightOrganization(tt.org)
			st := s.State()
			if st.HighlightedOrgID != tt.org {
				t.Errorf("HighlightedOrgID = %q, want %q", st.HighlightedOrgID, tt.org)
			}
			if st.HighlightedLandmarkIDs == nil {
				t.Fatal("highlighted set should be non-nil while an organization is highlighted")
			}
			if diff := cmp.Diff(tt.want, st.HighlightedLandmarkIDs); diff != "" {
				t.Errorf("HighlightedLandmarkIDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHighlight_RederivedOnReload(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	s.HighlightOrganization("org-002")
	if !s.State().IsLandmarkHighlighted("landmark-2") {
		t.Fatal("landmark-2 should be highlighted")
	}

	s.SetLandmarks([]model.Landmark{{ID: "landmark-9", Organization: "OpenAI"}})
	if diff := cmp.Diff([]string{"landmark-9"}, s.State().HighlightedLandmarkIDs); diff != "" {
		t.Errorf("after SetLandmarks (-want +got):\n%s", diff)
	}

	s.SetOrganizations(nil)
	if got := s.State().HighlightedLandmarkIDs; got == nil || len(got) != 0 {
		t.Errorf("after removing organizations = %#v, want empty", got)
	}

	s.ClearHighlights()
	st := s.State()
	if st.HighlightedOrgID != "" || st.HighlightedLandmarkIDs != nil {
		t.Errorf("ClearHighlights left %q %v", st.HighlightedOrgID, st.HighlightedLandmarkIDs)
	}
}

func TestTour_Lifecycle(t *testing.T) {
	t.Parallel()

	pausedAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	s := newStore(t, WithClock(func() time.Time { return pausedAt }))
	tr := fixtureTour()

	s.StartTour(tr)
	st := s.State()
	if !st.TourActive() || st.Tour.StageIndex != 0 || !st.InfoPanelOpen {
		t.Fatalf("StartTour state = %+v", st.Tour)
	}
	if diff := cmp.Diff(tour.Highlights{Current: []string{"landmark-1"}, Future: []string{"landmark-2", "landmark-3"}}, st.TourHighlights); diff != "" {
		t.Errorf("start highlights (-want +got):\n%s", diff)
	}

	for n := 0; n < len(tr.Stages)+5; n++ {
		s.AdvanceTourStage(tour.Next)
	}
	if got := s.State().Tour.StageIndex; got != len(tr.Stages)-1 {
		t.Errorf("StageIndex after overrun = %d", got)
	}

	s.GoToTourStage(1)
	s.PauseTour()
	s.SetZoom(5)
	s.AdvanceTourStage(tour.Next)
	st = s.State()
	if st.Tour.StageIndex != 1 || !st.Tour.Paused {
		t.Errorf("paused tour moved: %+v", st.Tour)
	}
	if st.Tour.Record == nil || !st.Tour.Record.PausedAt.Equal(pausedAt) || st.Tour.Record.TourID != "tour-1" {
		t.Errorf("pause record = %+v", st.Tour.Record)
	}

	s.ResumeTour()
	st = s.State()
	if st.Tour.Paused || st.Tour.Record != nil || st.Tour.StageIndex != 1 {
		t.Errorf("ResumeTour = %+v", st.Tour)
	}
	if diff := cmp.Diff([]string{"landmark-1"}, st.TourHighlights.Previous); diff != "" {
		t.Errorf("previous highlights (-want +got):\n%s", diff)
	}

	s.PauseTour()
	s.ClearTourPauseState()
	st = s.State()
	if st.Tour.Paused || st.Tour.Record != nil || !st.TourActive() {
		t.Errorf("ClearTourPauseState = %+v", st.Tour)
	}

	s.ExitTour()
	st = s.State()
	if st.TourActive() || st.Tour.StageIndex != 0 || !st.TourHighlights.IsEmpty() || st.InfoPanelOpen {
		t.Errorf("ExitTour = %+v panel=%v", st.Tour, st.InfoPanelOpen)
	}
}

func TestTour_ZeroStagesIgnored(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	calls := 0
	s.Subscribe(func(prev, next State) { calls++ })
	s.StartTour(model.Tour{ID: "empty"})
	if s.State().TourActive() {
		t.Error("a tour without stages should not start")
	}
	if calls != 0 {
		t.Errorf("no-op mutation notified %d times", calls)
	}
}

func TestSubscribe_OrderAndUnsubscribe(t *testing.T) {
	t.Parallel()

	s := New()
	var zooms []float64
	unsub := s.Subscribe(func(prev, next State) {
		zooms = append(zooms, next.CurrentZoom)
	})

	s.SetZoom(1)
	s.SetZoom(1) // unchanged, not delivered
	s.SetZoom(2)
	unsub()
	s.SetZoom(3)

	if diff := cmp.Diff([]float64{1, 2}, zooms); diff != "" {
		t.Errorf("delivered zooms (-want +got):\n%s", diff)
	}
}

func TestSubscribe_ReentrantMutationsQueued(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	var seen []string

	s.Subscribe(func(prev, next State) {
		if next.Selected != nil && (prev.Selected == nil || *prev.Selected != *next.Selected) {
			seen = append(seen, "select:"+next.Selected.ID)
			if next.HighlightedOrgID == "" {
				s.HighlightOrganization("org-001")
			}
		}
		if next.HighlightedOrgID != prev.HighlightedOrgID {
			seen = append(seen, "highlight:"+next.HighlightedOrgID)
		}
	})
	s.Subscribe(func(prev, next State) {
		if next.HighlightedOrgID != prev.HighlightedOrgID && next.Selected == nil {
			t.Error("second listener saw highlight before selection")
		}
	})

	s.SelectEntity(model.EntityLandmark, "landmark-1")

	if diff := cmp.Diff([]string{"select:landmark-1", "highlight:org-001"}, seen); diff != "" {
		t.Errorf("delivery order (-want +got):\n%s", diff)
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	var mu sync.Mutex
	delivered := 0
	s.Subscribe(func(prev, next State) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetZoom(float64(i%3) + 0.5 + float64(i)*1e-3)
			_ = s.VisibleLandmarks()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if delivered != 50 {
		t.Errorf("delivered %d transitions, want 50", delivered)
	}
}

func TestCapabilityAt(t *testing.T) {
	t.Parallel()

	st := newStore(t).State()
	c, ok := st.CapabilityAt(geo.Pt(0.8, 0.2))
	if !ok || c.ID != "cap-reason" {
		t.Errorf("CapabilityAt inner point = %q, %v; want cap-reason", c.ID, ok)
	}
	c, ok = st.CapabilityAt(geo.Pt(1.8, 1.8))
	if !ok || c.ID != "cap-lang" {
		t.Errorf("CapabilityAt outer point = %q, %v; want cap-lang", c.ID, ok)
	}
	if _, ok := st.CapabilityAt(geo.Pt(100, 100)); ok {
		t.Error("expected no capability far away")
	}
}
