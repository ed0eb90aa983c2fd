package viewstate

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/tour"
)

type viewCall struct {
	center geo.LatLng
	zoom   float64
	opts   FlyOptions
}

type fakeViewport struct {
	mu     sync.Mutex
	flyErr error
	setErr error
	panics bool
	flies  []viewCall
	sets   []viewCall
}

func (f *fakeViewport) FlyTo(center geo.LatLng, zoom float64, opts FlyOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("map not ready")
	}
	f.flies = append(f.flies, viewCall{center: center, zoom: zoom, opts: opts})
	return f.flyErr
}

func (f *fakeViewport) SetView(center geo.LatLng, zoom float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, viewCall{center: center, zoom: zoom})
	return f.setErr
}

func (f *fakeViewport) counts() (flies, sets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flies), len(f.sets)
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestMove_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		vp        *fakeViewport
		wantFlies int
		wantSets  int
		wantWarn  int
		wantError int
	}{
		{name: "animated", vp: &fakeViewport{}, wantFlies: 1},
		{name: "fly fails", vp: &fakeViewport{flyErr: errors.New("no map")}, wantFlies: 1, wantSets: 1, wantWarn: 1},
		{name: "fly panics", vp: &fakeViewport{panics: true}, wantSets: 1, wantWarn: 1},
		{name: "both fail", vp: &fakeViewport{flyErr: errors.New("a"), setErr: errors.New("b")}, wantFlies: 1, wantSets: 1, wantWarn: 1, wantError: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, logs := observed()
			Move(tt.vp, geo.Pt(1, 2), 2, DefaultFlyOptions, logger)

			flies, sets := tt.vp.counts()
			if flies != tt.wantFlies || sets != tt.wantSets {
				t.Errorf("flies=%d sets=%d, want %d/%d", flies, sets, tt.wantFlies, tt.wantSets)
			}
			if got := logs.FilterLevelExact(zapcore.WarnLevel).Len(); got != tt.wantWarn {
				t.Errorf("warn logs = %d, want %d", got, tt.wantWarn)
			}
			if got := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); got != tt.wantError {
				t.Errorf("error logs = %d, want %d", got, tt.wantError)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	t.Parallel()

	st := newStore(t).State()
	tests := []struct {
		name       string
		ref        model.EntityRef
		wantCenter geo.LatLng
		wantZoom   float64
		wantErr    error
	}{
		{"landmark", model.EntityRef{Type: model.EntityLandmark, ID: "landmark-2"}, geo.Pt(30, 40), FocusZoomLandmark, nil},
		{"capability centroid", model.EntityRef{Type: model.EntityCapability, ID: "cap-lang"}, geo.Pt(1, 1), FocusZoomCapability, nil},
		{"organization centroid", model.EntityRef{Type: model.EntityOrganization, ID: "org-001"}, geo.Pt(10, 20), FocusZoomOrganization, nil},
		{"organization without landmarks", model.EntityRef{Type: model.EntityOrganization, ID: "org-003"}, geo.LatLng{}, 0, ErrNoCoordinates},
		{"missing landmark", model.EntityRef{Type: model.EntityLandmark, ID: "nope"}, geo.LatLng{}, 0, ErrEntityNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			center, zoom, err := Target(st, tt.ref)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if center != tt.wantCenter || zoom != tt.wantZoom {
				t.Errorf("Target = %v @ %v, want %v @ %v", center, zoom, tt.wantCenter, tt.wantZoom)
			}
		})
	}
}

func TestFocus(t *testing.T) {
	t.Parallel()

	t.Run("with viewport", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)
		vp := &fakeViewport{}
		s.SetViewport(vp)

		ref := model.EntityRef{Type: model.EntityLandmark, ID: "landmark-3"}
		if err := Focus(s, ref, DefaultFlyOptions); err != nil {
			t.Fatalf("Focus: %v", err)
		}
		if flies, _ := vp.counts(); flies != 1 {
			t.Errorf("expected one FlyTo, got %d", flies)
		}
		if got := vp.flies[0]; got.center != geo.Pt(50, 60) || got.zoom != FocusZoomLandmark {
			t.Errorf("FlyTo = %+v", got)
		}
		st := s.State()
		if st.Selected == nil || *st.Selected != ref || !st.InfoPanelOpen {
			t.Errorf("Focus should select: %+v", st.Selected)
		}
	})

	t.Run("headless", func(t *testing.T) {
		t.Parallel()
		s := newStore(t)
		if err := Focus(s, model.EntityRef{Type: model.EntityCapability, ID: "cap-lang"}, DefaultFlyOptions); err != nil {
			t.Fatalf("Focus: %v", err)
		}
		st := s.State()
		if st.MapCenter != geo.Pt(1, 1) || st.CurrentZoom != FocusZoomCapability {
			t.Errorf("headless focus view = %v @ %v", st.MapCenter, st.CurrentZoom)
		}
	})

	t.Run("unknown entity", func(t *testing.T) {
		t.Parallel()
		logger, logs := observed()
		s := newStore(t, WithLogger(logger))
		err := Focus(s, model.EntityRef{Type: model.EntityCapability, ID: "missing"}, DefaultFlyOptions)
		if !errors.Is(err, ErrEntityNotFound) {
			t.Fatalf("err = %v", err)
		}
		if s.State().Selected != nil {
			t.Error("failed focus should not select")
		}
		if logs.FilterMessage("focus target unavailable").Len() != 1 {
			t.Error("expected a warning for the missing target")
		}
	})
}

func TestTourMapSync(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	vp := &fakeViewport{}
	ts := NewTourMapSync(s, FlyOptions{}, nil)
	ts.Start()
	ts.Start()
	defer ts.Stop()

	s.StartTour(fixtureTour())
	if flies, _ := vp.counts(); flies != 0 {
		t.Fatal("no viewport attached yet; nothing should fly")
	}
	if s.State().TourHighlights.IsEmpty() {
		t.Error("highlights must apply without a viewport")
	}

	s.SetViewport(vp)
	s.AdvanceTourStage(tour.Next)
	s.AdvanceTourStage(tour.Next)
	s.AdvanceTourStage(tour.Next) // clamped, no transition
	s.SetZoom(1.25)               // unrelated

	flies, _ := vp.counts()
	if flies != 3 {
		t.Fatalf("FlyTo calls = %d, want 3 (attach + two stage changes)", flies)
	}
	last := vp.flies[2]
	if last.center != geo.Pt(50, 60) || last.zoom != 2 {
		t.Errorf("last FlyTo = %+v", last)
	}
	if last.opts != DefaultFlyOptions {
		t.Errorf("FlyTo options = %+v, want defaults", last.opts)
	}

	s.PauseTour()
	s.ResumeTour()
	if flies, _ := vp.counts(); flies != 4 {
		t.Errorf("resume should re-center the map, FlyTo calls = %d", flies)
	}

	ts.Stop()
	s.GoToTourStage(0)
	if flies, _ := vp.counts(); flies != 4 {
		t.Errorf("stopped sync still flew: %d", flies)
	}
}

func TestTourMapSync_FailureStillHighlights(t *testing.T) {
	t.Parallel()

	logger, logs := observed()
	s := newStore(t)
	vp := &fakeViewport{flyErr: errors.New("handle not ready")}
	s.SetViewport(vp)
	ts := NewTourMapSync(s, FlyOptions{Duration: 1, EaseLinearity: 0.5}, logger)
	ts.Start()
	defer ts.Stop()

	s.StartTour(fixtureTour())

	if _, sets := vp.counts(); sets != 1 {
		t.Errorf("expected instant fallback, SetView calls = %d", sets)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Error("expected the failed transition to be logged")
	}
	if got := s.State().TourHighlights.Current; len(got) != 1 || got[0] != "landmark-1" {
		t.Errorf("highlights = %v", got)
	}
}
