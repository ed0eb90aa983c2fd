package tui

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/orgmatch"
	"github.com/papapumpkin/atlas/internal/search"
	"github.com/papapumpkin/atlas/internal/tour"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// Frame rates for camera animation and for picking up changes made outside
// the program (tour sync, data reloads).
const (
	frameInterval = time.Second / 30
	idleInterval  = 100 * time.Millisecond
)

// zoomFly is the transition used for keyboard zoom steps.
var zoomFly = viewstate.FlyOptions{Duration: 300 * time.Millisecond, EaseLinearity: 0.5}

// panFraction is the share of the visible span moved by one pan key.
const panFraction = 0.25

type frameMsg time.Time

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Options configures the explorer model.
type Options struct {
	Store           *viewstate.Store
	Camera          *Camera
	Share           *ShareLink
	Fly             viewstate.FlyOptions
	SearchLimit     int
	SearchThreshold float64
	Logger          *zap.Logger
}

// Model is the root BubbleTea model of the explorer. It holds only UI state;
// everything about the map lives in the store and is read on every render.
type Model struct {
	store  *viewstate.Store
	camera *Camera
	share  *ShareLink
	fly    viewstate.FlyOptions
	logger *zap.Logger
	keys   KeyMap

	mode    listMode
	cursor  int
	input   textinput.Model
	results []search.Result
	message string

	index     *search.Index
	indexed   viewstate.Collections
	extent    geo.Bounds
	limit     int
	threshold float64

	width, height int
}

// NewModel builds the explorer and attaches its camera to the store.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Camera == nil {
		opts.Camera = NewCamera(opts.Store, -1, 4)
	}
	if opts.Fly.Duration <= 0 {
		opts.Fly = viewstate.DefaultFlyOptions
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = search.DefaultLimit
	}
	if opts.SearchThreshold <= 0 {
		opts.SearchThreshold = search.DefaultThreshold
	}

	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "capabilities, landmarks, organizations"
	in.CharLimit = 64

	opts.Store.SetViewport(opts.Camera)

	m := Model{
		store:     opts.Store,
		camera:    opts.Camera,
		share:     opts.Share,
		fly:       opts.Fly,
		logger:    opts.Logger,
		keys:      DefaultKeyMap(),
		input:     in,
		limit:     opts.SearchLimit,
		threshold: opts.SearchThreshold,
	}
	m.refreshIndex()
	return m
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return frameCmd(idleInterval)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case frameMsg:
		animating := m.camera.Step()
		m.refreshIndex()
		if animating {
			return m, frameCmd(frameInterval)
		}
		return m, frameCmd(idleInterval)

	case tea.KeyMsg:
		if m.mode == modeSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.store.State()
	m.message = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Enter):
		m.activate()
	case key.Matches(msg, m.keys.Back):
		m.back(st)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomBy(st, 1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomBy(st, -1)
	case key.Matches(msg, m.keys.PanNorth):
		m.pan(st, panFraction, 0)
	case key.Matches(msg, m.keys.PanSouth):
		m.pan(st, -panFraction, 0)
	case key.Matches(msg, m.keys.PanWest):
		m.pan(st, 0, -panFraction)
	case key.Matches(msg, m.keys.PanEast):
		m.pan(st, 0, panFraction)
	case key.Matches(msg, m.keys.Search):
		m.mode, m.cursor, m.results = modeSearch, 0, nil
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Highlight):
		m.toggleOrgHighlight(st)
	case key.Matches(msg, m.keys.Tours):
		m.mode, m.cursor = modeTours, 0
	case key.Matches(msg, m.keys.NextStage):
		m.store.AdvanceTourStage(tour.Next)
	case key.Matches(msg, m.keys.PrevStage):
		m.store.AdvanceTourStage(tour.Previous)
	case key.Matches(msg, m.keys.Pause):
		switch {
		case !st.TourActive():
		case st.Tour.Paused:
			m.store.ResumeTour()
		default:
			m.store.PauseTour()
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := SearchKeyMap()
	switch {
	case key.Matches(msg, km.Quit):
		return m, tea.Quit
	case key.Matches(msg, km.Back):
		m.leaveSearch()
	case key.Matches(msg, km.Up):
		m.moveCursor(-1)
	case key.Matches(msg, km.Down):
		m.moveCursor(1)
	case key.Matches(msg, km.Enter):
		m.activate()
		m.leaveSearch()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.runSearch()
		return m, cmd
	}
	return m, nil
}

func (m *Model) leaveSearch() {
	m.mode, m.cursor = modeBrowse, 0
	m.input.Blur()
}

func (m *Model) moveCursor(d int) {
	n := len(m.items(m.store.State()))
	m.cursor = max(0, min(n-1, m.cursor+d))
}

// activate acts on the item under the cursor: focus an entity or start a tour.
func (m *Model) activate() {
	st := m.store.State()
	items := m.items(st)
	if m.cursor < 0 || m.cursor >= len(items) {
		return
	}
	it := items[m.cursor]

	if m.mode == modeTours {
		if t, ok := tour.Find(st.Tours, it.tourID); ok {
			m.store.StartTour(t)
		}
		m.mode, m.cursor = modeBrowse, 0
		return
	}
	if err := viewstate.Focus(m.store, it.ref, m.fly); err != nil {
		m.message = err.Error()
	}
}

// back unwinds one level: list mode, then tour, then panel, then highlight.
func (m *Model) back(st viewstate.State) {
	switch {
	case m.mode != modeBrowse:
		m.mode, m.cursor = modeBrowse, 0
	case st.TourActive():
		m.store.ExitTour()
	case st.InfoPanelOpen:
		m.store.ClosePanel()
	default:
		m.store.ClearHighlights()
	}
}

func (m *Model) zoomBy(st viewstate.State, d float64) {
	viewstate.Move(m.camera, st.MapCenter, math.Round(st.CurrentZoom)+d, zoomFly, m.logger)
}

func (m *Model) pan(st viewstate.State, dLat, dLng float64) {
	proj := m.projection(st)
	c := st.MapCenter
	c.Lat += dLat * proj.LatPerRow * float64(proj.Rows)
	c.Lng += dLng * proj.LngPerCol * float64(proj.Cols)
	if err := m.camera.SetView(c, st.CurrentZoom); err != nil {
		m.logger.Warn("pan failed", zap.Error(err))
	}
}

// toggleOrgHighlight highlights the organization of the selection, or clears
// the highlight when it is already shown or nothing maps to an organization.
func (m *Model) toggleOrgHighlight(st viewstate.State) {
	var orgID string
	if sel := st.Selected; sel != nil {
		switch sel.Type {
		case model.EntityOrganization:
			orgID = sel.ID
		case model.EntityLandmark:
			if lm, ok := st.FindLandmark(sel.ID); ok {
				if org, ok := orgmatch.OrganizationFor(st.Organizations, lm); ok {
					orgID = org.ID
				}
			}
		}
	}
	if orgID == "" || orgID == st.HighlightedOrgID {
		m.store.ClearHighlights()
		return
	}
	m.store.HighlightOrganization(orgID)
}

// refreshIndex rebuilds the search index and map extent when the loaded
// collections have been replaced.
func (m *Model) refreshIndex() {
	st := m.store.State()
	if m.index != nil && sameCollections(m.indexed, st.Collections) {
		return
	}
	m.index = search.New(st.Capabilities, st.Landmarks, st.Organizations, search.WithThreshold(m.threshold))
	m.indexed = st.Collections
	m.extent = dataExtent(st.Collections)
	if m.mode == modeSearch {
		m.runSearch()
	}
}

func (m *Model) runSearch() {
	m.results = m.index.Search(m.input.Value(), m.limit)
	m.cursor = max(0, min(len(m.results)-1, m.cursor))
}

func sameCollections(a, b viewstate.Collections) bool {
	return sameSlice(a.Capabilities, b.Capabilities) && sameSlice(a.Landmarks, b.Landmarks) &&
		sameSlice(a.Organizations, b.Organizations) && sameSlice(a.Tours, b.Tours)
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func dataExtent(c viewstate.Collections) geo.Bounds {
	var pts []geo.LatLng
	for _, cp := range c.Capabilities {
		pts = append(pts, cp.PolygonCoordinates...)
	}
	for _, l := range c.Landmarks {
		pts = append(pts, l.Coordinates)
	}
	return geo.BoundsOf(pts)
}
