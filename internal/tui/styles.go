package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary       = lipgloss.Color("#00BFFF") // cyan accent
	colorAccent        = lipgloss.Color("#FFD700") // gold, organization highlight
	colorSuccess       = lipgloss.Color("#00E676") // green, current tour stage
	colorDanger        = lipgloss.Color("#FF5252")
	colorMuted         = lipgloss.Color("#636363")
	colorMutedLight    = lipgloss.Color("#8C8C8C")
	colorWhite         = lipgloss.Color("#EEEEEE")
	colorBrightWhite   = lipgloss.Color("#FFFFFF")
	colorSurface       = lipgloss.Color("#1E1E2E") // status bar background
	colorSurfaceDim    = lipgloss.Color("#181825") // footer background
	colorBlue          = lipgloss.Color("#5B8DEF") // upcoming tour stages
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

// Landmark glyphs by type.
const (
	glyphPaper     = "■"
	glyphModel     = "●"
	glyphTool      = "▲"
	glyphBenchmark = "★"
	glyphCluster   = "+"
)

// Status bar styles.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusValue = lipgloss.NewStyle().
				Foreground(colorWhite)

	styleStatusLink = lipgloss.NewStyle().
			Foreground(colorAccent)
)

// List row styles.
var (
	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Info panel styles.
var (
	styleDetailBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	styleDetailTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleDetailDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleDetailWarn = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

// Map marker styles.
var (
	styleMarker         = lipgloss.NewStyle().Foreground(colorWhite)
	styleMarkerSelected = lipgloss.NewStyle().Foreground(colorBrightWhite).Reverse(true).Bold(true)
	styleMarkerOrg      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleMarkerCurrent  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleMarkerPrevious = lipgloss.NewStyle().Foreground(colorMuted)
	styleMarkerFuture   = lipgloss.NewStyle().Foreground(colorBlue)
	styleMarkerDimmed   = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
)

// Footer styles.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)
