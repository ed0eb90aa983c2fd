// Package ui prints styled, human-readable output for the non-interactive
// commands. Results go to stdout; progress and diagnostics go to stderr.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/papapumpkin/atlas/internal/ansi"
	"github.com/papapumpkin/atlas/internal/disclosure"
	"github.com/papapumpkin/atlas/internal/loader"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/search"
	"github.com/papapumpkin/atlas/internal/urlstate"
)

// Printer writes styled lines.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New returns a printer on stdout and stderr.
func New() *Printer {
	return &Printer{out: os.Stdout, err: os.Stderr}
}

// NewWriters returns a printer on the given writers.
func NewWriters(out, errw io.Writer) *Printer {
	return &Printer{out: out, err: errw}
}

// Banner prints the program banner to stderr.
func (p *Printer) Banner() {
	fmt.Fprintln(p.err, ansi.Bold+ansi.Cyan+"  ╔═══════════════════════════════════╗"+ansi.Reset)
	fmt.Fprintln(p.err, ansi.Bold+ansi.Cyan+"  ║"+ansi.Reset+ansi.Bold+"   ATLAS  "+ansi.Dim+"LLM research map explorer"+ansi.Reset+ansi.Bold+ansi.Cyan+"║"+ansi.Reset)
	fmt.Fprintln(p.err, ansi.Bold+ansi.Cyan+"  ╚═══════════════════════════════════╝"+ansi.Reset)
	fmt.Fprintln(p.err)
}

// Error prints an error line to stderr.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.err, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

// Warn prints a warning line to stderr.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.err, ansi.Yellow+ansi.Bold+"⚠ "+ansi.Reset+"%s\n", msg)
}

// Info prints a dimmed status line to stderr.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.err, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// SearchResults lists ranked hits, best first.
func (p *Printer) SearchResults(query string, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintf(p.err, ansi.Dim+"no matches for %q"+ansi.Reset+"\n", query)
		return
	}
	fmt.Fprintf(p.err, ansi.Bold+"%d match(es) for %q"+ansi.Reset+"\n", len(results), query)
	for _, r := range results {
		fmt.Fprintf(p.out, "  %s%-12s%s %-28s %s%.3f%s  %s\n",
			typeColor(r.EntityType), r.EntityType, ansi.Reset, r.ID, ansi.Dim, r.Score, ansi.Reset, r.Name)
	}
}

// Visible lists what a renderer shows at a zoom level.
func (p *Printer) Visible(zoom float64, caps []model.Capability, landmarks []model.Landmark) {
	fmt.Fprintf(p.err, ansi.Bold+"zoom %g"+ansi.Reset+ansi.Dim+" (%s band)"+ansi.Reset+"\n", zoom, disclosure.BandForZoom(zoom))
	fmt.Fprintf(p.out, ansi.Bold+"capabilities (%d)"+ansi.Reset+"\n", len(caps))
	for _, c := range caps {
		fmt.Fprintf(p.out, "  "+ansi.Cyan+"%-12s"+ansi.Reset+" %-24s %s\n", c.Level.Label(), c.ID, c.Name)
	}
	fmt.Fprintf(p.out, ansi.Bold+"landmarks (%d)"+ansi.Reset+"\n", len(landmarks))
	for _, l := range landmarks {
		fmt.Fprintf(p.out, "  "+ansi.Magenta+"%-12s"+ansi.Reset+" %-24s %s "+ansi.Dim+"(%d)"+ansi.Reset+"\n", l.Type.Label(), l.ID, l.Name, l.Year)
	}
}

// ShareURL prints a share link on its own line so it can be piped.
func (p *Printer) ShareURL(u string) {
	fmt.Fprintln(p.out, u)
}

// DecodedParams describes which parameters a query carried.
func (p *Printer) DecodedParams(params urlstate.Params) {
	if params.IsEmpty() {
		fmt.Fprintln(p.err, ansi.Dim+"no recognised parameters"+ansi.Reset)
		return
	}
	if params.Center != nil {
		fmt.Fprintf(p.out, "  center:   %s, %s\n", urlstate.FormatCoord(params.Center.Lat), urlstate.FormatCoord(params.Center.Lng))
	}
	if params.Zoom != nil {
		fmt.Fprintf(p.out, "  zoom:     %d\n", *params.Zoom)
	}
	if params.Selected != nil {
		fmt.Fprintf(p.out, "  selected: %s %s\n", params.Selected.Type, params.Selected.ID)
	}
	if params.OrgID != "" {
		fmt.Fprintf(p.out, "  org:      %s\n", params.OrgID)
	}
}

// TourList prints the tour catalog in the order given.
func (p *Printer) TourList(tours []model.Tour) {
	if len(tours) == 0 {
		fmt.Fprintln(p.err, ansi.Dim+"  (no tours)"+ansi.Reset)
		return
	}
	for _, t := range tours {
		fmt.Fprintf(p.out, "  %s%-12s%s %-24s %s "+ansi.Dim+"(%d stages, %d min)"+ansi.Reset+"\n",
			difficultyColor(t.Difficulty), t.Difficulty, ansi.Reset, t.ID, t.Title, len(t.Stages), t.EstimatedDuration)
	}
}

// TourShow prints one tour stage by stage.
func (p *Printer) TourShow(t model.Tour) {
	fmt.Fprintf(p.out, ansi.Bold+ansi.Cyan+"%s"+ansi.Reset+" "+ansi.Dim+"%s, %d min"+ansi.Reset+"\n", t.Title, t.Difficulty, t.EstimatedDuration)
	if t.Description != "" {
		fmt.Fprintf(p.out, "%s\n", t.Description)
	}
	for i, st := range t.Stages {
		fmt.Fprintf(p.out, "\n"+ansi.Bold+ansi.Magenta+"── stage %d/%d: %s ──"+ansi.Reset+"\n", i+1, len(t.Stages), st.Title)
		fmt.Fprintf(p.out, ansi.Dim+"  center %s zoom %g"+ansi.Reset+"\n", st.MapCenter, st.MapZoom)
		if st.Narration != "" {
			fmt.Fprintf(p.out, "  %s\n", st.Narration)
		}
		if len(st.LandmarkIDs) > 0 {
			fmt.Fprintf(p.out, "  landmarks: %s\n", strings.Join(st.LandmarkIDs, ", "))
		}
	}
}

// LoadReport summarises a load: per-collection failures and dangling
// references. It returns true when every collection loaded.
func (p *Printer) LoadReport(res loader.Result) bool {
	for _, prob := range res.Problems {
		fmt.Fprintf(p.err, ansi.Red+ansi.Bold+"✗ %s"+ansi.Reset+"\n", prob.Collection)
		for _, line := range strings.Split(prob.Err.Error(), "\n") {
			fmt.Fprintf(p.err, "  "+ansi.Red+"• "+ansi.Reset+"%s\n", line)
		}
	}
	if len(res.Dangling) > 0 {
		fmt.Fprintf(p.err, ansi.Yellow+ansi.Bold+"⚠ %d dangling reference(s)"+ansi.Reset+"\n", len(res.Dangling))
		for _, d := range res.Dangling {
			fmt.Fprintf(p.err, "  "+ansi.Yellow+"• "+ansi.Reset+"%s\n", d)
		}
	}
	d := res.Data
	if res.OK() {
		fmt.Fprintf(p.err, ansi.Green+ansi.Bold+"✓ data valid"+ansi.Reset+": %d capabilities, %d landmarks, %d organizations, %d tours\n",
			len(d.Capabilities), len(d.Landmarks), len(d.Organizations), len(d.Tours))
		return true
	}
	fmt.Fprintf(p.err, ansi.Red+ansi.Bold+"✗ %d collection(s) failed"+ansi.Reset+"\n", len(res.Problems))
	return false
}

func typeColor(t model.EntityType) string {
	switch t {
	case model.EntityCapability:
		return ansi.Cyan
	case model.EntityLandmark:
		return ansi.Magenta
	case model.EntityOrganization:
		return ansi.Blue
	}
	return ""
}

func difficultyColor(d model.Difficulty) string {
	switch d {
	case model.DifficultyBeginner:
		return ansi.Green
	case model.DifficultyIntermediate:
		return ansi.Yellow
	case model.DifficultyAdvanced:
		return ansi.Red
	}
	return ansi.Dim
}
