// Package urlstate mirrors part of the view state into URL query parameters
// so a view can be shared and restored. Only the viewport, the selection and
// the highlighted organization are carried.
package urlstate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// Query parameter names.
const (
	ParamLat        = "lat"
	ParamLng        = "lng"
	ParamZoom       = "zoom"
	ParamEntity     = "entity"
	ParamEntityType = "entityType"
	ParamOrg        = "org"
)

// View is the shareable subset of the view state. Nil pointers and empty
// strings are absent and produce no parameter.
type View struct {
	Center   *geo.LatLng
	Zoom     *float64
	Selected *model.EntityRef
	OrgID    string
}

// ViewOf extracts the shareable subset of st.
func ViewOf(st viewstate.State) View {
	center, zoom := st.MapCenter, st.CurrentZoom
	v := View{Center: &center, Zoom: &zoom, OrgID: st.HighlightedOrgID}
	if st.Selected != nil {
		sel := *st.Selected
		v.Selected = &sel
	}
	return v
}

// Params is the result of decoding a query. Every field is independently
// present or absent.
type Params struct {
	Center   *geo.LatLng
	Zoom     *int
	Selected *model.EntityRef
	OrgID    string
}

// IsEmpty reports whether no parameter was recovered.
func (p Params) IsEmpty() bool {
	return p.Center == nil && p.Zoom == nil && p.Selected == nil && p.OrgID == ""
}

// View converts decoded parameters back into a View.
func (p Params) View() View {
	v := View{Center: p.Center, Selected: p.Selected, OrgID: p.OrgID}
	if p.Zoom != nil {
		z := float64(*p.Zoom)
		v.Zoom = &z
	}
	return v
}

type pair struct{ key, value string }

func (v View) pairs() []pair {
	var out []pair
	if v.Center != nil && v.Center.IsFinite() {
		out = append(out,
			pair{ParamLat, FormatCoord(v.Center.Lat)},
			pair{ParamLng, FormatCoord(v.Center.Lng)})
	}
	if v.Zoom != nil && zoomInRange(*v.Zoom) {
		out = append(out, pair{ParamZoom, strconv.Itoa(RoundZoom(*v.Zoom))})
	}
	if v.Selected != nil && v.Selected.ID != "" {
		out = append(out,
			pair{ParamEntity, v.Selected.ID},
			pair{ParamEntityType, string(v.Selected.Type)})
	}
	if v.OrgID != "" {
		out = append(out, pair{ParamOrg, v.OrgID})
	}
	return out
}

// Encode serializes v into query values.
func Encode(v View) url.Values {
	q := url.Values{}
	for _, p := range v.pairs() {
		q.Set(p.key, p.value)
	}
	return q
}

// Query serializes v into a query string with parameters in the canonical
// order lat, lng, zoom, entity, entityType, org. It is empty when nothing is
// present.
func Query(v View) string {
	var b strings.Builder
	for i, p := range v.pairs() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// ShareURL appends the query for v to base. An empty query returns base.
func ShareURL(base string, v View) string {
	return JoinQuery(base, Query(v))
}

// JoinQuery appends an encoded query to base, using '&' when base already
// carries a query.
func JoinQuery(base, q string) string {
	if q == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q
}

// Decode parses a raw query string, with or without a leading '?'. Malformed
// parameters are dropped one by one; Decode never fails.
func Decode(raw string) Params {
	// ParseQuery keeps every pair it could parse alongside the first error.
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return DecodeValues(values)
}

// DecodeValues is Decode for already parsed values.
func DecodeValues(q url.Values) Params {
	var p Params

	if lat, ok := parseCoord(q.Get(ParamLat)); ok {
		if lng, ok := parseCoord(q.Get(ParamLng)); ok {
			c := geo.Pt(lat, lng)
			p.Center = &c
		}
	}

	if z, ok := parseZoom(q.Get(ParamZoom)); ok {
		p.Zoom = &z
	}

	if id := q.Get(ParamEntity); id != "" {
		if t, ok := model.ParseEntityType(q.Get(ParamEntityType)); ok {
			p.Selected = &model.EntityRef{Type: t, ID: id}
		}
	}

	p.OrgID = q.Get(ParamOrg)
	return p
}

// FormatCoord renders a coordinate with two decimals. Values exactly halfway
// between two hundredths round away from zero.
func FormatCoord(v float64) string {
	// Only odd multiples of 1/8 land exactly on a half hundredth; v*8 is exact.
	if e := v * 8; e == math.Trunc(e) && math.Mod(e, 2) != 0 && math.Abs(v) < 1<<40 {
		n := math.Floor(math.Abs(v)*100 + 0.5)
		if v < 0 {
			n = -n
		}
		return strconv.FormatFloat(n/100, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RoundZoom rounds to the nearest integer, halves toward positive infinity.
// The result is clamped to the int32 range.
func RoundZoom(z float64) int {
	r := math.Floor(z + 0.5)
	switch {
	case math.IsNaN(r):
		return 0
	case r > math.MaxInt32:
		return math.MaxInt32
	case r < math.MinInt32:
		return math.MinInt32
	}
	return int(r)
}

// zoomInRange reports whether z can be carried in the zoom parameter.
// Decode drops zooms outside the int32 range, so Encode omits them too.
func zoomInRange(z float64) bool {
	return !math.IsNaN(z) && math.Abs(z) <= math.MaxInt32
}

func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseZoom accepts an integer, or a decimal whose integer part is kept.
func parseZoom(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
