// Package search ranks capabilities, landmarks and organizations against a
// free-text query. Scores run from 0 (exact) to 1 (no resemblance); lower is
// better.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/papapumpkin/atlas/internal/model"
)

const (
	// DefaultThreshold is the worst per-field score that still counts as a match.
	DefaultThreshold = 0.4
	// DefaultLimit caps the number of results when the caller passes 0.
	DefaultLimit = 10
	// MinQueryLength is the shortest query, in runes, that is searched.
	MinQueryLength = 2

	// maxQueryRunes bounds the Levenshtein work per candidate window.
	maxQueryRunes = 32
)

// Field weights. A heavier field ranks its matches closer to zero.
const (
	weightName        = 2.0
	weightTags        = 1.5
	weightDescription = 1.0
)

// Match records where a field matched the query. Indices are inclusive
// [start, end] rune offsets into Value.
type Match struct {
	Key     string   `json:"key"`
	Value   string   `json:"value"`
	Indices [][2]int `json:"indices"`
}

// Result is one ranked hit.
type Result struct {
	Item       any              `json:"item"`
	EntityType model.EntityType `json:"entityType"`
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Score      float64          `json:"score"`
	Matches    []Match          `json:"matches,omitempty"`
}

type field struct {
	key    string
	weight float64
	values []string
}

type document struct {
	item       any
	entityType model.EntityType
	id         string
	name       string
	fields     []field
}

// Index is an immutable search index over the three searchable collections.
type Index struct {
	docs      []document
	threshold float64
}

// Option configures an Index.
type Option func(*Index)

// WithThreshold sets the per-field match threshold. Values outside [0,1] are
// ignored.
func WithThreshold(t float64) Option {
	return func(ix *Index) {
		if t >= 0 && t <= 1 {
			ix.threshold = t
		}
	}
}

// New builds an index. Documents keep input order: capabilities, then
// landmarks, then organizations.
func New(caps []model.Capability, landmarks []model.Landmark, orgs []model.Organization, opts ...Option) *Index {
	ix := &Index{threshold: DefaultThreshold}
	for _, o := range opts {
		o(ix)
	}

	ix.docs = make([]document, 0, len(caps)+len(landmarks)+len(orgs))
	for _, c := range caps {
		ix.docs = append(ix.docs, document{
			item: c, entityType: model.EntityCapability, id: c.ID, name: c.Name,
			fields: []field{
				{key: "name", weight: weightName, values: []string{c.Name}},
				{key: "description", weight: weightDescription, values: []string{c.Description}},
			},
		})
	}
	for _, l := range landmarks {
		ix.docs = append(ix.docs, document{
			item: l, entityType: model.EntityLandmark, id: l.ID, name: l.Name,
			fields: []field{
				{key: "name", weight: weightName, values: []string{l.Name}},
				{key: "tags", weight: weightTags, values: l.Tags},
				{key: "description", weight: weightDescription, values: []string{l.Description}},
			},
		})
	}
	for _, o := range orgs {
		ix.docs = append(ix.docs, document{
			item: o, entityType: model.EntityOrganization, id: o.ID, name: o.Name,
			fields: []field{
				{key: "name", weight: weightName, values: []string{o.Name}},
				{key: "description", weight: weightDescription, values: []string{o.Description}},
			},
		})
	}
	return ix
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search returns up to limit results ordered by ascending score. A limit of
// zero or less means DefaultLimit. Blank or too-short queries return nil.
func (ix *Index) Search(query string, limit int) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return nil
	}
	if r := []rune(q); len(r) > maxQueryRunes {
		q = string(r[:maxQueryRunes])
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var results []Result
	for _, d := range ix.docs {
		if res, ok := ix.score(d, q); ok {
			results = append(results, res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (ix *Index) score(d document, q string) (Result, bool) {
	best := 1.0
	var matches []Match
	for _, f := range d.fields {
		for _, v := range f.values {
			raw, indices, ok := fieldScore(q, v)
			if !ok || raw > ix.threshold {
				continue
			}
			matches = append(matches, Match{Key: f.key, Value: v, Indices: [][2]int{indices}})
			if s := min(1, raw*weightName/f.weight); s < best {
				best = s
			}
		}
	}
	if len(matches) == 0 {
		return Result{}, false
	}
	return Result{
		Item:       d.item,
		EntityType: d.entityType,
		ID:         d.id,
		Name:       d.name,
		Score:      best,
		Matches:    matches,
	}, true
}

// fieldScore compares an already lowercased query against a field value.
// Exact matches score 0 and substrings score at most 0.1; otherwise the best
// word-aligned window of the query's length is scored by edit distance.
func fieldScore(q, value string) (float64, [2]int, bool) {
	if value == "" {
		return 0, [2]int{}, false
	}
	v := []rune(strings.ToLower(value))
	qr := []rune(q)
	text := string(v)

	if text == q {
		return 0, [2]int{0, len(v) - 1}, true
	}
	if i := strings.Index(text, q); i >= 0 {
		start := utf8.RuneCountInString(text[:i])
		coverage := float64(len(qr)) / float64(len(v))
		return 0.1 * (1 - coverage), [2]int{start, start + len(qr) - 1}, true
	}

	bestDist, bestAt := -1, 0
	for start := range v {
		if start > 0 && isWordRune(v[start-1]) {
			continue
		}
		end := min(start+len(qr), len(v))
		d := levenshtein.ComputeDistance(q, string(v[start:end]))
		if bestDist < 0 || d < bestDist {
			bestDist, bestAt = d, start
		}
		if end == len(v) {
			break
		}
	}
	if bestDist < 0 {
		return 1, [2]int{}, false
	}
	end := min(bestAt+len(qr), len(v)) - 1
	return min(1, float64(bestDist)/float64(len(qr))), [2]int{bestAt, end}, true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FilterByEntityType keeps the results whose entity type is one of types.
func FilterByEntityType(results []Result, types ...model.EntityType) []Result {
	var out []Result
	for _, r := range results {
		for _, t := range types {
			if r.EntityType == t {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// FilterByScore keeps the results whose score is at most maxScore.
func FilterByScore(results []Result, maxScore float64) []Result {
	var out []Result
	for _, r := range results {
		if r.Score <= maxScore {
			out = append(out, r)
		}
	}
	return out
}

// Ref returns the entity reference for a result, ready for selection.
func (r Result) Ref() model.EntityRef {
	return model.EntityRef{Type: r.EntityType, ID: r.ID}
}
