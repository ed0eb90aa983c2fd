package tour

import (
	"sort"

	"github.com/papapumpkin/atlas/internal/model"
)

// Highlights partitions tour landmarks relative to the current stage.
type Highlights struct {
	Current  []string `json:"current"`
	Previous []string `json:"previous"`
	Future   []string `json:"future"`
}

// IsEmpty reports whether no landmark is highlighted.
func (h Highlights) IsEmpty() bool {
	return len(h.Current) == 0 && len(h.Previous) == 0 && len(h.Future) == 0
}

// Role returns which set id belongs to, checking current, then previous, then
// future. The empty string means none.
func (h Highlights) Role(id string) string {
	for _, set := range []struct {
		name string
		ids  []string
	}{{"current", h.Current}, {"previous", h.Previous}, {"future", h.Future}} {
		for _, x := range set.ids {
			if x == id {
				return set.name
			}
		}
	}
	return ""
}

// Derive computes the highlights for stage i of t from scratch: the stage's
// own landmarks, the immediately preceding stage's landmarks, and the union
// of every later stage's landmarks in first-seen order. Out of range indices
// yield empty highlights.
func Derive(t *model.Tour, i int) Highlights {
	if t == nil || i < 0 || i >= len(t.Stages) {
		return Highlights{}
	}
	h := Highlights{Current: clone(t.Stages[i].LandmarkIDs)}
	if i > 0 {
		h.Previous = clone(t.Stages[i-1].LandmarkIDs)
	}
	seen := make(map[string]bool)
	for _, st := range t.Stages[i+1:] {
		for _, id := range st.LandmarkIDs {
			if !seen[id] {
				seen[id] = true
				h.Future = append(h.Future, id)
			}
		}
	}
	return h
}

// Highlights derives the highlights for the current stage.
func (p Progress) Highlights() Highlights {
	return Derive(p.Tour, p.StageIndex)
}

func clone(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return append([]string(nil), ids...)
}

// SortByDifficulty orders tours beginner first, then by title. Unknown
// difficulties sort last. The input is not modified.
func SortByDifficulty(tours []model.Tour) []model.Tour {
	out := append([]model.Tour(nil), tours...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Difficulty), rank(out[j].Difficulty)
		if ri != rj {
			return ri < rj
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func rank(d model.Difficulty) int {
	if r := d.Rank(); r >= 0 {
		return r
	}
	return 1 << 8
}

// Find returns the tour with the given ID.
func Find(tours []model.Tour, id string) (model.Tour, bool) {
	for _, t := range tours {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tour{}, false
}
