package model

import (
	"fmt"
	"sort"
)

// DanglingRef is a reference from one entity to an ID that no loaded entity
// carries. These are tolerated at runtime and reported for authors.
type DanglingRef struct {
	From  EntityRef
	Field string
	To    string
}

// String renders the reference as "landmark lm-1 capabilityId -> cap-x".
func (d DanglingRef) String() string {
	return fmt.Sprintf("%s %s %s -> %s", d.From.Type, d.From.ID, d.Field, d.To)
}

// CheckReferences lists cross-collection references that resolve to nothing.
// Organization landmark IDs are checked after the legacy "lm-" prefix has been
// tried as "landmark-".
func CheckReferences(caps []Capability, landmarks []Landmark, orgs []Organization, tours []Tour) []DanglingRef {
	capIDs := make(map[string]bool, len(caps))
	for _, c := range caps {
		capIDs[c.ID] = true
	}
	lmIDs := make(map[string]bool, len(landmarks))
	for _, l := range landmarks {
		lmIDs[l.ID] = true
	}

	var out []DanglingRef
	for _, c := range caps {
		for _, id := range c.RelatedLandmarks {
			if !lmIDs[id] {
				out = append(out, DanglingRef{From: EntityRef{Type: EntityCapability, ID: c.ID}, Field: "relatedLandmarks", To: id})
			}
		}
	}
	for _, l := range landmarks {
		if l.CapabilityID != "" && !capIDs[l.CapabilityID] {
			out = append(out, DanglingRef{From: EntityRef{Type: EntityLandmark, ID: l.ID}, Field: "capabilityId", To: l.CapabilityID})
		}
		for _, id := range l.RelatedLandmarks {
			if !lmIDs[id] {
				out = append(out, DanglingRef{From: EntityRef{Type: EntityLandmark, ID: l.ID}, Field: "relatedLandmarks", To: id})
			}
		}
	}
	for _, o := range orgs {
		for _, id := range o.LandmarkIDs {
			if !lmIDs[id] && !lmIDs[legacyToCurrent(id)] {
				out = append(out, DanglingRef{From: EntityRef{Type: EntityOrganization, ID: o.ID}, Field: "landmarkIds", To: id})
			}
		}
	}
	for _, t := range tours {
		for _, st := range t.Stages {
			for _, id := range st.LandmarkIDs {
				if !lmIDs[id] {
					out = append(out, DanglingRef{
						From:  EntityRef{Type: "tour", ID: t.ID},
						Field: fmt.Sprintf("stages[%d].landmarkIds", st.Index),
						To:    id,
					})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].From.Type != out[j].From.Type {
			return out[i].From.Type < out[j].From.Type
		}
		return out[i].From.ID < out[j].From.ID
	})
	return out
}

func legacyToCurrent(id string) string {
	const legacy, current = "lm-", "landmark-"
	if len(id) > len(legacy) && id[:len(legacy)] == legacy {
		return current + id[len(legacy):]
	}
	return id
}
