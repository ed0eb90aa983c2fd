// Package orgmatch decides which landmarks belong to an organization. A
// landmark matches when the organization lists its ID (current or legacy
// form) or when the landmark's free-text organization field names it.
// Matching is deliberately permissive; a shared distinctive word is enough.
package orgmatch

import (
	"strings"

	"github.com/papapumpkin/atlas/internal/model"
)

const (
	currentPrefix = "landmark-"
	legacyPrefix  = "lm-"
)

var stopWords = map[string]bool{
	"ai":           true,
	"research":     true,
	"lab":          true,
	"labs":         true,
	"team":         true,
	"university":   true,
	"institute":    true,
	"various":      true,
	"center":       true,
	"centre":       true,
	"company":      true,
	"technologies": true,
	"technology":   true,
}

// Matches reports whether org is associated with lm, by ID first and then by
// name.
func Matches(org model.Organization, lm model.Landmark) bool {
	return matchesByID(org, lm) || matchesByName(org.Name, lm.Organization)
}

// Landmarks returns the landmarks associated with org, in input order.
func Landmarks(org model.Organization, landmarks []model.Landmark) []model.Landmark {
	var out []model.Landmark
	for _, lm := range landmarks {
		if Matches(org, lm) {
			out = append(out, lm)
		}
	}
	return out
}

// LandmarkIDs returns the IDs of the landmarks associated with org. The result
// is never nil so callers can distinguish "highlighted, nothing matched" from
// "no highlight".
func LandmarkIDs(org model.Organization, landmarks []model.Landmark) []string {
	out := []string{}
	for _, lm := range landmarks {
		if Matches(org, lm) {
			out = append(out, lm.ID)
		}
	}
	return out
}

// OrganizationFor returns the first organization associated with lm.
func OrganizationFor(orgs []model.Organization, lm model.Landmark) (model.Organization, bool) {
	for _, o := range orgs {
		if Matches(o, lm) {
			return o, true
		}
	}
	return model.Organization{}, false
}

// LegacyID rewrites a "landmark-" ID into its older "lm-" form. Other IDs are
// returned unchanged.
func LegacyID(id string) string {
	if rest, ok := strings.CutPrefix(id, currentPrefix); ok {
		return legacyPrefix + rest
	}
	return id
}

func matchesByID(org model.Organization, lm model.Landmark) bool {
	if len(org.LandmarkIDs) == 0 {
		return false
	}
	legacy := LegacyID(lm.ID)
	for _, id := range org.LandmarkIDs {
		if id == lm.ID || id == legacy {
			return true
		}
	}
	return false
}

func matchesByName(orgName, landmarkOrg string) bool {
	landmarkOrg = strings.ToLower(strings.TrimSpace(landmarkOrg))
	if landmarkOrg == "" {
		return false
	}
	if strings.ToLower(strings.TrimSpace(orgName)) == landmarkOrg {
		return true
	}

	orgTokens := Tokens(orgName)
	if len(orgTokens) == 0 {
		return false
	}
	lmTokens := make(map[string]bool)
	for _, tok := range Tokens(landmarkOrg) {
		lmTokens[tok] = true
	}
	for _, tok := range orgTokens {
		if lmTokens[tok] {
			return true
		}
	}
	return false
}

// Tokens lowercases s, splits it on anything other than ASCII letters and
// digits, and keeps the words longer than two characters that are not stop
// words.
func Tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 2 && !stopWords[f] {
			out = append(out, f)
		}
	}
	return out
}
