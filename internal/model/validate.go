package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Sentinel errors for entity validation.
var (
	// ErrMissingField indicates a required field is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrInvalidValue indicates a field holds a value outside its domain.
	ErrInvalidValue = errors.New("invalid value")
	// ErrDuplicateID indicates two entities of one collection share an ID.
	ErrDuplicateID = errors.New("duplicate ID")
	// ErrUnknownParent indicates a parentCapabilityId that matches no capability.
	ErrUnknownParent = errors.New("parent capability does not exist")
	// ErrParentLevel indicates a parent that is not strictly coarser than its child.
	ErrParentLevel = errors.New("parent capability is not coarser than child")
	// ErrNotModel indicates model metadata was requested from a non-model landmark.
	ErrNotModel = errors.New("landmark is not a model")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

// Validation categories.
const (
	ValCatMissingField ValidationCategory = "missing_field"
	ValCatInvalidValue ValidationCategory = "invalid_value"
	ValCatDuplicateID  ValidationCategory = "duplicate_id"
	ValCatHierarchy    ValidationCategory = "hierarchy"
)

// ValidationError records a validation problem with entity context.
type ValidationError struct {
	Category ValidationCategory
	Entity   string // "capability", "landmark", "organization" or "tour"
	ID       string
	Field    string
	Err      error
}

// Error returns a human-readable string including entity and field context.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Entity)
	if e.ID != "" {
		b.WriteString(" " + e.ID)
	}
	if e.Field != "" {
		b.WriteString(": " + e.Field)
	}
	b.WriteString(": " + e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type collector struct {
	entity string
	errs   []error
}

func (c *collector) add(cat ValidationCategory, id, field string, err error) {
	c.errs = append(c.errs, &ValidationError{Category: cat, Entity: c.entity, ID: id, Field: field, Err: err})
}

func (c *collector) required(id, field, value string) {
	if strings.TrimSpace(value) == "" {
		c.add(ValCatMissingField, id, field, ErrMissingField)
	}
}

func (c *collector) invalid(id, field, format string, args ...any) {
	c.add(ValCatInvalidValue, id, field, fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...))
}

func (c *collector) absoluteURL(id, field, raw string) {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		c.invalid(id, field, "%q is not an absolute URL", raw)
	}
}

func (c *collector) unique(seen map[string]bool, id string) {
	if id == "" {
		return
	}
	if seen[id] {
		c.add(ValCatDuplicateID, id, "id", ErrDuplicateID)
	}
	seen[id] = true
}

func (c *collector) err() error {
	return errors.Join(c.errs...)
}

// ValidateCapabilities checks every capability and the parent hierarchy.
// All problems are reported, joined with errors.Join.
func ValidateCapabilities(caps []Capability) error {
	c := &collector{entity: "capability"}
	byID := make(map[string]Capability, len(caps))
	seen := make(map[string]bool, len(caps))

	for _, cp := range caps {
		c.unique(seen, cp.ID)
		byID[cp.ID] = cp
	}

	for _, cp := range caps {
		c.required(cp.ID, "id", cp.ID)
		c.required(cp.ID, "name", cp.Name)
		if !cp.Level.Valid() {
			c.invalid(cp.ID, "level", "unknown level %q", cp.Level)
			continue
		}
		if len(cp.PolygonCoordinates) < 3 {
			c.invalid(cp.ID, "polygonCoordinates", "need at least 3 points, got %d", len(cp.PolygonCoordinates))
		}
		for i, p := range cp.PolygonCoordinates {
			if !p.IsFinite() {
				c.invalid(cp.ID, fmt.Sprintf("polygonCoordinates[%d]", i), "non-finite point")
			}
		}
		validateStyle(c, cp.ID, cp.VisualStyleHints)

		if want := cp.Level.ZoomThreshold(); cp.ZoomThreshold != want {
			c.invalid(cp.ID, "zoomThreshold", "%s requires %d, got %d", cp.Level, want, cp.ZoomThreshold)
		}

		switch {
		case cp.Level == LevelContinent && cp.ParentCapabilityID != "":
			c.add(ValCatHierarchy, cp.ID, "parentCapabilityId", fmt.Errorf("%w: continents have no parent", ErrParentLevel))
		case cp.Level != LevelContinent && cp.ParentCapabilityID == "":
			c.add(ValCatHierarchy, cp.ID, "parentCapabilityId", ErrMissingField)
		case cp.ParentCapabilityID != "":
			parent, ok := byID[cp.ParentCapabilityID]
			if !ok {
				c.add(ValCatHierarchy, cp.ID, "parentCapabilityId", fmt.Errorf("%w: %s", ErrUnknownParent, cp.ParentCapabilityID))
			} else if parent.Level.Rank() >= cp.Level.Rank() {
				c.add(ValCatHierarchy, cp.ID, "parentCapabilityId",
					fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrParentLevel, cp.ID, cp.Level, parent.ID, parent.Level))
			}
		}
	}
	return c.err()
}

func validateStyle(c *collector, id string, s VisualStyle) {
	if !hexColor.MatchString(s.FillColor) {
		c.invalid(id, "visualStyleHints.fillColor", "%q is not #RRGGBB", s.FillColor)
	}
	if !hexColor.MatchString(s.StrokeColor) {
		c.invalid(id, "visualStyleHints.strokeColor", "%q is not #RRGGBB", s.StrokeColor)
	}
	if s.FillOpacity < 0 || s.FillOpacity > 1 {
		c.invalid(id, "visualStyleHints.fillOpacity", "%v outside [0,1]", s.FillOpacity)
	}
	if s.StrokeWeight <= 0 {
		c.invalid(id, "visualStyleHints.strokeWeight", "%v must be positive", s.StrokeWeight)
	}
	switch s.Pattern {
	case PatternNone, PatternSolid, PatternDots, PatternStripes:
	default:
		c.invalid(id, "visualStyleHints.pattern", "unknown pattern %q", s.Pattern)
	}
}

// ValidateLandmarks checks every landmark, including model metadata.
func ValidateLandmarks(landmarks []Landmark) error {
	c := &collector{entity: "landmark"}
	seen := make(map[string]bool, len(landmarks))

	for _, lm := range landmarks {
		c.unique(seen, lm.ID)
		c.required(lm.ID, "id", lm.ID)
		c.required(lm.ID, "name", lm.Name)
		c.required(lm.ID, "capabilityId", lm.CapabilityID)
		if !lm.Type.Valid() {
			c.invalid(lm.ID, "type", "unknown type %q", lm.Type)
		}
		if !lm.Coordinates.IsFinite() {
			c.invalid(lm.ID, "coordinates", "non-finite point")
		}
		if lm.ZoomThreshold < -1 || lm.ZoomThreshold > 1 {
			c.invalid(lm.ID, "zoomThreshold", "%d outside [-1,1]", lm.ZoomThreshold)
		}
		for i, link := range lm.ExternalLinks {
			field := fmt.Sprintf("externalLinks[%d]", i)
			if !link.Type.Valid() {
				c.invalid(lm.ID, field+".type", "unknown link type %q", link.Type)
			}
			c.absoluteURL(lm.ID, field+".url", link.URL)
		}
		if lm.Type == LandmarkModel {
			if _, err := lm.ModelMetadata(); err != nil {
				cat := ValCatInvalidValue
				if errors.Is(err, ErrMissingField) {
					cat = ValCatMissingField
				}
				c.add(cat, lm.ID, "metadata", err)
			}
		}
	}
	return c.err()
}

// ValidateOrganizations checks every organization.
func ValidateOrganizations(orgs []Organization) error {
	c := &collector{entity: "organization"}
	seen := make(map[string]bool, len(orgs))

	for _, o := range orgs {
		c.unique(seen, o.ID)
		c.required(o.ID, "id", o.ID)
		c.required(o.ID, "name", o.Name)
		if !hexColor.MatchString(o.Color) {
			c.invalid(o.ID, "color", "%q is not #RRGGBB", o.Color)
		}
		if o.Website != "" {
			c.absoluteURL(o.ID, "website", o.Website)
		}
		if o.Logo != "" {
			c.absoluteURL(o.ID, "logo", o.Logo)
		}
	}
	return c.err()
}

// ValidateTours checks every tour and its stages.
func ValidateTours(tours []Tour) error {
	c := &collector{entity: "tour"}
	seen := make(map[string]bool, len(tours))

	for _, t := range tours {
		c.unique(seen, t.ID)
		c.required(t.ID, "id", t.ID)
		c.required(t.ID, "title", t.Title)
		if !t.Difficulty.Valid() {
			c.invalid(t.ID, "difficulty", "unknown difficulty %q", t.Difficulty)
		}
		if t.EstimatedDuration < 0 {
			c.invalid(t.ID, "estimatedDuration", "%d is negative", t.EstimatedDuration)
		}
		for i, st := range t.Stages {
			if !st.MapCenter.IsFinite() {
				c.invalid(t.ID, fmt.Sprintf("stages[%d].mapCenter", i), "non-finite point")
			}
		}
	}
	return c.err()
}
