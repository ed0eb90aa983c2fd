// Package model defines the entities placed on the research map: capability
// regions, landmarks, organizations and guided tours.
package model

import (
	"github.com/papapumpkin/atlas/internal/geo"
)

// CapabilityLevel is the tier of a capability region.
type CapabilityLevel string

// Capability levels, coarsest first.
const (
	LevelContinent   CapabilityLevel = "continent"
	LevelArchipelago CapabilityLevel = "archipelago"
	LevelIsland      CapabilityLevel = "island"
	LevelStrait      CapabilityLevel = "strait"
)

// Valid reports whether l is one of the known levels.
func (l CapabilityLevel) Valid() bool {
	switch l {
	case LevelContinent, LevelArchipelago, LevelIsland, LevelStrait:
		return true
	}
	return false
}

// Rank orders levels from coarsest (0) to finest (2). Islands and straits
// share the finest rank. Unknown levels rank -1.
func (l CapabilityLevel) Rank() int {
	switch l {
	case LevelContinent:
		return 0
	case LevelArchipelago:
		return 1
	case LevelIsland, LevelStrait:
		return 2
	}
	return -1
}

// ZoomThreshold is the threshold a capability of this level must carry.
func (l CapabilityLevel) ZoomThreshold() int {
	return l.Rank() - 1
}

// Label returns the display name of the level.
func (l CapabilityLevel) Label() string {
	switch l {
	case LevelContinent:
		return "Continent"
	case LevelArchipelago:
		return "Archipelago"
	case LevelIsland:
		return "Island"
	case LevelStrait:
		return "Strait"
	}
	return string(l)
}

// FillPattern is an optional fill decoration for a capability polygon.
type FillPattern string

// Fill patterns. PatternNone leaves the fill plain.
const (
	PatternNone    FillPattern = ""
	PatternSolid   FillPattern = "solid"
	PatternDots    FillPattern = "dots"
	PatternStripes FillPattern = "stripes"
)

// VisualStyle carries rendering hints for a capability polygon.
type VisualStyle struct {
	FillColor    string      `json:"fillColor"`
	FillOpacity  float64     `json:"fillOpacity"`
	StrokeColor  string      `json:"strokeColor"`
	StrokeWeight float64     `json:"strokeWeight"`
	Pattern      FillPattern `json:"pattern,omitempty"`
}

// Capability is a polygonal region representing an area of LLM research.
type Capability struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	ShortDescription   string          `json:"shortDescription"`
	Level              CapabilityLevel `json:"level"`
	PolygonCoordinates []geo.LatLng    `json:"polygonCoordinates"`
	VisualStyleHints   VisualStyle     `json:"visualStyleHints"`
	RelatedLandmarks   []string        `json:"relatedLandmarks"`
	ParentCapabilityID string          `json:"parentCapabilityId,omitempty"`
	ZoomThreshold      int             `json:"zoomThreshold"`
}

// Centroid returns the mean of the polygon vertices.
func (c Capability) Centroid() (geo.LatLng, bool) {
	return geo.Centroid(c.PolygonCoordinates)
}

// Contains reports whether p lies inside the capability polygon.
func (c Capability) Contains(p geo.LatLng) bool {
	return geo.PolygonContains(c.PolygonCoordinates, p)
}

// Organization is a research institution or company.
type Organization struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Website     string   `json:"website,omitempty"`
	LandmarkIDs []string `json:"landmarkIds"`
	Color       string   `json:"color"`
	Logo        string   `json:"logo,omitempty"`
}

// Difficulty grades a tour.
type Difficulty string

// Tour difficulties.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d.Rank() >= 0
}

// Rank orders difficulties from beginner (0) to advanced (2); unknown is -1.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 0
	case DifficultyIntermediate:
		return 1
	case DifficultyAdvanced:
		return 2
	}
	return -1
}

// TourStage is one narrated stop of a tour.
type TourStage struct {
	Index       int        `json:"index"`
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Narration   string     `json:"narration"`
	LandmarkIDs []string   `json:"landmarkIds"`
	MapCenter   geo.LatLng `json:"mapCenter"`
	MapZoom     float64    `json:"mapZoom"`
}

// Tour is an ordered, narrated sequence of map stages.
type Tour struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Difficulty        Difficulty  `json:"difficulty"`
	EstimatedDuration int         `json:"estimatedDuration"`
	Tags              []string    `json:"tags"`
	Stages            []TourStage `json:"stages"`
}

// EntityType names the selectable entity kinds.
type EntityType string

// Selectable entity types.
const (
	EntityCapability   EntityType = "capability"
	EntityLandmark     EntityType = "landmark"
	EntityOrganization EntityType = "organization"
)

// ParseEntityType returns the entity type for s, or false when s is not one
// of the selectable kinds.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case EntityCapability, EntityLandmark, EntityOrganization:
		return EntityType(s), true
	}
	return "", false
}

// EntityRef identifies a selected entity.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   string     `json:"id"`
}
