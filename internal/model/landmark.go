package model

import (
	"encoding/json"
	"fmt"

	"github.com/papapumpkin/atlas/internal/geo"
)

// LandmarkType is the category of a landmark.
type LandmarkType string

// Landmark types.
const (
	LandmarkPaper     LandmarkType = "paper"
	LandmarkModel     LandmarkType = "model"
	LandmarkTool      LandmarkType = "tool"
	LandmarkBenchmark LandmarkType = "benchmark"
)

// Valid reports whether t is a known landmark type.
func (t LandmarkType) Valid() bool {
	switch t {
	case LandmarkPaper, LandmarkModel, LandmarkTool, LandmarkBenchmark:
		return true
	}
	return false
}

// Label returns the display name of the type.
func (t LandmarkType) Label() string {
	switch t {
	case LandmarkPaper:
		return "Paper"
	case LandmarkModel:
		return "Model"
	case LandmarkTool:
		return "Tool"
	case LandmarkBenchmark:
		return "Benchmark"
	}
	return string(t)
}

// LinkType classifies an external link.
type LinkType string

// Link types.
const (
	LinkArxiv     LinkType = "arxiv"
	LinkGitHub    LinkType = "github"
	LinkPaper     LinkType = "paper"
	LinkModelCard LinkType = "model-card"
	LinkWebsite   LinkType = "website"
	LinkOther     LinkType = "other"
)

// Valid reports whether t is a known link type.
func (t LinkType) Valid() bool {
	switch t {
	case LinkArxiv, LinkGitHub, LinkPaper, LinkModelCard, LinkWebsite, LinkOther:
		return true
	}
	return false
}

// ExternalLink points at a resource outside the map.
type ExternalLink struct {
	Type  LinkType `json:"type"`
	URL   string   `json:"url"`
	Label string   `json:"label"`
}

// DefaultLandmarkZoomThreshold applies when a landmark document omits the field.
const DefaultLandmarkZoomThreshold = 1

// Landmark is a paper, model, tool or benchmark placed inside a capability.
type Landmark struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Type             LandmarkType   `json:"type"`
	Year             int            `json:"year"`
	Organization     string         `json:"organization"`
	Authors          []string       `json:"authors,omitempty"`
	Description      string         `json:"description"`
	Abstract         string         `json:"abstract,omitempty"`
	ExternalLinks    []ExternalLink `json:"externalLinks"`
	Coordinates      geo.LatLng     `json:"coordinates"`
	CapabilityID     string         `json:"capabilityId"`
	RelatedLandmarks []string       `json:"relatedLandmarks"`
	Tags             []string       `json:"tags"`
	Icon             string         `json:"icon,omitempty"`
	ZoomThreshold    int            `json:"zoomThreshold"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// UnmarshalJSON decodes a landmark, defaulting a missing zoomThreshold.
func (l *Landmark) UnmarshalJSON(data []byte) error {
	type plain Landmark
	aux := struct {
		*plain
		ZoomThreshold *int `json:"zoomThreshold"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ZoomThreshold != nil {
		l.ZoomThreshold = *aux.ZoomThreshold
	} else {
		l.ZoomThreshold = DefaultLandmarkZoomThreshold
	}
	return nil
}

// ModelMetadata is the metadata shape required for model landmarks.
type ModelMetadata struct {
	Parameters     string   `json:"parameters"`
	Architecture   string   `json:"architecture"`
	TrainingMethod string   `json:"trainingMethod"`
	Capabilities   []string `json:"capabilities"`
	ReleaseDate    string   `json:"releaseDate"`
	License        string   `json:"license,omitempty"`
	BaseModel      string   `json:"baseModel,omitempty"`
}

// ModelMetadata decodes the free-form metadata into the model shape. It fails
// when the landmark is not a model or a required field is missing.
func (l Landmark) ModelMetadata() (ModelMetadata, error) {
	if l.Type != LandmarkModel {
		return ModelMetadata{}, fmt.Errorf("%w: landmark %s is a %s", ErrNotModel, l.ID, l.Type)
	}
	if l.Metadata == nil {
		return ModelMetadata{}, fmt.Errorf("%w: metadata", ErrMissingField)
	}

	raw, err := json.Marshal(l.Metadata)
	if err != nil {
		return ModelMetadata{}, fmt.Errorf("encoding metadata: %w", err)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ModelMetadata{}, fmt.Errorf("decoding metadata: %w", err)
	}
	for _, field := range []string{"parameters", "architecture", "trainingMethod", "capabilities", "releaseDate"} {
		if _, ok := probe[field]; !ok {
			return ModelMetadata{}, fmt.Errorf("%w: metadata.%s", ErrMissingField, field)
		}
	}

	var md ModelMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return ModelMetadata{}, fmt.Errorf("%w: metadata: %v", ErrInvalidValue, err)
	}
	return md, nil
}
