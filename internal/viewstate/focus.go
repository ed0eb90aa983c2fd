package viewstate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/geo"
	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/orgmatch"
)

var (
	// ErrEntityNotFound indicates a focus target that is not loaded.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrNoCoordinates indicates an entity with no point to focus on.
	ErrNoCoordinates = errors.New("entity has no coordinates")
)

// Zoom levels used when focusing an entity of each type.
const (
	FocusZoomCapability   = 1
	FocusZoomLandmark     = 2
	FocusZoomOrganization = 0
)

// Target returns the center and zoom that frame ref: a landmark's own
// coordinates, a capability's polygon centroid, or the centroid of an
// organization's matched landmarks.
func Target(st State, ref model.EntityRef) (geo.LatLng, float64, error) {
	switch ref.Type {
	case model.EntityLandmark:
		l, ok := st.FindLandmark(ref.ID)
		if !ok {
			return geo.LatLng{}, 0, fmt.Errorf("%w: landmark %s", ErrEntityNotFound, ref.ID)
		}
		return l.Coordinates, FocusZoomLandmark, nil

	case model.EntityCapability:
		c, ok := st.FindCapability(ref.ID)
		if !ok {
			return geo.LatLng{}, 0, fmt.Errorf("%w: capability %s", ErrEntityNotFound, ref.ID)
		}
		center, ok := c.Centroid()
		if !ok {
			return geo.LatLng{}, 0, fmt.Errorf("%w: capability %s", ErrNoCoordinates, ref.ID)
		}
		return center, FocusZoomCapability, nil

	case model.EntityOrganization:
		o, ok := st.FindOrganization(ref.ID)
		if !ok {
			return geo.LatLng{}, 0, fmt.Errorf("%w: organization %s", ErrEntityNotFound, ref.ID)
		}
		var pts []geo.LatLng
		for _, l := range orgmatch.Landmarks(o, st.Landmarks) {
			pts = append(pts, l.Coordinates)
		}
		center, ok := geo.Centroid(pts)
		if !ok {
			return geo.LatLng{}, 0, fmt.Errorf("%w: organization %s", ErrNoCoordinates, ref.ID)
		}
		return center, FocusZoomOrganization, nil
	}
	return geo.LatLng{}, 0, fmt.Errorf("%w: unknown type %q", ErrEntityNotFound, ref.Type)
}

// Focus moves the map to ref and selects it. With a viewport attached the
// move is animated (falling back to an instant set); without one the store's
// center and zoom are updated directly. Nothing is selected when the target
// cannot be resolved.
func Focus(s *Store, ref model.EntityRef, opts FlyOptions) error {
	center, zoom, err := Target(s.State(), ref)
	if err != nil {
		s.logger.Warn("focus target unavailable", zap.String("type", string(ref.Type)), zap.String("id", ref.ID), zap.Error(err))
		return err
	}

	if vp := s.Viewport(); vp != nil {
		Move(vp, center, zoom, opts, s.logger)
	} else {
		s.SetView(center, zoom)
	}
	s.SelectEntity(ref.Type, ref.ID)
	return nil
}

// Move requests an animated transition and falls back to an instant set when
// the animation is refused. Failures, including panics in the handle, are
// logged and never returned.
func Move(vp Viewport, center geo.LatLng, zoom float64, opts FlyOptions, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	err := guard(func() error { return vp.FlyTo(center, zoom, opts) })
	if err == nil {
		return
	}
	logger.Warn("viewport fly failed; setting view instantly",
		zap.Stringer("center", center), zap.Float64("zoom", zoom), zap.Error(err))
	if err := guard(func() error { return vp.SetView(center, zoom) }); err != nil {
		logger.Error("viewport set failed", zap.Stringer("center", center), zap.Float64("zoom", zoom), zap.Error(err))
	}
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("viewport panic: %v", r)
		}
	}()
	return fn()
}
