// Package loader fetches the four entity collections from a directory or an
// HTTP base URL, validates them and reports dangling cross references.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/atlas/internal/model"
	"github.com/papapumpkin/atlas/internal/viewstate"
)

// Collection names, also used as log fields.
const (
	CollectionCapabilities  = "capabilities"
	CollectionLandmarks     = "landmarks"
	CollectionOrganizations = "organizations"
	CollectionTours         = "tours"
)

// Document names tried, in order, for each collection.
var documents = map[string][]string{
	CollectionCapabilities:  {"capabilities.json"},
	CollectionLandmarks:     {"landmarks.json"},
	CollectionOrganizations: {"organizations.json"},
	CollectionTours:         {"tours.json", "tours.toml", "tours.yaml", "tours.yml"},
}

// Problem records why a collection was loaded empty.
type Problem struct {
	Collection string
	Err        error
}

// Error implements error.
func (p Problem) Error() string { return p.Collection + ": " + p.Err.Error() }

// Unwrap returns the underlying failure.
func (p Problem) Unwrap() error { return p.Err }

// Result is the outcome of one load. Data always holds every collection that
// loaded cleanly; failed collections are empty and listed in Problems.
type Result struct {
	Data     viewstate.Collections
	Problems []Problem
	Dangling []model.DanglingRef
}

// OK reports whether every collection loaded and validated.
func (r Result) OK() bool { return len(r.Problems) == 0 }

// Load fetches all collections in parallel and waits for every fetch to
// finish. Failures are isolated per collection, logged and not retried.
func Load(ctx context.Context, src Source, logger *zap.Logger) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Stringer("source", src))

	var (
		res      Result
		problems [4]error
		g        errgroup.Group
	)
	g.Go(func() error {
		res.Data.Capabilities, problems[0] = load(ctx, src, CollectionCapabilities, decodeJSON[model.Capability], model.ValidateCapabilities)
		return nil
	})
	g.Go(func() error {
		res.Data.Landmarks, problems[1] = load(ctx, src, CollectionLandmarks, decodeJSON[model.Landmark], model.ValidateLandmarks)
		return nil
	})
	g.Go(func() error {
		res.Data.Organizations, problems[2] = load(ctx, src, CollectionOrganizations, decodeJSON[model.Organization], model.ValidateOrganizations)
		return nil
	})
	g.Go(func() error {
		res.Data.Tours, problems[3] = load(ctx, src, CollectionTours, decodeTours, model.ValidateTours)
		return nil
	})
	_ = g.Wait()

	names := [4]string{CollectionCapabilities, CollectionLandmarks, CollectionOrganizations, CollectionTours}
	for i, err := range problems {
		if err == nil {
			continue
		}
		res.Problems = append(res.Problems, Problem{Collection: names[i], Err: err})
		logger.Warn("collection failed to load", zap.String("collection", names[i]), zap.Error(err))
	}

	res.Dangling = model.CheckReferences(res.Data.Capabilities, res.Data.Landmarks, res.Data.Organizations, res.Data.Tours)
	if len(res.Dangling) > 0 {
		refs := make([]string, len(res.Dangling))
		for i, d := range res.Dangling {
			refs[i] = d.String()
		}
		logger.Info("dangling references", zap.Int("count", len(refs)), zap.Strings("refs", refs))
	}

	logger.Debug("data loaded",
		zap.Int(CollectionCapabilities, len(res.Data.Capabilities)),
		zap.Int(CollectionLandmarks, len(res.Data.Landmarks)),
		zap.Int(CollectionOrganizations, len(res.Data.Organizations)),
		zap.Int(CollectionTours, len(res.Data.Tours)),
	)
	return res
}

type decodeFunc[T any] func(name string, data []byte) ([]T, error)

// load reads the first existing document for collection, decodes and
// validates it. Any failure yields an empty (non-nil) slice and the error.
func load[T any](ctx context.Context, src Source, collection string, decode decodeFunc[T], validate func([]T) error) ([]T, error) {
	name, data, err := read(ctx, src, documents[collection])
	if err != nil {
		return []T{}, err
	}
	items, err := decode(name, data)
	if err != nil {
		return []T{}, fmt.Errorf("decoding %s: %w", name, err)
	}
	if items == nil {
		items = []T{}
	}
	if err := validate(items); err != nil {
		return []T{}, fmt.Errorf("validating %s: %w", name, err)
	}
	return items, nil
}

func read(ctx context.Context, src Source, names []string) (string, []byte, error) {
	for _, name := range names {
		rc, err := src.Open(ctx, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return name, nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return name, nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return name, data, nil
	}
	return "", nil, fmt.Errorf("none of %v found: %w", names, fs.ErrNotExist)
}
