package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Source opens named data documents such as "landmarks.json".
// A document that does not exist yields an error matching fs.ErrNotExist.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// DirSource reads documents from a local directory.
type DirSource struct {
	Dir string
}

// Open opens dir/name.
func (s DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// String returns the directory.
func (s DirSource) String() string { return s.Dir }

// HTTPSource fetches documents relative to a base URL.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPSource parses base. The base is treated as a directory, so
// "https://host/data" and "https://host/data/" are equivalent.
func NewHTTPSource(base string) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing data url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("data url %q: unsupported scheme %q", base, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPSource{Base: u, Client: http.DefaultClient}, nil
}

// Open issues a GET for the named document. A 404 maps to fs.ErrNotExist.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	u := *s.Base
	u.Path = path.Join(s.Base.Path, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %w", u.String(), fs.ErrNotExist)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %s", u.String(), resp.Status)
	}
	return resp.Body, nil
}

// String returns the base URL.
func (s *HTTPSource) String() string { return s.Base.String() }

// ErrNoSource is returned when neither a directory nor a URL is configured.
var ErrNoSource = errors.New("no data source configured")

// NewSource picks an HTTP source when rawURL is set, else a directory source.
func NewSource(dir, rawURL string) (Source, error) {
	switch {
	case rawURL != "":
		return NewHTTPSource(rawURL)
	case dir != "":
		return DirSource{Dir: dir}, nil
	}
	return nil, ErrNoSource
}
