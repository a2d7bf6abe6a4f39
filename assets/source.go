package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Source opens asset bytes by path.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FSSource reads assets from an fs.FS. Paths are slash-separated and
// relative to the root of FS.
type FSSource struct {
	FS fs.FS
}

// Dir returns a Source rooted at a directory on disk.
func Dir(root string) FSSource {
	return FSSource{FS: os.DirFS(root)}
}

// Open implements Source.
func (s FSSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return s.FS.Open(strings.TrimPrefix(path, "/"))
}

// HTTPSource fetches assets relative to BaseURL. Absolute URLs are fetched
// as-is.
type HTTPSource struct {
	Client  *http.Client
	BaseURL string
}

// Open implements Source.
func (s HTTPSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
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
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %s", target, resp.Status)
	}
	return resp.Body, nil
}

func (s HTTPSource) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || s.BaseURL == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// MemorySource serves assets from a map, keyed by path.
type MemorySource map[string][]byte

// Open implements Source.
func (s MemorySource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := s[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
