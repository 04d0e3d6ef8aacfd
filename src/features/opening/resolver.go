package opening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/contre95/lxbridge/src/music"
)

// ErrNotFound means the intent's URI does not lead to a file on disk.
var ErrNotFound = errors.New("no path for uri")

// Resolver turns intent URIs into filesystem paths.
type Resolver struct {
	index music.ContentIndex
}

// NewResolver creates a resolver that looks content:// handles up in index.
func NewResolver(index music.ContentIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve returns the real path behind in.URI, or ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, in Intent) (string, error) {
	switch in.Scheme() {
	case SchemeFile:
		return r.resolveFile(in.URI)
	case SchemeContent:
		return r.resolveContent(ctx, in.URI)
	default:
		return "", fmt.Errorf("%w: unsupported scheme in %s", ErrNotFound, in.URI)
	}
}

func (r *Resolver) resolveFile(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	info, err := os.Stat(u.Path)
	if err != nil || info.IsDir() {
		slog.Warn("File intent points to no regular file", "uri", uri, "error", err)
		return "", fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return u.Path, nil
}

func (r *Resolver) resolveContent(ctx context.Context, uri string) (string, error) {
	if r.index == nil {
		return "", fmt.Errorf("%w: no content index for %s", ErrNotFound, uri)
	}
	path, err := r.index.Lookup(ctx, uri)
	if err != nil {
		slog.Warn("Content handle did not resolve", "uri", uri, "error", err)
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return path, nil
}
