package tag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/contre95/lxbridge/src/music"
)

// Codec reads and writes title, artist, quality and cover art on local audio
// files. MP3 and FLAC are read and written; other containers are read only.
type Codec struct {
	fallback *FallbackReader
}

// NewCodec creates a new Codec
func NewCodec() *Codec {
	return &Codec{fallback: NewFallbackReader()}
}

type format int

const (
	formatUnknown format = iota
	formatMP3
	formatFLAC
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return formatMP3
	case ".flac":
		return formatFLAC
	default:
		return formatUnknown
	}
}

// Read returns the fields present in the file's tag. Absent fields stay nil.
func (c *Codec) Read(ctx context.Context, path string) (*music.TrackMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, music.NewError(music.KindTagRead, "read metadata", path, err)
	}
	if err := checkRegularFile(path); err != nil {
		return nil, music.NewError(music.KindTagRead, "read metadata", path, err)
	}

	var (
		meta *music.TrackMetadata
		err  error
	)
	switch formatOf(path) {
	case formatMP3:
		meta, err = readMP3(path)
	case formatFLAC:
		meta, err = readFLAC(path)
	default:
		meta, err = c.fallback.Read(path)
	}
	if err != nil {
		return nil, music.NewError(music.KindTagRead, "read metadata", path, err)
	}
	return meta, nil
}

// Write loads the existing tag (an empty one if the file has none), applies
// the fields set in partial and persists the file in one replace step.
// With overwrite the existing fields are dropped first.
func (c *Codec) Write(ctx context.Context, path string, partial *music.TrackMetadata, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return music.NewError(music.KindTagWrite, "write metadata", path, err)
	}
	if partial == nil {
		partial = &music.TrackMetadata{}
	}
	if err := checkRegularFile(path); err != nil {
		return music.NewError(music.KindTagWrite, "write metadata", path, err)
	}

	var err error
	switch formatOf(path) {
	case formatMP3:
		err = writeMP3(path, partial, overwrite)
	case formatFLAC:
		err = writeFLAC(path, partial, overwrite)
	default:
		err = fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}
	if err != nil {
		return music.NewError(music.KindTagWrite, "write metadata", path, err)
	}

	slog.Debug("Tag written", "path", path, "overwrite", overwrite,
		"title", partial.Title != nil, "artist", partial.Artist != nil,
		"quality", partial.Quality != nil, "artwork", partial.Artwork != nil)
	return nil
}

// ReadQuality returns the custom quality field, or "" when the tag has none.
func (c *Codec) ReadQuality(ctx context.Context, path string) (string, error) {
	meta, err := c.Read(ctx, path)
	if err != nil {
		return "", err
	}
	return meta.QualityOrEmpty(), nil
}

// WriteQuality sets the custom quality field, keeping every other field.
func (c *Codec) WriteQuality(ctx context.Context, path, quality string) error {
	return c.Write(ctx, path, &music.TrackMetadata{Quality: music.StringPtr(quality)}, false)
}

// ReadPicture returns the embedded picture, or nil when there is none.
func (c *Codec) ReadPicture(ctx context.Context, path string) (*music.Artwork, error) {
	meta, err := c.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return meta.Artwork, nil
}

func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
