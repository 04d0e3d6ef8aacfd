package tag

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/contre95/lxbridge/src/music"
	"github.com/dhowden/tag"
)

// FallbackReader reads tags through dhowden/tag. It covers containers the
// Codec cannot write (m4a, ogg, ...) and serves as the alternate picture
// extractor for indexed content.
type FallbackReader struct{}

// NewFallbackReader creates a new FallbackReader
func NewFallbackReader() *FallbackReader {
	return &FallbackReader{}
}

// Read reads the tag of path. Empty values are reported as absent since the
// underlying reader does not distinguish them.
func (r *FallbackReader) Read(path string) (*music.TrackMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	meta := &music.TrackMetadata{}
	if v := tags.Title(); v != "" {
		meta.Title = music.StringPtr(v)
	}
	if v := tags.Artist(); v != "" {
		meta.Artist = music.StringPtr(v)
	}
	if v := rawQuality(tags.Raw()); v != "" {
		meta.Quality = music.StringPtr(v)
	}
	if pic := tags.Picture(); pic != nil && len(pic.Data) > 0 {
		meta.Artwork = &music.Artwork{MimeType: pic.MIMEType, Data: pic.Data}
	}
	return meta, nil
}

// ReadPicture returns the embedded picture of path, or nil when there is none.
func (r *FallbackReader) ReadPicture(ctx context.Context, path string) (*music.Artwork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, err := r.Read(path)
	if err != nil {
		return nil, music.NewError(music.KindTagRead, "read picture", path, err)
	}
	return meta.Artwork, nil
}

// rawQuality finds the quality value among raw tag fields. Keys vary by
// container: "quality" for vorbis, a TXXX entry for ID3, a freeform atom for MP4.
func rawQuality(raw map[string]interface{}) string {
	for key, value := range raw {
		upper := strings.ToUpper(key)
		if upper == qualityField || strings.HasSuffix(upper, ":"+qualityField) {
			if s, ok := value.(string); ok {
				return s
			}
		}
		if comm, ok := value.(*tag.Comm); ok && strings.EqualFold(comm.Description, qualityField) {
			return comm.Text
		}
	}
	return ""
}
