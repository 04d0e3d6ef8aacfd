package music

import (
	"context"
)

// TagCodec reads and writes the tag block of local audio files.
type TagCodec interface {
	// Read returns only the fields present in the file's tag.
	Read(ctx context.Context, path string) (*TrackMetadata, error)
	// Write applies the fields set in partial and persists the whole tag.
	// With overwrite, fields absent from partial are cleared.
	Write(ctx context.Context, path string, partial *TrackMetadata, overwrite bool) error
}

// ArtworkFetcher downloads a picture and re-encodes it as PNG.
type ArtworkFetcher interface {
	FetchAndNormalize(ctx context.Context, url string) ([]byte, error)
	Normalize(data []byte) ([]byte, error)
}

// PictureReader extracts the embedded picture through an alternate reader.
type PictureReader interface {
	ReadPicture(ctx context.Context, path string) (*Artwork, error)
}

// ContentIndex maps opaque content handles to filesystem paths.
type ContentIndex interface {
	Lookup(ctx context.Context, uri string) (string, error)
}
