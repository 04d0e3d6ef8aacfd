package metadata

import (
	"net/url"
	"path"
	"strings"
)

// Extractor is the strategy used to pull the embedded picture out of a file.
type Extractor int

const (
	// ExtractorCodec reads the picture through the tag codec.
	ExtractorCodec Extractor = iota
	// ExtractorIndexed resolves a content handle and reads the picture with
	// the alternate reader.
	ExtractorIndexed
)

func (e Extractor) String() string {
	switch e {
	case ExtractorIndexed:
		return "indexed"
	default:
		return "codec"
	}
}

// SelectExtractor picks the extractor for a path: content handles of MP3 and
// FLAC files use the indexed extractor, everything else the codec.
func SelectExtractor(p string) Extractor {
	if !isContentURI(p) {
		return ExtractorCodec
	}
	switch strings.ToLower(path.Ext(contentPath(p))) {
	case ".mp3", ".flac":
		return ExtractorIndexed
	default:
		return ExtractorCodec
	}
}

func isContentURI(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), "content://")
}

// contentPath returns the decoded path part of a content URI.
func contentPath(p string) string {
	u, err := url.Parse(p)
	if err != nil {
		return p
	}
	return u.Path
}
