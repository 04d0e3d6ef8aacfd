package music

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultPictureMime is used for data URIs when an embedded picture carries no mime type.
const DefaultPictureMime = "image/png"

// Artwork is an embedded picture together with its mime type.
type Artwork struct {
	MimeType string
	Data     []byte
}

// TrackMetadata is the mutable tag block of one audio file.
// A nil field is absent: it is neither read back nor written.
type TrackMetadata struct {
	Title   *string
	Artist  *string
	Quality *string
	Artwork *Artwork
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// IsEmpty reports whether no field is set.
func (m *TrackMetadata) IsEmpty() bool {
	return m == nil || (m.Title == nil && m.Artist == nil && m.Quality == nil && m.Artwork == nil)
}

// Apply copies every field set in partial onto m, leaving the others untouched.
func (m *TrackMetadata) Apply(partial *TrackMetadata) {
	if partial == nil {
		return
	}
	if partial.Title != nil {
		m.Title = StringPtr(*partial.Title)
	}
	if partial.Artist != nil {
		m.Artist = StringPtr(*partial.Artist)
	}
	if partial.Quality != nil {
		m.Quality = StringPtr(*partial.Quality)
	}
	if partial.Artwork != nil {
		m.Artwork = &Artwork{MimeType: partial.Artwork.MimeType, Data: append([]byte(nil), partial.Artwork.Data...)}
	}
}

// QualityOrEmpty returns the quality field, or "" when it is absent.
func (m *TrackMetadata) QualityOrEmpty() string {
	if m == nil || m.Quality == nil {
		return ""
	}
	return *m.Quality
}

// DataURI renders the artwork as a base64 data URI.
func (a *Artwork) DataURI() string {
	if a == nil || len(a.Data) == 0 {
		return ""
	}
	mime := a.MimeType
	if mime == "" {
		mime = DefaultPictureMime
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// IsDataURI reports whether s looks like a data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// ParseDataURI decodes a base64 data URI into an Artwork.
func ParseDataURI(s string) (*Artwork, error) {
	s = strings.TrimSpace(s)
	if !IsDataURI(s) {
		return nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	// Android's Base64.DEFAULT wraps lines, so tolerate whitespace.
	payload = strings.Join(strings.Fields(payload), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	if mime == "" {
		mime = DefaultPictureMime
	}
	return &Artwork{MimeType: mime, Data: data}, nil
}

// PictureExtension maps a picture mime type to a file extension.
func PictureExtension(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".png"
	}
}
