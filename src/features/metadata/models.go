package metadata

import "github.com/contre95/lxbridge/src/music"

// Fields is the metadata shape the application sends and receives.
// Absent fields are omitted on the wire.
type Fields struct {
	Singer  *string `json:"singer,omitempty"`
	Name    *string `json:"name,omitempty"`
	Quality *string `json:"quality,omitempty"`
	PicURL  *string `json:"picUrl,omitempty"`
}

// fieldsOf renders m in the application's shape. The picture becomes a data URI.
func fieldsOf(m *music.TrackMetadata) Fields {
	f := Fields{Singer: m.Artist, Name: m.Title, Quality: m.Quality}
	if uri := m.Artwork.DataURI(); uri != "" {
		f.PicURL = &uri
	}
	return f
}
