package opening

import (
	"net/url"
	"path"
	"strings"
)

const (
	// ActionView is the platform's generic "view" action.
	ActionView = "android.intent.action.VIEW"

	CategoryDefault  = "android.intent.category.DEFAULT"
	CategoryAppMusic = "android.intent.category.APP_MUSIC"

	SchemeContent = "content"
	SchemeFile    = "file"
)

// Intent is an incoming "open with" file reference.
type Intent struct {
	URI        string   `json:"uri"`
	Action     string   `json:"action"`
	MimeType   string   `json:"mimeType,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// NewViewIntent builds a view intent for uri.
func NewViewIntent(uri, mimeType string) Intent {
	return Intent{
		URI:        uri,
		Action:     ActionView,
		MimeType:   mimeType,
		Categories: []string{CategoryDefault},
	}
}

// Scheme returns the lower-cased URI scheme, or "" when the URI does not parse.
func (in Intent) Scheme() string {
	u, err := url.Parse(in.URI)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// lastSegment returns the last path segment of the URI, used to infer a type.
func (in Intent) lastSegment() string {
	u, err := url.Parse(in.URI)
	if err != nil {
		return ""
	}
	return path.Base(u.Path)
}
