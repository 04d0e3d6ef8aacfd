package music

import (
	"errors"
	"fmt"
	"testing"
)

func TestApply_KeepsUnsetFields(t *testing.T) {
	m := &TrackMetadata{
		Title:   StringPtr("Old"),
		Artist:  StringPtr("A"),
		Quality: StringPtr("320k"),
	}

	m.Apply(&TrackMetadata{Title: StringPtr("New")})

	if *m.Title != "New" {
		t.Errorf("expected title New, got %s", *m.Title)
	}
	if m.Artist == nil || *m.Artist != "A" {
		t.Errorf("artist was not preserved: %v", m.Artist)
	}
	if m.Quality == nil || *m.Quality != "320k" {
		t.Errorf("quality was not preserved: %v", m.Quality)
	}
	if m.Artwork != nil {
		t.Error("artwork should stay absent")
	}
}

func TestDataURI_RoundTrip(t *testing.T) {
	art := &Artwork{MimeType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF, 0x01}}

	uri := art.DataURI()
	if uri[:23] != "data:image/jpeg;base64," {
		t.Fatalf("unexpected prefix: %s", uri)
	}

	parsed, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.MimeType != "image/jpeg" || string(parsed.Data) != string(art.Data) {
		t.Errorf("round trip mismatch: %+v", parsed)
	}
}

func TestParseDataURI_ToleratesLineBreaks(t *testing.T) {
	parsed, err := ParseDataURI("data:image/png;base64,aGVs\nbG8=\n")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(parsed.Data) != "hello" {
		t.Errorf("expected hello, got %q", parsed.Data)
	}
}

func TestParseDataURI_Rejects(t *testing.T) {
	for _, in := range []string{"http://x/y.png", "data:image/png,raw", "data:image/png;base64"} {
		if _, err := ParseDataURI(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestNewError_KeepsInnerKind(t *testing.T) {
	inner := NewError(KindArtworkFetch, "fetch artwork", "", errors.New("status 404"))
	outer := NewError(KindTagWrite, "save metadata", "/a.mp3", fmt.Errorf("artwork: %w", inner))

	if KindOf(outer) != KindArtworkFetch {
		t.Errorf("expected %s, got %s", KindArtworkFetch, KindOf(outer))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("plain errors carry no kind")
	}
}
