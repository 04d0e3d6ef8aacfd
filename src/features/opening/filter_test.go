package opening

import (
	"errors"
	"testing"
)

func TestAudioFilter_Match(t *testing.T) {
	f := NewAudioFilter()

	tests := []struct {
		name string
		in   Intent
		want bool
	}{
		{"content audio", Intent{URI: "content://media/external/audio/media/42", Action: ActionView, MimeType: "audio/mpeg"}, true},
		{"file flac", Intent{URI: "file:///sdcard/Music/a.flac", Action: ActionView, MimeType: "audio/flac"}, true},
		{"ogg allow list", Intent{URI: "content://x/1", Action: ActionView, MimeType: "application/ogg"}, true},
		{"x-ogg allow list", Intent{URI: "content://x/1", Action: ActionView, MimeType: "application/x-ogg"}, true},
		{"itunes allow list", Intent{URI: "content://x/1", Action: ActionView, MimeType: "application/itunes"}, true},
		{"mime case and params", Intent{URI: "content://x/1", Action: ActionView, MimeType: "Audio/MPEG; charset=binary"}, true},
		{"no categories", Intent{URI: "file:///a.mp3", Action: ActionView, MimeType: "audio/mpeg", Categories: nil}, true},
		{"foreign categories", Intent{URI: "file:///a.mp3", Action: ActionView, MimeType: "audio/mpeg", Categories: []string{"android.intent.category.BROWSABLE"}}, true},
		{"type inferred from extension", Intent{URI: "file:///sdcard/a.mp3", Action: ActionView}, true},
		{"no type and unknown extension", Intent{URI: "content://media/external/audio/media/42", Action: ActionView}, true},
		{"send action", Intent{URI: "content://x/1", Action: "android.intent.action.SEND", MimeType: "audio/mpeg"}, false},
		{"empty action", Intent{URI: "content://x/1", MimeType: "audio/mpeg"}, false},
		{"http scheme", Intent{URI: "https://example.com/a.mp3", Action: ActionView, MimeType: "audio/mpeg"}, false},
		{"video type", Intent{URI: "content://x/1", Action: ActionView, MimeType: "video/mp4"}, false},
		{"application not allowed", Intent{URI: "content://x/1", Action: ActionView, MimeType: "application/pdf"}, false},
		{"malformed declared type", Intent{URI: "content://x/1", Action: ActionView, MimeType: "audio"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Match(tt.in); got != tt.want {
				t.Errorf("Match() = %v, want %v (reason: %v)", got, tt.want, f.Check(tt.in))
			}
		})
	}
}

func TestCheck_Reasons(t *testing.T) {
	f := NewAudioFilter()

	if err := f.Check(Intent{URI: "content://x/1", Action: "android.intent.action.SEND"}); !errors.Is(err, ErrActionMismatch) {
		t.Errorf("expected action mismatch, got %v", err)
	}
	if err := f.Check(Intent{URI: "ftp://x/a.mp3", Action: ActionView}); !errors.Is(err, ErrSchemeMismatch) {
		t.Errorf("expected scheme mismatch, got %v", err)
	}
	if err := f.Check(Intent{URI: "content://x/1", Action: ActionView, MimeType: "image/png"}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected type mismatch, got %v", err)
	}
}

func TestAddDataType_Malformed(t *testing.T) {
	f := NewFilter()
	for _, bad := range []string{"", "audio", "audio/", "/mpeg", "*/mpeg", "audio/mp eg", "audio/x/y"} {
		if err := f.AddDataType(bad); !errors.Is(err, ErrMalformedMimeType) {
			t.Errorf("expected ErrMalformedMimeType for %q, got %v", bad, err)
		}
	}
	if len(f.types) != 0 {
		t.Errorf("malformed rules must not be kept, got %d", len(f.types))
	}
}

func TestFilter_MalformedRuleIsExcluded(t *testing.T) {
	f := NewFilter()
	f.AddAction(ActionView)
	f.AddScheme(SchemeFile)
	_ = f.AddDataType("broken")
	if err := f.AddDataType("audio/*"); err != nil {
		t.Fatal(err)
	}

	if !f.Match(Intent{URI: "file:///a.mp3", Action: ActionView, MimeType: "audio/mpeg"}) {
		t.Error("valid rules must still match")
	}
}
