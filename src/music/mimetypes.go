package music

import (
	"path/filepath"
	"strings"
)

var audioMimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "application/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".wav":  "audio/x-wav",
	".ape":  "audio/x-ape",
	".wma":  "audio/x-ms-wma",
}

// AudioMimeType returns the mime type for an audio file name, or "" when the
// extension is not a known audio format.
func AudioMimeType(name string) string {
	return audioMimeTypes[strings.ToLower(filepath.Ext(name))]
}

// IsAudioFile reports whether name has a known audio extension.
func IsAudioFile(name string) bool {
	return AudioMimeType(name) != ""
}
