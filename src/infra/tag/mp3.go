package tag

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/contre95/lxbridge/src/music"
)

const (
	frameTitle       = "TIT2"
	frameArtist      = "TPE1"
	frameUserText    = "TXXX"
	frameAttachedPic = "APIC"

	// qualityField is the user defined text frame description (and vorbis
	// comment name) holding the quality value.
	qualityField = "QUALITY"
)

// syncWindow bounds how far past the ID3 tag stray padding is skipped.
const syncWindow = 4096

var errNotMPEG = errors.New("not an MPEG audio stream")

// checkMPEGStream verifies that an MPEG frame sync follows the ID3v2 tag, or
// starts the file when there is no tag.
func checkMPEGStream(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var offset int64
	header := make([]byte, 10)
	if n, _ := io.ReadFull(f, header); n == len(header) && bytes.HasPrefix(header, []byte("ID3")) {
		size := int64(header[6]&0x7f)<<21 | int64(header[7]&0x7f)<<14 | int64(header[8]&0x7f)<<7 | int64(header[9]&0x7f)
		offset = 10 + size
		if header[5]&0x10 != 0 {
			offset += 10 // footer
		}
	}

	window := make([]byte, syncWindow)
	n, err := f.ReadAt(window, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	window = bytes.TrimLeft(window[:n], "\x00")
	if len(window) < 2 || window[0] != 0xFF || window[1]&0xE0 != 0xE0 {
		return errNotMPEG
	}
	return nil
}

func readMP3(path string) (*music.TrackMetadata, error) {
	if err := checkMPEGStream(path); err != nil {
		return nil, err
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse ID3 tag: %w", err)
	}
	defer tag.Close()

	return mp3Metadata(tag), nil
}

func mp3Metadata(tag *id3v2.Tag) *music.TrackMetadata {
	meta := &music.TrackMetadata{}

	if f, ok := tag.GetLastFrame(frameTitle).(id3v2.TextFrame); ok {
		meta.Title = music.StringPtr(f.Text)
	}
	if f, ok := tag.GetLastFrame(frameArtist).(id3v2.TextFrame); ok {
		meta.Artist = music.StringPtr(f.Text)
	}
	for _, fr := range tag.GetFrames(frameUserText) {
		udtf, ok := fr.(id3v2.UserDefinedTextFrame)
		if ok && strings.EqualFold(udtf.Description, qualityField) {
			meta.Quality = music.StringPtr(udtf.Value)
			break
		}
	}

	var first *id3v2.PictureFrame
	for _, fr := range tag.GetFrames(frameAttachedPic) {
		pic, ok := fr.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			first = &pic
			break
		}
		if first == nil {
			first = &pic
		}
	}
	if first != nil {
		meta.Artwork = &music.Artwork{MimeType: first.MimeType, Data: first.Picture}
	}
	return meta
}

func writeMP3(path string, partial *music.TrackMetadata, overwrite bool) error {
	if err := checkMPEGStream(path); err != nil {
		return err
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if overwrite {
		tag.DeleteAllFrames()
	}

	if partial.Title != nil {
		tag.SetTitle(*partial.Title)
	}
	if partial.Artist != nil {
		tag.SetArtist(*partial.Artist)
	}
	if partial.Quality != nil {
		setMP3Quality(tag, *partial.Quality)
	}
	if partial.Artwork != nil {
		tag.DeleteFrames(frameAttachedPic)
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    partial.Artwork.MimeType,
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     partial.Artwork.Data,
		})
	}

	// Save writes to a temp file next to the original and renames it over.
	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save MP3 tags: %w", err)
	}
	return nil
}

// setMP3Quality replaces the QUALITY user text frame and keeps the others.
func setMP3Quality(tag *id3v2.Tag, quality string) {
	var keep []id3v2.UserDefinedTextFrame
	for _, fr := range tag.GetFrames(frameUserText) {
		udtf, ok := fr.(id3v2.UserDefinedTextFrame)
		if ok && !strings.EqualFold(udtf.Description, qualityField) {
			keep = append(keep, udtf)
		}
	}
	tag.DeleteFrames(frameUserText)
	for _, udtf := range keep {
		tag.AddUserDefinedTextFrame(udtf)
	}
	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: qualityField,
		Value:       quality,
	})
}
