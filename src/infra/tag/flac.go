package tag

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/contre95/lxbridge/src/music"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
	_ "golang.org/x/image/webp" // decoders for flacpicture.NewFromImageData
)

func readFLAC(path string) (*music.TrackMetadata, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	meta := &music.TrackMetadata{}
	var front, first *flacpicture.MetadataBlockPicture
	for _, block := range f.Meta {
		switch block.Type {
		case goflac.VorbisComment:
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, fmt.Errorf("failed to parse Vorbis comment: %w", err)
			}
			meta.Title = firstComment(cmts, flacvorbis.FIELD_TITLE)
			meta.Artist = firstComment(cmts, flacvorbis.FIELD_ARTIST)
			meta.Quality = firstComment(cmts, qualityField)
		case goflac.Picture:
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil || len(pic.ImageData) == 0 {
				continue
			}
			if first == nil {
				first = pic
			}
			if front == nil && pic.PictureType == flacpicture.PictureTypeFrontCover {
				front = pic
			}
		}
	}

	if front == nil {
		front = first
	}
	if front != nil {
		meta.Artwork = &music.Artwork{MimeType: front.MIME, Data: front.ImageData}
	}
	return meta, nil
}

func firstComment(cmts *flacvorbis.MetaDataBlockVorbisComment, field string) *string {
	values, err := cmts.Get(field)
	if err != nil || len(values) == 0 {
		return nil
	}
	return music.StringPtr(values[0])
}

func writeFLAC(path string, partial *music.TrackMetadata, overwrite bool) error {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	var cmts *flacvorbis.MetaDataBlockVorbisComment
	commentIndex := -1
	for idx, block := range f.Meta {
		if block.Type == goflac.VorbisComment {
			cmts, err = flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return fmt.Errorf("failed to parse Vorbis comment: %w", err)
			}
			commentIndex = idx
			break
		}
	}
	if cmts == nil || overwrite {
		vendor := ""
		if cmts != nil {
			vendor = cmts.Vendor
		}
		cmts = flacvorbis.New()
		if vendor != "" {
			cmts.Vendor = vendor
		}
	}

	if partial.Title != nil {
		if err := setComment(cmts, flacvorbis.FIELD_TITLE, *partial.Title); err != nil {
			return err
		}
	}
	if partial.Artist != nil {
		if err := setComment(cmts, flacvorbis.FIELD_ARTIST, *partial.Artist); err != nil {
			return err
		}
	}
	if partial.Quality != nil {
		if err := setComment(cmts, qualityField, *partial.Quality); err != nil {
			return err
		}
	}

	commentMeta := cmts.Marshal()
	if commentIndex >= 0 {
		f.Meta[commentIndex] = &commentMeta
	} else {
		f.Meta = append(f.Meta, &commentMeta)
	}

	if partial.Artwork != nil || overwrite {
		f.Meta = withoutPictures(f.Meta)
	}
	if partial.Artwork != nil {
		pictureBlock, err := pictureBlock(partial.Artwork)
		if err != nil {
			return err
		}
		f.Meta = append(f.Meta, pictureBlock)
	}

	if err := writeFileAtomic(path, f.Marshal()); err != nil {
		return fmt.Errorf("failed to save FLAC file: %w", err)
	}
	return nil
}

// setComment replaces every value of field with value.
func setComment(cmts *flacvorbis.MetaDataBlockVorbisComment, field, value string) error {
	prefix := strings.ToUpper(field) + "="
	kept := cmts.Comments[:0]
	for _, c := range cmts.Comments {
		if len(c) >= len(prefix) && strings.EqualFold(c[:len(prefix)], prefix) {
			continue
		}
		kept = append(kept, c)
	}
	cmts.Comments = kept
	if err := cmts.Add(field, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", field, err)
	}
	return nil
}

func withoutPictures(blocks []*goflac.MetaDataBlock) []*goflac.MetaDataBlock {
	kept := make([]*goflac.MetaDataBlock, 0, len(blocks))
	for _, block := range blocks {
		if block.Type != goflac.Picture {
			kept = append(kept, block)
		}
	}
	return kept
}

func pictureBlock(art *music.Artwork) (*goflac.MetaDataBlock, error) {
	pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", art.Data, art.MimeType)
	if err != nil {
		// Dimensions are informational; keep the picture when they cannot be decoded.
		pic = &flacpicture.MetadataBlockPicture{
			PictureType: flacpicture.PictureTypeFrontCover,
			MIME:        art.MimeType,
			Description: "Cover",
			ImageData:   art.Data,
		}
	}
	marshaled := pic.Marshal()
	return &goflac.MetaDataBlock{Type: goflac.Picture, Data: marshaled.Data}, nil
}
