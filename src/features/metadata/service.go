package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/contre95/lxbridge/src/features/tasks"
	"github.com/contre95/lxbridge/src/music"
	"github.com/gosimple/unidecode"
)

// Codec is the tag codec the service reads and writes through.
type Codec interface {
	music.TagCodec
	ReadQuality(ctx context.Context, path string) (string, error)
	WriteQuality(ctx context.Context, path, quality string) error
	ReadPicture(ctx context.Context, path string) (*music.Artwork, error)
}

// Observer records the outcome of each operation.
type Observer interface {
	ObserveOperation(op string, err error, d time.Duration)
}

// Service is the metadata call surface. Every operation runs on the task
// runner and settles its Pending exactly once.
type Service struct {
	codec    Codec
	fetcher  music.ArtworkFetcher
	pictures music.PictureReader
	index    music.ContentIndex
	runner   *tasks.Runner
	observer Observer
}

// NewService creates a new metadata service.
func NewService(codec Codec, fetcher music.ArtworkFetcher, pictures music.PictureReader, index music.ContentIndex, runner *tasks.Runner, observer Observer) *Service {
	return &Service{
		codec:    codec,
		fetcher:  fetcher,
		pictures: pictures,
		index:    index,
		runner:   runner,
		observer: observer,
	}
}

func run[T any](ctx context.Context, s *Service, op, path string, fn func(ctx context.Context) (T, error)) *tasks.Pending[T] {
	if strings.TrimSpace(path) == "" {
		return tasks.Rejected[T](music.NewError(music.KindInvalid, op, path, errors.New("path is required")))
	}
	return tasks.Go(ctx, s.runner, op, func(ctx context.Context) (T, error) {
		start := time.Now()
		v, err := fn(ctx)
		if s.observer != nil {
			s.observer.ObserveOperation(op, err, time.Since(start))
		}
		if err != nil {
			slog.Error("Metadata operation failed", "op", op, "path", path, "kind", music.KindOf(err), "error", err)
		}
		return v, err
	})
}

// ReadMetadata returns the fields present in path's tag.
func (s *Service) ReadMetadata(ctx context.Context, path string) *tasks.Pending[Fields] {
	return run(ctx, s, "read_metadata", path, func(ctx context.Context) (Fields, error) {
		local, err := s.localPath(ctx, path, music.KindTagRead)
		if err != nil {
			return Fields{}, err
		}
		meta, err := s.codec.Read(ctx, local)
		if err != nil {
			return Fields{}, err
		}
		return fieldsOf(meta), nil
	})
}

// SaveMetadata writes the fields set in f. Artwork given as a URL or data URI
// is normalized to PNG first; if that fails the file is left untouched.
// With overwrite, fields not in f are cleared.
func (s *Service) SaveMetadata(ctx context.Context, path string, f Fields, overwrite bool) *tasks.Pending[struct{}] {
	return run(ctx, s, "save_metadata", path, func(ctx context.Context) (struct{}, error) {
		local, err := s.localPath(ctx, path, music.KindTagWrite)
		if err != nil {
			return struct{}{}, err
		}
		partial := &music.TrackMetadata{Title: f.Name, Artist: f.Singer, Quality: f.Quality}
		if f.PicURL != nil && strings.TrimSpace(*f.PicURL) != "" {
			art, err := s.artworkFrom(ctx, *f.PicURL)
			if err != nil {
				return struct{}{}, err
			}
			partial.Artwork = art
		}
		return struct{}{}, s.codec.Write(ctx, local, partial, overwrite)
	})
}

// ReadQuality returns the quality field, "" when absent.
func (s *Service) ReadQuality(ctx context.Context, path string) *tasks.Pending[string] {
	return run(ctx, s, "read_quality", path, func(ctx context.Context) (string, error) {
		local, err := s.localPath(ctx, path, music.KindTagRead)
		if err != nil {
			return "", err
		}
		return s.codec.ReadQuality(ctx, local)
	})
}

// WriteQuality sets the quality field and keeps the rest of the tag.
func (s *Service) WriteQuality(ctx context.Context, path, quality string) *tasks.Pending[struct{}] {
	return run(ctx, s, "write_quality", path, func(ctx context.Context) (struct{}, error) {
		local, err := s.localPath(ctx, path, music.KindTagWrite)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.codec.WriteQuality(ctx, local, quality)
	})
}

// ReadPic extracts the embedded picture of path into outputDir and returns
// the written file, or "" when the file has no picture.
func (s *Service) ReadPic(ctx context.Context, path, outputDir string) *tasks.Pending[string] {
	return run(ctx, s, "read_pic", path, func(ctx context.Context) (string, error) {
		if strings.TrimSpace(outputDir) == "" {
			return "", music.NewError(music.KindInvalid, "read picture", path, errors.New("output directory is required"))
		}
		extractor := SelectExtractor(path)
		art, err := s.extract(ctx, extractor, path)
		if err != nil {
			return "", err
		}
		if art == nil || len(art.Data) == 0 {
			slog.Debug("No embedded picture", "path", path, "extractor", extractor)
			return "", nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", music.NewError(music.KindTagRead, "read picture", path, err)
		}
		target := filepath.Join(outputDir, pictureFileName(path, art.MimeType))
		if err := os.WriteFile(target, art.Data, 0644); err != nil {
			return "", music.NewError(music.KindTagRead, "read picture", path, err)
		}
		slog.Info("Picture extracted", "path", path, "extractor", extractor, "output", target)
		return target, nil
	})
}

// ReadBase64Pic returns the embedded picture as a data URI, "" when there is none.
func (s *Service) ReadBase64Pic(ctx context.Context, path string) *tasks.Pending[string] {
	return run(ctx, s, "read_base64_pic", path, func(ctx context.Context) (string, error) {
		local, err := s.localPath(ctx, path, music.KindTagRead)
		if err != nil {
			return "", err
		}
		art, err := s.codec.ReadPicture(ctx, local)
		if err != nil {
			return "", err
		}
		return art.DataURI(), nil
	})
}

// WritePic embeds the image at imagePath as the cover of path.
func (s *Service) WritePic(ctx context.Context, path, imagePath string) *tasks.Pending[struct{}] {
	return run(ctx, s, "write_pic", path, func(ctx context.Context) (struct{}, error) {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return struct{}{}, music.NewError(music.KindInvalid, "write picture", imagePath, err)
		}
		png, err := s.fetcher.Normalize(data)
		if err != nil {
			return struct{}{}, music.NewError(music.KindArtworkFetch, "write picture", imagePath, err)
		}
		local, err := s.localPath(ctx, path, music.KindTagWrite)
		if err != nil {
			return struct{}{}, err
		}
		partial := &music.TrackMetadata{Artwork: &music.Artwork{MimeType: "image/png", Data: png}}
		return struct{}{}, s.codec.Write(ctx, local, partial, false)
	})
}

func (s *Service) extract(ctx context.Context, extractor Extractor, path string) (*music.Artwork, error) {
	local, err := s.localPath(ctx, path, music.KindTagRead)
	if err != nil {
		return nil, err
	}
	if extractor == ExtractorIndexed && s.pictures != nil {
		return s.pictures.ReadPicture(ctx, local)
	}
	return s.codec.ReadPicture(ctx, local)
}

// artworkFrom turns a picUrl into PNG artwork.
func (s *Service) artworkFrom(ctx context.Context, picURL string) (*music.Artwork, error) {
	var (
		png []byte
		err error
	)
	switch {
	case music.IsDataURI(picURL):
		art, perr := music.ParseDataURI(picURL)
		if perr != nil {
			return nil, music.NewError(music.KindArtworkFetch, "decode artwork", "", perr)
		}
		png, err = s.fetcher.Normalize(art.Data)
		if err != nil {
			err = music.NewError(music.KindArtworkFetch, "decode artwork", "", err)
		}
	case strings.HasPrefix(picURL, "http://"), strings.HasPrefix(picURL, "https://"):
		png, err = s.fetcher.FetchAndNormalize(ctx, picURL)
	default:
		return nil, music.NewError(music.KindInvalid, "fetch artwork", picURL, errors.New("picUrl must be an http(s) URL or a data URI"))
	}
	if err != nil {
		return nil, err
	}
	return &music.Artwork{MimeType: "image/png", Data: png}, nil
}

// localPath resolves content handles through the index. Plain paths pass through.
func (s *Service) localPath(ctx context.Context, path string, kind music.Kind) (string, error) {
	if !isContentURI(path) {
		return path, nil
	}
	if s.index == nil {
		return "", music.NewError(kind, "resolve", path, errors.New("no content index configured"))
	}
	local, err := s.index.Lookup(ctx, path)
	if err != nil {
		return "", music.NewError(kind, "resolve", path, err)
	}
	return local, nil
}

// pictureFileName derives an ASCII file name for the picture of path.
func pictureFileName(path, mime string) string {
	base := filepath.Base(contentPath(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = unidecode.Unidecode(stem)

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" || name == "." || name == ".." {
		name = fmt.Sprintf("cover-%d", time.Now().UnixNano())
	}
	return name + music.PictureExtension(mime)
}
