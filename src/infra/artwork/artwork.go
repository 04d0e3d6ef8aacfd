package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/contre95/lxbridge/src/features/config"
	"github.com/contre95/lxbridge/src/music"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nfnt/resize"

	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
)

// Observer receives the outcome of every fetch.
type Observer interface {
	ObserveArtworkFetch(result string, duration time.Duration)
}

// Service downloads cover art and normalizes it to PNG for embedding.
type Service struct {
	client   *http.Client
	config   *config.Manager
	cache    *lru.Cache[string, []byte]
	observer Observer
}

// NewService creates a new artwork service
func NewService(cfg *config.Manager, observer Observer) *Service {
	s := &Service{
		client:   &http.Client{Timeout: cfg.Get().Artwork.Timeout},
		config:   cfg,
		observer: observer,
	}
	if size := cfg.Get().Artwork.CacheSize; size > 0 {
		cache, err := lru.New[string, []byte](size)
		if err != nil {
			slog.Warn("Artwork cache disabled", "size", size, "error", err)
		} else {
			s.cache = cache
		}
	}
	return s
}

// statusError is a non-200 response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("artwork download failed with status %d", e.code)
}

// FetchAndNormalize downloads url, decodes it as an image and re-encodes it as
// PNG. Transport errors and 5xx responses are retried up to the configured
// attempts; other failures are returned at once.
func (s *Service) FetchAndNormalize(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, music.NewError(music.KindArtworkFetch, "fetch artwork", url, errors.New("empty artwork URL"))
	}
	if s.cache != nil {
		if data, ok := s.cache.Get(url); ok {
			slog.Debug("Using cached artwork", "url", url)
			s.observe("cached", 0)
			return data, nil
		}
	}

	start := time.Now()
	raw, err := s.download(ctx, url)
	if err != nil {
		s.observe("failed", time.Since(start))
		return nil, music.NewError(music.KindArtworkFetch, "fetch artwork", url, err)
	}

	data, err := s.Normalize(raw)
	if err != nil {
		s.observe("undecodable", time.Since(start))
		return nil, music.NewError(music.KindArtworkFetch, "fetch artwork", url, err)
	}

	s.observe("ok", time.Since(start))
	if s.cache != nil {
		s.cache.Add(url, data)
	}
	slog.Debug("Artwork fetched", "url", url, "downloaded", len(raw), "png", len(data))
	return data, nil
}

func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	cfg := s.config.Get().Artwork
	attempts := max(cfg.MaxAttempts, 1)
	backoff := cfg.Backoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := s.downloadOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}
		slog.Warn("Artwork download failed, retrying", "url", url, "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (s *Service) downloadOnce(ctx context.Context, url string) ([]byte, error) {
	cfg := s.config.Get().Artwork

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork body: %w", err)
	}
	if int64(len(data)) > cfg.MaxBytes {
		return nil, errTooLarge
	}
	return data, nil
}

var errTooLarge = errors.New("artwork exceeds the configured size limit")

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, errTooLarge) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return true
}

// Normalize decodes data as an image, downsizes it to the configured maximum
// edge if one is set, and encodes it as PNG.
func (s *Service) Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if maxSize := s.config.Get().Artwork.MaxSize; maxSize > 0 {
		img = fitWithin(img, maxSize)
	}

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin resizes img so neither edge exceeds maxSize, keeping the aspect ratio.
func fitWithin(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxSize && height <= maxSize {
		return img
	}
	if width > height {
		height = (height * maxSize) / width
		width = maxSize
	} else {
		width = (width * maxSize) / height
		height = maxSize
	}
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}

func (s *Service) observe(result string, d time.Duration) {
	if s.observer != nil {
		s.observer.ObserveArtworkFetch(result, d)
	}
}
