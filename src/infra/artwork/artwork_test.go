package artwork

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/contre95/lxbridge/src/features/config"
	"github.com/contre95/lxbridge/src/music"
)

func testManager(mutate func(*config.Artwork)) *config.Manager {
	cfg := config.Default().Get()
	cfg.Artwork.Backoff = time.Millisecond
	cfg.Artwork.CacheSize = 0
	if mutate != nil {
		mutate(&cfg.Artwork)
	}
	return config.NewManager(cfg)
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{G: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type recordingObserver struct {
	results []string
}

func (o *recordingObserver) ObserveArtworkFetch(result string, _ time.Duration) {
	o.results = append(o.results, result)
}

func TestFetchAndNormalize_ConvertsToPNG(t *testing.T) {
	body := jpegBytes(t, 8, 6)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(body)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	s := NewService(testManager(nil), obs)

	data, err := s.FetchAndNormalize(context.Background(), srv.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not an image: %v", err)
	}
	if format != "png" {
		t.Errorf("expected png, got %s", format)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("expected full size 8x6, got %v", img.Bounds())
	}
	if len(obs.results) != 1 || obs.results[0] != "ok" {
		t.Errorf("unexpected observations: %v", obs.results)
	}
}

func TestFetchAndNormalize_NotFoundFailsFast(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewService(testManager(func(a *config.Artwork) { a.MaxAttempts = 3 }), nil)

	_, err := s.FetchAndNormalize(context.Background(), srv.URL+"/missing.png")
	if music.KindOf(err) != music.KindArtworkFetch {
		t.Fatalf("expected %s, got %v", music.KindArtworkFetch, err)
	}
	if hits != 1 {
		t.Errorf("expected a single request for a 404, got %d", hits)
	}
}

func TestFetchAndNormalize_RetriesServerErrors(t *testing.T) {
	var hits int32
	body := jpegBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	s := NewService(testManager(func(a *config.Artwork) { a.MaxAttempts = 3 }), nil)

	if _, err := s.FetchAndNormalize(context.Background(), srv.URL); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if hits != 3 {
		t.Errorf("expected 3 requests, got %d", hits)
	}
}

func TestFetchAndNormalize_UndecodableFailsFast(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	s := NewService(testManager(func(a *config.Artwork) { a.MaxAttempts = 3 }), nil)

	_, err := s.FetchAndNormalize(context.Background(), srv.URL)
	if music.KindOf(err) != music.KindArtworkFetch {
		t.Fatalf("expected %s, got %v", music.KindArtworkFetch, err)
	}
	if hits != 1 {
		t.Errorf("malformed data must not be retried, got %d requests", hits)
	}
}

func TestFetchAndNormalize_RespectsSizeLimit(t *testing.T) {
	body := jpegBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	s := NewService(testManager(func(a *config.Artwork) { a.MaxBytes = 16 }), nil)

	if _, err := s.FetchAndNormalize(context.Background(), srv.URL); music.KindOf(err) != music.KindArtworkFetch {
		t.Fatalf("expected %s, got %v", music.KindArtworkFetch, err)
	}
}

func TestFetchAndNormalize_TimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := NewService(testManager(func(a *config.Artwork) {
		a.Timeout = 20 * time.Millisecond
		a.MaxAttempts = 1
	}), nil)

	if _, err := s.FetchAndNormalize(context.Background(), srv.URL); music.KindOf(err) != music.KindArtworkFetch {
		t.Fatalf("expected %s, got %v", music.KindArtworkFetch, err)
	}
}

func TestFetchAndNormalize_UsesCache(t *testing.T) {
	var hits int32
	body := jpegBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(body)
	}))
	defer srv.Close()

	s := NewService(testManager(func(a *config.Artwork) { a.CacheSize = 4 }), nil)

	first, err := s.FetchAndNormalize(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.FetchAndNormalize(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("expected the second call to be served from cache, got %d requests", hits)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached artwork differs")
	}
}

func TestNormalize_DownsizesToMaxSize(t *testing.T) {
	s := NewService(testManager(func(a *config.Artwork) { a.MaxSize = 10 }), nil)

	data, err := s.Normalize(jpegBytes(t, 40, 20))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 5 {
		t.Errorf("expected 10x5, got %v", img.Bounds())
	}
}

func TestFetchAndNormalize_EmptyURL(t *testing.T) {
	s := NewService(testManager(nil), nil)

	if _, err := s.FetchAndNormalize(context.Background(), ""); music.KindOf(err) != music.KindArtworkFetch {
		t.Fatalf("expected %s, got %v", music.KindArtworkFetch, err)
	}
}
