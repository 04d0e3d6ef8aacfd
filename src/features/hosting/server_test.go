package hosting

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/contre95/lxbridge/src/features/bridge"
	"github.com/contre95/lxbridge/src/features/config"
	"github.com/contre95/lxbridge/src/features/metadata"
	"github.com/contre95/lxbridge/src/features/metrics"
	"github.com/contre95/lxbridge/src/features/opening"
	"github.com/contre95/lxbridge/src/features/tasks"
	"github.com/contre95/lxbridge/src/infra/artwork"
	"github.com/contre95/lxbridge/src/infra/mediastore"
	"github.com/contre95/lxbridge/src/infra/tag"
)

func newTestServer(t *testing.T) (*Server, *bridge.Emitter, *mediastore.SqliteStore) {
	t.Helper()
	cfg := config.Default()
	m := metrics.NewMetrics()

	store, err := mediastore.NewSqliteStore(filepath.Join(t.TempDir(), "media.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	emitter := bridge.NewEmitter(m)
	router := opening.NewRouter(opening.NewAudioFilter(), opening.NewResolver(store), emitter, cfg, m)
	service := metadata.NewService(tag.NewCodec(), artwork.NewService(cfg, m), tag.NewFallbackReader(), store, tasks.NewRunner(2), m)
	return NewServer(cfg, router, emitter, service, m), emitter, store
}

func TestServer_IntentToEvent(t *testing.T) {
	server, emitter, store := newTestServer(t)

	file := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(file, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	handle, err := store.Index(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	body := `{"uri":"` + handle + `","action":"android.intent.action.VIEW","mimeType":"audio/mpeg"}`
	req := httptest.NewRequest("POST", "/intents", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := server.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 202 {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}

	rec := &bridge.Recorder{}
	emitter.Attach(rec)
	events := rec.Events()
	if len(events) != 1 || events[0].Payload["path"] != file {
		t.Errorf("expected onPathReceived for %s, got %+v", file, events)
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := server.App().Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = server.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		t.Errorf("unexpected metrics response %d: %s", resp.StatusCode, data)
	}
}

func TestServer_UnknownRouteIsStructured(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := server.App().Test(httptest.NewRequest("GET", "/nope", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["code"] == "" || body["message"] == "" {
		t.Errorf("expected structured rejection, got %v", body)
	}
}

func TestServer_ShutdownWithAttachedStream(t *testing.T) {
	server, emitter, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go server.App().Listener(ln)

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	fmt.Fprint(conn, "GET /events HTTP/1.1\r\nHost: lxbridge\r\n\r\n")

	deadline := time.Now().Add(3 * time.Second)
	for !emitter.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("event stream never attached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	done := make(chan error, 1)
	go func() { done <- server.Shutdown() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown blocked by the event stream")
	}
}
