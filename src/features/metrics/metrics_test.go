package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestScrape_ExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.ObserveIntent("delivered")
	m.ObserveOperation("save_metadata", errors.New("boom"), 10*time.Millisecond)
	m.ObserveArtworkFetch("ok", time.Second)

	app := fiber.New()
	RegisterRoutes(app, m)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		`lxbridge_intents_total{outcome="delivered"} 1`,
		`lxbridge_metadata_operations_total{op="save_metadata",result="error"} 1`,
		`lxbridge_artwork_fetch_duration_seconds_count{result="ok"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in scrape output", want)
		}
	}
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.ObserveIntent("dropped")

	families, err := b.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == "lxbridge_intents_total" && len(f.GetMetric()) > 0 {
			t.Error("observations leaked across registries")
		}
	}
}
