package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordAccessRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAccessRequest("requested")
	c.RecordAccessRequest("requested")
	c.RecordAccessRequest("approved")

	got := testutil.ToFloat64(c.accessRequests.WithLabelValues("requested"))
	if got != 2 {
		t.Errorf("expected 2 requested, got %f", got)
	}
	got = testutil.ToFloat64(c.accessRequests.WithLabelValues("approved"))
	if got != 1 {
		t.Errorf("expected 1 approved, got %f", got)
	}
}

func TestCollector_RecordDonation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDonation()
	c.RecordDonation()

	if got := testutil.ToFloat64(c.donations); got != 2 {
		t.Errorf("expected 2 donations, got %f", got)
	}
}

func TestCollector_RecordBloodRequestPosted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBloodRequestPosted("O+")
	c.RecordBloodRequestPosted("O+")
	c.RecordBloodRequestPosted("AB-")

	if got := testutil.ToFloat64(c.requestsPosted.WithLabelValues("O+")); got != 2 {
		t.Errorf("expected 2 O+ posts, got %f", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordDirectorySearch()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	buf := make([]byte, 64*1024)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])
	if !strings.Contains(body, "bloodlink_directory_searches_total 1") {
		t.Errorf("expected directory searches counter in scrape output, got:\n%s", body)
	}
}

func TestHTTPMetrics_RecordsRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/donors", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetPath("/donors")

	mw := HTTPMetrics(c)
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/donors", "200"))
	if got != 1 {
		t.Errorf("expected 1 request recorded, got %f", got)
	}
}

func TestHTTPMetrics_RecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/donors/missing", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetPath("/donors/:id")

	mw := HTTPMetrics(c)
	h := mw(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})
	if err := h(ctx); err == nil {
		t.Fatal("expected error to propagate")
	}

	got := testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/donors/:id", "404"))
	if got != 1 {
		t.Errorf("expected 1 not-found recorded, got %f", got)
	}
}

func TestCollector_RecordHTTPRequestLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest("GET", "/requests", 200, 25*time.Millisecond)

	count := testutil.CollectAndCount(c.httpDuration)
	if count != 1 {
		t.Errorf("expected 1 histogram series, got %d", count)
	}
}
