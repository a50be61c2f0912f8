package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"

	"network-quality/internal/config"
	"network-quality/internal/database"
	"network-quality/internal/models"
)

type staticReader []models.Record

func (s staticReader) ReadAll() ([]models.Record, error) { return s, nil }

func (s staticReader) ReadTail(n int) ([]models.Record, error) {
	if n < len(s) {
		return s[len(s)-n:], nil
	}
	return s, nil
}

var now = time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local)

func fixture() staticReader {
	var out staticReader
	for i := 0; i < 12; i++ {
		ts := now.Add(-time.Duration(12-i) * time.Hour)
		if i == 5 {
			out = append(out, models.FailedRecord(ts, models.StatusTimeout))
			continue
		}
		out = append(out, models.Record{
			Timestamp:      ts,
			PingMs:         20 + float64(i),
			DownloadMbps:   100,
			UploadMbps:     40,
			ServerName:     "Bangkok",
			ServerLocation: "TH, Bangkok",
			Status:         models.StatusSuccess,
		})
	}
	return out
}

func newTestServer(t *testing.T, records staticReader, cfg config.WebConfig) *Server {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("database.New(): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.InitSchema(); err != nil {
		t.Fatalf("InitSchema(): %v", err)
	}

	static := fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html>dashboard</html>")},
	}
	logger, _ := test.NewNullLogger()

	s := New(cfg, records, db, static, logger)
	s.now = func() time.Time { return now }
	s.refreshSnapshot()
	return s
}

func defaultWeb() config.WebConfig {
	return config.DefaultConfig().Web
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRecordsEndpoint(t *testing.T) {
	h := newTestServer(t, fixture(), defaultWeb()).Handler()

	tests := []struct {
		target string
		want   int
	}{
		{"/api/records", 12},
		{"/api/records?limit=3", 3},
		{"/api/records?limit=100", 12},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-cache") {
				t.Errorf("Cache-Control = %q", cc)
			}
			var got []models.Record
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestBadParameters(t *testing.T) {
	h := newTestServer(t, fixture(), defaultWeb()).Handler()

	for _, target := range []string{
		"/api/records?limit=abc",
		"/api/records?limit=-1",
		"/api/summary?days=x",
		"/api/hourly?days=1.5",
		"/charts/ping.png?days=-2",
	} {
		if rec := get(t, h, target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestSummaryEndpoint(t *testing.T) {
	h := newTestServer(t, fixture(), defaultWeb()).Handler()

	rec := get(t, h, "/api/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got models.Summary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.TotalRecords != 12 || got.SuccessfulTests != 11 {
		t.Errorf("summary counts = %d/%d, want 12/11", got.TotalRecords, got.SuccessfulTests)
	}
	if got.Download.Mean != 100 {
		t.Errorf("download mean = %v, want 100", got.Download.Mean)
	}
}

func TestStatusEndpoint(t *testing.T) {
	h := newTestServer(t, fixture(), defaultWeb()).Handler()

	rec := get(t, h, "/api/status")
	var got []models.StatusCount
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := map[models.Status]int{models.StatusSuccess: 11, models.StatusTimeout: 1}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for _, c := range got {
		if want[c.Status] != c.Count {
			t.Errorf("%s = %d, want %d", c.Status, c.Count, want[c.Status])
		}
	}
}

func TestHourlyEndpoint(t *testing.T) {
	h := newTestServer(t, fixture(), defaultWeb()).Handler()

	// days=0 covers the whole index regardless of the wall clock
	rec := get(t, h, "/api/hourly?days=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []models.HourlyPattern
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 12 {
		t.Errorf("got %d hours, want 12", len(got))
	}
}

func TestChartEndpoint(t *testing.T) {
	h := newTestServer(t, fixture(), defaultWeb()).Handler()

	for _, name := range []string{"ping", "download", "upload", "status"} {
		rec := get(t, h, "/charts/"+name+".png")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, body %s", name, rec.Code, rec.Body.String())
			continue
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s: Content-Type = %q", name, ct)
		}
		if _, err := png.Decode(bytes.NewReader(rec.Body.Bytes())); err != nil {
			t.Errorf("%s: not a PNG: %v", name, err)
		}
	}

	for _, target := range []string{"/charts/jitter.png", "/charts/ping"} {
		if rec := get(t, h, target); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, rec.Code)
		}
	}
}

func TestChartWithoutDataIsNotFound(t *testing.T) {
	h := newTestServer(t, nil, defaultWeb()).Handler()

	if rec := get(t, h, "/charts/ping.png"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestStaticFiles(t *testing.T) {
	h := newTestServer(t, fixture(), defaultWeb()).Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "dashboard") {
		t.Errorf("index: status %d body %q", rec.Code, rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	cfg := defaultWeb()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	h := newTestServer(t, fixture(), cfg).Handler()

	for i := 0; i < 2; i++ {
		if rec := get(t, h, "/api/status"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if rec := get(t, h, "/api/status"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestWebsocketSendsSnapshot(t *testing.T) {
	s := newTestServer(t, fixture(), defaultWeb())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if snap.TotalRecords != 12 {
		t.Errorf("total = %d, want 12", snap.TotalRecords)
	}
	if snap.Summary == nil || snap.Summary.SuccessfulTests != 11 {
		t.Errorf("summary = %+v", snap.Summary)
	}
	if len(snap.Recent) != 12 {
		t.Errorf("recent = %d records", len(snap.Recent))
	}
}

func TestWebsocketClosedOnShutdown(t *testing.T) {
	s := newTestServer(t, fixture(), defaultWeb())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewUnstartedServer(s.Handler())
	srv.Config.BaseContext = func(net.Listener) context.Context { return ctx }
	srv.Start()
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	cancel()
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage() error = %v, want a going-away close", err)
	}
}

func TestWebsocketRejectsForeignOrigin(t *testing.T) {
	s := newTestServer(t, fixture(), defaultWeb())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("dial from a foreign origin should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %+v", resp)
	}
}
