package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"workhours/ledger"
	"workhours/report"
	"workhours/storage"
	"workhours/worklog"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
}

func newTestServer(t *testing.T, seed ...worklog.Interval) (*httptest.Server, *ledger.Ledger) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.New(storage.NewMemoryStore(), ledger.WithLogger(logger))
	ctx := context.Background()
	if _, err := l.Load(ctx); err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(seed) > 0 {
		if _, err := l.AddAll(ctx, seed); err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}

	server := NewServer(l, WithLogger(logger), WithClock(fixedNow))
	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
		server.Close()
	})
	return ts, l
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.Local)
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestServer_IndexRedirectsToToday(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request index: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/day/2026-03-02" {
		t.Fatalf("unexpected redirect target %q", got)
	}
}

func TestServer_MonthPageRendersMonthDays(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, worklog.Interval{Start: at(1, 9, 0), End: at(1, 10, 0)})

	resp, err := http.Get(ts.URL + "/month/2026-03")
	if err != nil {
		t.Fatalf("request month page: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	text := readBody(t, resp)
	if !strings.Contains(text, "2026-03-01") {
		t.Fatalf("month page missing first day: %s", text)
	}
	if !strings.Contains(text, "2026-03-31") {
		t.Fatalf("month page missing last day: %s", text)
	}
}

func TestServer_DayPageShowsClassificationBadges(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t,
		worklog.Interval{Start: at(1, 9, 0), End: at(1, 10, 0)},
		worklog.Interval{Start: at(1, 9, 0), End: at(1, 10, 0)},
		worklog.Interval{Start: at(1, 11, 0), End: at(1, 12, 0)},
		worklog.Interval{Start: at(1, 11, 30), End: at(1, 12, 30)},
	)

	resp, err := http.Get(ts.URL + "/day/2026-03-01")
	if err != nil {
		t.Fatalf("request day page: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	text := readBody(t, resp)
	for _, label := range []string{"badge-duplicate", "badge-overlap", "04:00"} {
		if !strings.Contains(text, label) {
			t.Fatalf("expected %q in response body", label)
		}
	}
}

func TestServer_InvalidDateAndMonth(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	for _, path := range []string{"/day/2026-13-01", "/api/day/yesterday", "/month/2026-3x", "/api/month/bad"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}
}

func TestServer_CreateListUpdateDelete(t *testing.T) {
	t.Parallel()

	ts, l := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/intervals", `{"date":"2026-03-02","start":"09:00","end":"12:30"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var created intervalResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	resp.Body.Close()
	if created.ID == "" || created.Start != "2026-03-02T09:00:00" || created.End != "2026-03-02T12:30:00" {
		t.Fatalf("unexpected created interval: %+v", created)
	}

	resp, err := http.Get(ts.URL + "/api/day/2026-03-02")
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	var day dayPayload
	if err := json.NewDecoder(resp.Body).Decode(&day); err != nil {
		t.Fatalf("decode day: %v", err)
	}
	resp.Body.Close()
	if len(day.Entries) != 1 || day.Total != "03:30" || day.TotalMinutes != 210 {
		t.Fatalf("unexpected day payload: %+v", day)
	}

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/intervals/"+created.ID, `{"start":"08:00","end":"12:30"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	resp.Body.Close()
	updated, found := l.Find(created.ID)
	if !found || !updated.Start.Equal(at(2, 8, 0)) {
		t.Fatalf("expected edit to keep day and id, got %+v", updated)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/intervals/"+created.ID, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if len(l.Snapshot()) != 0 {
		t.Fatalf("expected empty ledger after delete")
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/intervals/"+created.ID, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for second delete, got %d", resp.StatusCode)
	}
}

func TestServer_CreateRejectsInvalidBodies(t *testing.T) {
	t.Parallel()

	ts, l := newTestServer(t)
	bodies := []string{
		`{"date":"2026-03-02","start":"17:00","end":"09:00"}`,
		`{"date":"2026-03-02","start":"9am","end":"17:00"}`,
		`{"date":"03/02/2026","start":"09:00","end":"17:00"}`,
		`{"start":"09:00"}`,
		`{"start":"09:00","end":"10:00","project":"x"}`,
	}
	for _, body := range bodies {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/intervals", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.StatusCode)
		}
	}
	if len(l.Snapshot()) != 0 {
		t.Fatalf("expected no intervals after rejected bodies")
	}
}

func TestServer_CreateDefaultsToToday(t *testing.T) {
	t.Parallel()

	ts, l := newTestServer(t)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/intervals", `{"start":"09:00","end":"09:00"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for zero-length interval, got %d", resp.StatusCode)
	}
	snapshot := l.Snapshot()
	if len(snapshot) != 1 || !snapshot[0].Start.Equal(at(2, 9, 0)) {
		t.Fatalf("expected interval on clock day, got %+v", snapshot)
	}
}

func TestServer_RemoveStructuralMatches(t *testing.T) {
	t.Parallel()

	ts, l := newTestServer(t,
		worklog.Interval{Start: at(1, 9, 0), End: at(1, 10, 0)},
		worklog.Interval{Start: at(1, 9, 0), End: at(1, 10, 0)},
		worklog.Interval{Start: at(1, 11, 0), End: at(1, 12, 0)},
	)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/intervals/remove", `{"start":"2026-03-01T09:00:00","end":"2026-03-01T10:00:00"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var removed removeResponse
	if err := json.NewDecoder(resp.Body).Decode(&removed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if removed.Removed != 2 || len(l.Snapshot()) != 1 {
		t.Fatalf("expected both duplicates removed, got %+v and %d left", removed, len(l.Snapshot()))
	}
}

func TestServer_MonthCacheInvalidatedOnChange(t *testing.T) {
	t.Parallel()

	ts, l := newTestServer(t, worklog.Interval{Start: at(1, 9, 0), End: at(1, 10, 0)})

	fetch := func() monthPayload {
		resp, err := http.Get(ts.URL + "/api/month/2026-03")
		if err != nil {
			t.Fatalf("get month: %v", err)
		}
		defer resp.Body.Close()
		var payload monthPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode month: %v", err)
		}
		return payload
	}

	if got := fetch(); got.TotalMinutes != 60 {
		t.Fatalf("expected 60 minutes, got %d", got.TotalMinutes)
	}
	if _, err := l.Add(context.Background(), worklog.Interval{Start: at(5, 8, 0), End: at(5, 10, 0)}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got := fetch()
	if got.TotalMinutes != 180 || len(got.Days) != 2 {
		t.Fatalf("expected refreshed month report, got %+v", got)
	}
}

func TestServer_MonthCacheNotPoisonedByConcurrentAdd(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := ledger.New(storage.NewMemoryStore(), ledger.WithLogger(logger))
	ctx := context.Background()
	if _, err := l.Load(ctx); err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	seed := make([]worklog.Interval, 0, 3000)
	for i := 0; i < 3000; i++ {
		start := at(1+i%28, 8, 0).Add(time.Duration(i) * time.Second)
		seed = append(seed, worklog.Interval{Start: start, End: start.Add(time.Minute)})
	}
	if _, err := l.AddAll(ctx, seed); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	server := NewServer(l, WithLogger(logger), WithClock(fixedNow))
	defer server.Close()
	march := report.YearMonth{Year: 2026, Month: time.March}

	for round := 0; round < 40; round++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := server.monthReport(march); err != nil {
				t.Errorf("month report: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			start := at(29, 8, 0).Add(time.Duration(round) * time.Minute)
			if _, err := l.Add(ctx, worklog.Interval{Start: start, End: start.Add(time.Hour)}); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
		wg.Wait()

		cached, err := server.monthReport(march)
		if err != nil {
			t.Fatalf("month report: %v", err)
		}
		fresh, err := report.BuildMonthReport(l.Snapshot(), march)
		if err != nil {
			t.Fatalf("build month report: %v", err)
		}
		if cached.TotalMinutes != fresh.TotalMinutes {
			t.Fatalf("round %d: cached total %d, snapshot total %d", round, cached.TotalMinutes, fresh.TotalMinutes)
		}
	}
}

func TestServer_MalformedClockIsValidationError(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/intervals", `{"date":"2026-03-02","start":"25:00","end":"17:00"}`)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "validation failed: start") {
		t.Fatalf("expected start validation error, got %q", body)
	}
}

func TestServer_MonthsListed(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t,
		worklog.Interval{Start: at(1, 9, 0), End: at(1, 10, 0)},
		worklog.Interval{
			Start: time.Date(2026, 1, 4, 9, 0, 0, 0, time.Local),
			End:   time.Date(2026, 1, 4, 10, 0, 0, 0, time.Local),
		},
	)

	resp, err := http.Get(ts.URL + "/api/months")
	if err != nil {
		t.Fatalf("get months: %v", err)
	}
	defer resp.Body.Close()
	var months []string
	if err := json.NewDecoder(resp.Body).Decode(&months); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(months) != 2 || months[0] != "2026-01" || months[1] != "2026-03" {
		t.Fatalf("unexpected months: %v", months)
	}
}

func TestServer_QuarantinedLedgerRejectsMutations(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, ledger.DefaultKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l := ledger.New(store, ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if _, err := l.Load(ctx); err == nil {
		t.Fatalf("expected corruption error")
	}

	server := NewServer(l, WithClock(fixedNow))
	defer server.Close()
	ts := httptest.NewServer(server)
	defer ts.Close()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/intervals", `{"start":"09:00","end":"10:00"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
