// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"workhours/internal/logging"
	"workhours/internal/timeutil"
	"workhours/ledger"
	"workhours/report"
	"workhours/worklog"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	ledger   *ledger.Ledger
	logger   *slog.Logger
	validate *validator.Validate
	mux      *http.ServeMux
	now      func() time.Time

	unsubscribe func()

	mu sync.RWMutex
	// generation counts committed changes; reports built from an older
	// snapshot are not cached.
	generation uint64
	monthCache map[report.YearMonth]report.MonthReport
}

// intervalRequest carries clock times on a calendar day, as typed on the entry screen.
type intervalRequest struct {
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// removeRequest matches intervals structurally by their full timestamps.
type removeRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type intervalResponse struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type removeResponse struct {
	Removed int `json:"removed"`
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for "today" defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func NewServer(l *ledger.Ledger, opts ...Option) *Server {
	server := &Server{
		ledger:     l,
		logger:     slog.Default(),
		validate:   validator.New(),
		now:        time.Now,
		monthCache: make(map[report.YearMonth]report.MonthReport),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.logger = logging.WithComponent(server.logger, "web")
	server.unsubscribe = l.Subscribe(server.handleChange)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("GET /month", server.handleMonthPicker)
	mux.HandleFunc("GET /month/{month}", server.handleMonth)
	mux.HandleFunc("GET /day/{date}", server.handleDay)
	mux.HandleFunc("GET /api/day/{date}", server.handleAPIDay)
	mux.HandleFunc("GET /api/month/{month}", server.handleAPIMonth)
	mux.HandleFunc("GET /api/months", server.handleAPIMonths)
	mux.HandleFunc("POST /api/intervals", server.handleAPIIntervalCreate)
	mux.HandleFunc("PUT /api/intervals/{id}", server.handleAPIIntervalUpdate)
	mux.HandleFunc("DELETE /api/intervals/{id}", server.handleAPIIntervalDelete)
	mux.HandleFunc("POST /api/intervals/remove", server.handleAPIIntervalRemove)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(recorder, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", recorder.status,
		"duration", time.Since(started),
	)
}

// Close stops listening for ledger changes.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/day/"+s.now().Format(timeutil.DateLayout), http.StatusFound)
}

func (s *Server) handleMonthPicker(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = report.MonthOf(s.now()).String()
	}
	if _, err := report.ParseYearMonth(month); err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/month/"+month, http.StatusFound)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	month, err := report.ParseYearMonth(r.PathValue("month"))
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}

	monthReport, err := s.monthReport(month)
	if err != nil {
		s.fail(w, err)
		return
	}
	view := buildMonthPage(monthReport, report.DistinctMonths(s.ledger.Snapshot()))
	if err := renderTemplate(w, "month.html", view); err != nil {
		s.fail(w, err)
	}
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dayView, err := report.BuildDayView(s.ledger.Snapshot(), day)
	if err != nil {
		s.fail(w, err)
		return
	}
	view := buildDayPage(dayView, s.ledger.Quarantined() != nil)
	if err := renderTemplate(w, "day.html", view); err != nil {
		s.fail(w, err)
	}
}

func (s *Server) handleAPIDay(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dayView, err := report.BuildDayView(s.ledger.Snapshot(), day)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDayPayload(dayView))
}

func (s *Server) handleAPIMonth(w http.ResponseWriter, r *http.Request) {
	month, err := report.ParseYearMonth(r.PathValue("month"))
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}

	monthReport, err := s.monthReport(month)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMonthPayload(monthReport))
}

func (s *Server) handleAPIMonths(w http.ResponseWriter, r *http.Request) {
	months := report.DistinctMonths(s.ledger.Snapshot())
	out := make([]string, 0, len(months))
	for _, month := range months {
		out = append(out, month.String())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIIntervalCreate(w http.ResponseWriter, r *http.Request) {
	var body intervalRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	interval, err := s.intervalFromRequest(body, time.Time{})
	if err != nil {
		s.fail(w, err)
		return
	}

	snapshot, err := s.ledger.AddChecked(r.Context(), interval)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newIntervalResponse(snapshot[len(snapshot)-1]))
}

func (s *Server) handleAPIIntervalUpdate(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	existing, found := s.ledger.Find(id)
	if !found {
		http.Error(w, "interval not found", http.StatusNotFound)
		return
	}

	var body intervalRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Without a date the edit keeps the day of the stored interval.
	interval, err := s.intervalFromRequest(body, existing.Start)
	if err != nil {
		s.fail(w, err)
		return
	}

	if _, err := s.ledger.EditByIDChecked(r.Context(), id, interval); err != nil {
		s.fail(w, err)
		return
	}
	interval.ID = id
	writeJSON(w, http.StatusOK, newIntervalResponse(worklog.Normalize(interval)))
}

func (s *Server) handleAPIIntervalDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if _, err := s.ledger.RemoveByID(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIIntervalRemove(w http.ResponseWriter, r *http.Request) {
	var body removeRequest
	if err := s.decodeAndValidate(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, err := worklog.ParseTimestamp(body.Start)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	end, err := worklog.ParseTimestamp(body.End)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	removed, _, err := s.ledger.RemoveMatches(r.Context(), worklog.Interval{Start: start, End: end})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removeResponse{Removed: removed})
}

func (s *Server) intervalFromRequest(body intervalRequest, fallbackDay time.Time) (worklog.Interval, error) {
	day := fallbackDay
	if strings.TrimSpace(body.Date) != "" {
		parsed, err := timeutil.ParseDate(body.Date)
		if err != nil {
			return worklog.Interval{}, &worklog.ValidationError{Field: "date", Reason: err.Error()}
		}
		day = parsed
	}
	if day.IsZero() {
		day = s.now()
	}

	start, err := timeutil.CombineDateClock(day, body.Start)
	if err != nil {
		return worklog.Interval{}, &worklog.ValidationError{Field: "start", Reason: err.Error()}
	}
	end, err := timeutil.CombineDateClock(day, body.End)
	if err != nil {
		return worklog.Interval{}, &worklog.ValidationError{Field: "end", Reason: err.Error()}
	}
	return worklog.Interval{Start: start, End: end}, nil
}

func (s *Server) monthReport(month report.YearMonth) (report.MonthReport, error) {
	s.mu.RLock()
	cached, ok := s.monthCache[month]
	generation := s.generation
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	built, err := report.BuildMonthReport(s.ledger.Snapshot(), month)
	if err != nil {
		return report.MonthReport{}, err
	}
	s.mu.Lock()
	if s.generation == generation {
		s.monthCache[month] = built
	}
	s.mu.Unlock()
	return built, nil
}

// handleChange drops cached month reports touched by a committed change.
// Edits and loads may move intervals between months, so they clear everything.
func (s *Server) handleChange(change ledger.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	switch change.Kind {
	case ledger.ChangeAdded, ledger.ChangeRemoved:
		for _, interval := range change.Affected {
			delete(s.monthCache, report.MonthOf(interval.Start))
		}
	default:
		s.monthCache = make(map[report.YearMonth]report.MonthReport)
	}
}

// fail maps domain errors onto HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var validationErr *worklog.ValidationError
	var negativeErr *report.NegativeDurationError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &negativeErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "interval not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrQuarantined):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) decodeAndValidate(r *http.Request, out any) error {
	if err := decodeJSON(r, out); err != nil {
		return err
	}
	if err := s.validate.Struct(out); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func newIntervalResponse(interval worklog.Interval) intervalResponse {
	return intervalResponse{
		ID:    interval.ID,
		Start: worklog.FormatTimestamp(interval.Start),
		End:   worklog.FormatTimestamp(interval.End),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
