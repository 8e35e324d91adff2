package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/pantopia"
)

// APIPrefix is where the REST resources are mounted.
const APIPrefix = "/api/v1"

// Options configure a Server.
type Options struct {
	// Token, when set, must be presented as a bearer token on every API call.
	Token     string
	// StepEvery is how many status calls a source spends in each of InQueue
	// and Extracting. Zero means 2.
	StepEvery int
	Dataset   *pantopia.Dataset
	Logger    *zap.Logger
}

// Server is an in-memory stand-in for the Pantopia REST API.
type Server struct {
	token     string
	stepEvery int
	logger    *zap.Logger

	mu            sync.Mutex
	ds            pantopia.Dataset
	polls         map[string]int
	failStatus    int
	nextParagraph int
}

// New returns a Server seeded with opts.Dataset or the sample dataset.
func New(opts Options) *Server {
	ds := pantopia.SampleDataset()
	if opts.Dataset != nil {
		ds = *opts.Dataset
	}
	if opts.StepEvery <= 0 {
		opts.StepEvery = 2
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{
		token:         strings.TrimSpace(opts.Token),
		stepEvery:     opts.StepEvery,
		logger:        opts.Logger,
		ds:            ds,
		polls:         make(map[string]int),
		nextParagraph: len(ds.Paragraphs) + 1,
	}
}

// FailStatusCalls makes the next n status calls answer 503.
func (s *Server) FailStatusCalls(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = n
}

// DataSource returns the current record for id.
func (s *Server) DataSource(id string) (pantopia.DataSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.dataSourceIndex(id)
	if i < 0 {
		return pantopia.DataSource{}, false
	}
	return s.ds.DataSources[i], true
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/login", s.handleLogin)
	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(s.requireToken)

		api.Get("/companies/", s.handleListCompanies)
		api.Get("/companies/{id}/", s.handleGetCompany)
		api.Get("/companies/{id}/datasources/", s.handleListDataSources)

		api.Get("/contacts/", s.handleListContacts)
		api.Get("/contacts/{id}/", s.handleGetContact)
		api.Get("/projects/", s.handleListProjects)
		api.Get("/projects/{id}/", s.handleGetProject)

		api.Get("/briefs/", s.handleListBriefs)
		api.Get("/briefs/{id}/", s.handleGetBrief)
		api.Patch("/briefs/{id}/", s.handlePatchBrief)

		api.Get("/datasources/{id}/", s.handleGetDataSource)
		api.Post("/datasources/{id}/process/", s.handleProcess)
		api.Get("/datasources/{id}/status/", s.handleStatus)
		api.Get("/datasources/{id}/paragraphs/", s.handleListParagraphs)
	})
	return r
}

// ListenAndServe serves the mock API on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock api listening", zap.String("addr", addr), zap.Bool("auth", s.token != ""))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve mock api: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown mock api: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("mock api request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.token == "" {
		_, _ = fmt.Fprintln(w, "This mock API accepts any request. No login needed.")
		return
	}
	_, _ = fmt.Fprintln(w, "Sign in with: pantopia login --token <token>")
}

func (s *Server) handleListCompanies(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.ds.Companies)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ds.CompanyByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleListDataSources answers with a paginated envelope like the real API.
func (s *Server) handleListDataSources(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ds.CompanyByID(id); !ok {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	results := []pantopia.DataSource{}
	for _, d := range s.ds.DataSources {
		if d.CompanyID == id {
			results = append(results, d)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(results), "results": results})
}

func (s *Server) handleListContacts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.ds.Contacts)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for _, c := range s.ds.Contacts {
		if c.ID == id {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "contact not found")
}

func (s *Server) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.ds.Projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	for _, p := range s.ds.Projects {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "project not found")
}

func (s *Server) handleListBriefs(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.ds.Briefs)
}

func (s *Server) handleGetBrief(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.briefIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "brief not found")
		return
	}
	writeJSON(w, http.StatusOK, s.ds.Briefs[i])
}

func (s *Server) handlePatchBrief(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status pantopia.BriefStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.briefIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "brief not found")
		return
	}
	brief := &s.ds.Briefs[i]
	if !brief.Status.CanTransition(body.Status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("cannot move brief from %s to %s", brief.Status, body.Status))
		return
	}
	brief.Status = body.Status
	brief.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, *brief)
}

func (s *Server) handleGetDataSource(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.dataSourceIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "data source not found")
		return
	}
	writeJSON(w, http.StatusOK, s.ds.DataSources[i])
}

// handleProcess queues extraction. Re-processing a processed source drops its
// paragraphs; a source already in flight is a conflict.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.dataSourceIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "data source not found")
		return
	}
	ds := &s.ds.DataSources[i]
	if ds.Status.Active() {
		writeError(w, http.StatusConflict, "data source is already being processed")
		return
	}
	if ds.Status == pantopia.StatusProcessed {
		s.dropParagraphs(id)
	}
	ds.Status = pantopia.StatusInQueue
	s.polls[id] = 0
	s.logger.Info("data source queued", zap.String("datasource", id))
	writeJSON(w, http.StatusAccepted, pantopia.StatusResponse{Status: string(ds.Status)})
}

// handleStatus reports the status and advances an active source one step
// every stepEvery calls.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStatus > 0 {
		s.failStatus--
		writeError(w, http.StatusServiceUnavailable, "extraction service unavailable")
		return
	}
	i := s.dataSourceIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "data source not found")
		return
	}
	ds := &s.ds.DataSources[i]
	if ds.Status.Active() {
		s.polls[id]++
		if s.polls[id] >= s.stepEvery {
			s.polls[id] = 0
			s.advance(ds)
		}
	}
	writeJSON(w, http.StatusOK, pantopia.StatusResponse{Status: string(ds.Status)})
}

func (s *Server) handleListParagraphs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataSourceIndex(id) < 0 {
		writeError(w, http.StatusNotFound, "data source not found")
		return
	}
	results := []pantopia.Paragraph{}
	for _, p := range s.ds.Paragraphs {
		if p.DataSourceID == id {
			results = append(results, p)
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) advance(ds *pantopia.DataSource) {
	switch ds.Status {
	case pantopia.StatusInQueue:
		ds.Status = pantopia.StatusExtracting
	case pantopia.StatusExtracting:
		ds.Status = pantopia.StatusProcessed
		s.extract(*ds)
	}
	s.logger.Info("data source advanced", zap.String("datasource", ds.ID), zap.String("status", string(ds.Status)))
}

// extract fabricates paragraphs for a freshly processed source. Website
// sources get HTML bodies, uploads get markdown.
func (s *Server) extract(ds pantopia.DataSource) {
	bodies := []struct{ title, idea, body string }{
		{"Overview", "What " + ds.Name + " covers.", "**" + ds.Name + "** summarises the client's current position."},
		{"Key figures", "Numbers worth following up.", "- Source: " + ds.Location() + "\n- Kind: " + string(ds.Kind)},
	}
	if ds.Kind == pantopia.KindWebsite {
		bodies[0].body = "<h2>" + ds.Name + "</h2><p>Landing page copy for <a href=\"" + ds.URL + "\">" + ds.URL + "</a>.</p>"
		bodies[1].body = "<ul><li>Pages crawled: 12</li><li>Forms found: 2</li></ul>"
	}
	for _, b := range bodies {
		s.ds.Paragraphs = append(s.ds.Paragraphs, pantopia.Paragraph{
			ID:           strconv.Itoa(s.nextParagraph),
			DataSourceID: ds.ID,
			Title:        b.title,
			MainIdea:     b.idea,
			Body:         b.body,
		})
		s.nextParagraph++
	}
}

func (s *Server) dropParagraphs(id string) {
	kept := s.ds.Paragraphs[:0]
	for _, p := range s.ds.Paragraphs {
		if p.DataSourceID != id {
			kept = append(kept, p)
		}
	}
	s.ds.Paragraphs = kept
}

func (s *Server) dataSourceIndex(id string) int {
	for i, d := range s.ds.DataSources {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) briefIndex(id string) int {
	for i, b := range s.ds.Briefs {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
