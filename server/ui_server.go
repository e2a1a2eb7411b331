package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sent-hil/plos-articles/catalog"
	"github.com/sent-hil/plos-articles/config"
	"github.com/sent-hil/plos-articles/internal/lib/logger/sl"
	"github.com/sent-hil/plos-articles/metrics"
	"github.com/sent-hil/plos-articles/report"
)

// Articles is the loaded list the UI reads from.
type Articles interface {
	Search(ctx context.Context, query string) (catalog.Snapshot, error)
	Refresh(ctx context.Context) (catalog.Snapshot, error)
	Snapshot() catalog.Snapshot
}

// UIServer represents the web server for the articles UI
type UIServer struct {
	articles Articles
	tmpl     *template.Template
	cfg      *config.Config
	intro    template.HTML
	log      *slog.Logger
	now      func() time.Time
}

// NewUIServer creates a new UI server
func NewUIServer(log *slog.Logger, articles Articles, cfg *config.Config) (*UIServer, error) {
	const op = "server.NewUIServer"

	// Create template with custom functions
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"subtract": func(a, b int) int {
			return a - b
		},
	}

	tmpl, err := template.New("index").Funcs(funcMap).Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tmpl.New("rows").Parse(rowsTemplate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &UIServer{
		articles: articles,
		tmpl:     tmpl,
		cfg:      cfg,
		intro:    renderIntro(cfg.Page.Intro),
		log:      log.With(slog.String("component", "server")),
		now:      time.Now,
	}, nil
}

// Routes builds the HTTP handler for the UI.
func (s *UIServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/rows", s.handleRows)
	r.Get("/api/articles", s.handleArticlesAPI)
	r.Get("/report.pdf", s.handleReportPDF)
	r.Get("/report.md", s.handleReportMarkdown)
	r.Get("/refresh", s.handleRefresh)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start serves the UI until ctx is cancelled, then shuts down gracefully.
func (s *UIServer) Start(ctx context.Context) error {
	const op = "server.Start"

	srv := &http.Server{
		Addr:         s.cfg.HTTPServer.Address,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.HTTPServer.ReadTimeout,
		WriteTimeout: s.cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  s.cfg.HTTPServer.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// handleIndex handles the index page
func (s *UIServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	searchQuery := strings.TrimSpace(r.URL.Query().Get("q"))
	page := parsePage(r)

	var table tableView
	if s.cfg.Page.Lazy {
		// the page script fetches /rows once the shell is shown
		table = tableView{State: catalog.StateLoading, Query: searchQuery, CurrentPage: page, TotalPages: 1, PageSize: s.cfg.Page.PageSize}
	} else {
		snap, _ := s.articles.Search(r.Context(), searchQuery)
		table = buildTable(snap, page, s.cfg.Page.PageSize)
	}
	table.Message = stateMessage(table.State)

	data := struct {
		Title       string
		Intro       template.HTML
		Lazy        bool
		PDFFileName string
		Table       tableView
		SearchQuery string
		CurrentPage int
		TotalPages  int
		Count       int
	}{
		Title:       s.cfg.Page.Title,
		Intro:       s.intro,
		Lazy:        s.cfg.Page.Lazy,
		PDFFileName: s.cfg.Report.FileName,
		Table:       table,
		SearchQuery: searchQuery,
		CurrentPage: table.CurrentPage,
		TotalPages:  table.TotalPages,
		Count:       table.Count,
	}

	s.render(w, "index", data)
}

// handleRows renders only the table body, for the search box
func (s *UIServer) handleRows(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.articles.Search(r.Context(), r.URL.Query().Get("q"))
	table := buildTable(snap, parsePage(r), s.cfg.Page.PageSize)
	table.Message = stateMessage(table.State)

	w.Header().Set("X-Articles-Count", strconv.Itoa(table.Count))
	w.Header().Set("X-Current-Page", strconv.Itoa(table.CurrentPage))
	w.Header().Set("X-Total-Pages", strconv.Itoa(table.TotalPages))
	w.Header().Set("X-Articles-State", table.State.String())

	s.render(w, "rows", table)
}

// handleArticlesAPI handles AJAX requests for article data
func (s *UIServer) handleArticlesAPI(w http.ResponseWriter, r *http.Request) {
	snap, err := s.articles.Search(r.Context(), r.URL.Query().Get("q"))
	table := buildTable(snap, parsePage(r), s.cfg.Page.PageSize)

	response := struct {
		Articles    []articleJSON `json:"articles"`
		Count       int           `json:"count"`
		CurrentPage int           `json:"currentPage"`
		TotalPages  int           `json:"totalPages"`
		PageSize    int           `json:"pageSize"`
		State       catalog.State `json:"state"`
		Error       string        `json:"error,omitempty"`
	}{
		Articles:    table.JSON(),
		Count:       table.Count,
		CurrentPage: table.CurrentPage,
		TotalPages:  table.TotalPages,
		PageSize:    table.PageSize,
		State:       table.State,
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
		response.Error = "failed to load articles"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.Error("failed to encode response", sl.Err(err))
	}
}

// handleReportPDF exports the current list as a PDF download
func (s *UIServer) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	snap, err := s.articles.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, "Failed to load articles", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	err = report.WritePDF(&buf, snap.Articles, report.Options{
		Title:     s.cfg.Report.Title,
		Generated: s.now(),
		FontSize:  s.cfg.Report.FontSize,
	})
	if err != nil {
		s.log.Error("failed to build pdf report", sl.Err(err))
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}
	metrics.RecordReport("pdf")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(s.cfg.Report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

// handleReportMarkdown exports the current list as a Markdown download
func (s *UIServer) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	snap, err := s.articles.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, "Failed to load articles", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteMarkdown(&buf, snap.Articles, s.cfg.Report.Title); err != nil {
		s.log.Error("failed to build markdown report", sl.Err(err))
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}
	metrics.RecordReport("markdown")

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(markdownFileName(s.cfg.Report.FileName)))
	buf.WriteTo(w)
}

// handleRefresh reloads the list from the API and goes back to the index page
func (s *UIServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := s.articles.Refresh(r.Context()); err != nil {
		s.log.Warn("refresh failed", sl.Err(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *UIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *UIServer) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template execution failed", slog.String("template", name), sl.Err(err))
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func parsePage(r *http.Request) int {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	return page
}

func attachment(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q", fileName)
}

func markdownFileName(pdfName string) string {
	return strings.TrimSuffix(pdfName, ".pdf") + ".md"
}
