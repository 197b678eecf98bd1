package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mediacatalog/searchservice/internal/catalog"
	"mediacatalog/searchservice/internal/domain"
	"mediacatalog/searchservice/internal/ingest"
	"mediacatalog/searchservice/internal/library"
	"mediacatalog/searchservice/internal/search"
)

type LibraryService interface {
	AddLines(ctx context.Context, lines []string) (library.AddResult, error)
	RemoveLine(ctx context.Context, line string) (bool, error)
	Clear(ctx context.Context)
	Size() int
	List(by domain.SortBy, order domain.SortOrder) domain.CatalogResponse
	Search(ctx context.Context, query string, opts search.Options) (domain.SearchResponse, error)
	TopMatch(ctx context.Context, query string, opts search.Options) (domain.Media, bool, error)
	Ingest(ctx context.Context) (ingest.Report, error)
	SaveSnapshot(ctx context.Context) (int, error)
	LoadSnapshot(ctx context.Context) (int, error)
}

const maxQueryLength = 500

type Server struct {
	library         LibraryService
	logger          *slog.Logger
	defaultParallel bool
	rateLimit       float64
}

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithDefaultParallel(parallel bool) ServerOption {
	return func(s *Server) {
		s.defaultParallel = parallel
	}
}

func WithRateLimit(rps float64) ServerOption {
	return func(s *Server) {
		if rps > 0 {
			s.rateLimit = rps
		}
	}
}

func NewServer(librarySvc LibraryService, options ...ServerOption) *Server {
	server := &Server{
		library:   librarySvc,
		logger:    slog.Default(),
		rateLimit: 50,
	}
	for _, option := range options {
		if option != nil {
			option(server)
		}
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/search/top", s.handleSearchTop)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/catalog/media", s.handleCatalogMedia)
	mux.HandleFunc("/catalog/ingest", s.handleCatalogIngest)
	mux.HandleFunc("/catalog/snapshot", s.handleCatalogSnapshot)
	mux.HandleFunc("/catalog", s.handleCatalog)
	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "media-catalog-search",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/health"
		}),
	)
	return recoveryMiddleware(s.logger, rateLimitMiddleware(s.rateLimit, int(s.rateLimit*2), metricsMiddleware(traced)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"catalog":   s.library.Size(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/search" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query, opts, ok := s.searchParams(w, r)
	if !ok {
		return
	}

	response, err := s.library.Search(r.Context(), query, opts)
	if err != nil {
		s.logger.Warn("search request failed",
			slog.String("query", truncate(query, 80)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "search failed")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleSearchTop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query, opts, ok := s.searchParams(w, r)
	if !ok {
		return
	}

	best, found, err := s.library.TopMatch(r.Context(), query, opts)
	if err != nil {
		s.logger.Warn("top match request failed",
			slog.String("query", truncate(query, 80)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "search failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "no record matched the query")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query": query,
		"item":  best,
	})
}

func (s *Server) searchParams(w http.ResponseWriter, r *http.Request) (string, search.Options, bool) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "query is required")
		return "", search.Options{}, false
	}
	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "invalid_request", "query too long (max 500 characters)")
		return "", search.Options{}, false
	}
	limit, err := parsePositiveInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return "", search.Options{}, false
	}

	parallel := s.defaultParallel
	if r.URL.Query().Has("parallel") {
		parallel = parseOptionalBool(r.URL.Query().Get("parallel"))
	}

	return query, search.Options{
		Limit:    limit,
		NoCache:  parseOptionalBool(r.URL.Query().Get("nocache")),
		Parallel: parallel,
	}, true
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/catalog" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		by := domain.NormalizeSortBy(r.URL.Query().Get("sortBy"))
		order := domain.NormalizeSortOrder(r.URL.Query().Get("sortOrder"))
		writeJSON(w, http.StatusOK, s.library.List(by, order))
	case http.MethodDelete:
		s.library.Clear(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true, "size": s.library.Size()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCatalogMedia(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			Lines []string `json:"lines"`
		}
		if err := decodeJSONBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if len(body.Lines) == 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "lines are required")
			return
		}
		result, err := s.library.AddLines(r.Context(), body.Lines)
		if err != nil {
			s.writeParseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case http.MethodDelete:
		var body struct {
			Line string `json:"line"`
		}
		if err := decodeJSONBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if strings.TrimSpace(body.Line) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "line is required")
			return
		}
		removed, err := s.library.RemoveLine(r.Context(), body.Line)
		if err != nil {
			s.writeParseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "size": s.library.Size()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCatalogIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report, err := s.library.Ingest(r.Context())
	if err != nil {
		var lineErr *ingest.LineError
		if errors.As(err, &lineErr) {
			s.writeParseError(w, err)
			return
		}
		s.logger.Error("catalog ingest failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "ingest_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report": report,
		"size":   s.library.Size(),
	})
}

func (s *Server) handleCatalogSnapshot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		records, err := s.library.SaveSnapshot(r.Context())
		if err != nil {
			s.writeSnapshotError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saved": records})
	case http.MethodPut:
		records, err := s.library.LoadSnapshot(r.Context())
		if err != nil {
			s.writeSnapshotError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"restored": records, "size": s.library.Size()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// writeParseError maps a parse failure to a 400 whose error code is the
// parse error kind, so clients can react to the exact grammar violation.
func (s *Server) writeParseError(w http.ResponseWriter, err error) {
	if kind := catalog.ErrorKind(err); kind != "" {
		writeError(w, http.StatusBadRequest, string(kind), err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
}

func (s *Server) writeSnapshotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrSnapshotsDisabled):
		writeError(w, http.StatusServiceUnavailable, "snapshots_disabled", err.Error())
	case errors.Is(err, catalog.ErrNoSnapshot):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		s.logger.Error("snapshot operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal_error", "snapshot operation failed")
	}
}

func decodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func parsePositiveInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, errors.New("invalid value")
	}
	return parsed, nil
}

func parseOptionalBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
