package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mediacatalog/searchservice/internal/catalog"
	"mediacatalog/searchservice/internal/domain"
	"mediacatalog/searchservice/internal/ingest"
	"mediacatalog/searchservice/internal/metrics"
	"mediacatalog/searchservice/internal/search"
)

var ErrSnapshotsDisabled = errors.New("snapshot persistence is not configured")

// Service is the single entry point the transport layer talks to. It owns
// the catalog store and wires parsing, ranking, ingest and snapshot
// persistence together behind one API.
type Service struct {
	store     *catalog.Store
	search    *search.Service
	ingestor  *ingest.Ingestor
	snapshots *catalog.SnapshotStore
	logger    *slog.Logger
}

type Option func(*Service)

func WithIngestor(ingestor *ingest.Ingestor) Option {
	return func(s *Service) {
		s.ingestor = ingestor
	}
}

func WithSnapshots(snapshots *catalog.SnapshotStore) Option {
	return func(s *Service) {
		s.snapshots = snapshots
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store *catalog.Store, searchSvc *search.Service, opts ...Option) *Service {
	svc := &Service{
		store:  store,
		search: searchSvc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// AddResult summarizes a committed batch of lines.
type AddResult struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// AddLines parses every line first and commits only if all of them parse.
// A single bad line rejects the whole batch, so callers never end up with a
// partially applied request.
func (s *Service) AddLines(ctx context.Context, lines []string) (AddResult, error) {
	var (
		batch   []domain.Media
		skipped int
	)
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return AddResult{}, err
		}
		media, ok, err := catalog.ParseLine(line)
		if err != nil {
			metrics.ParseLinesTotal.WithLabelValues("error").Inc()
			if kind := catalog.ErrorKind(err); kind != "" {
				metrics.ParseErrorsTotal.WithLabelValues(string(kind)).Inc()
			}
			return AddResult{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		if !ok {
			skipped++
			metrics.ParseLinesTotal.WithLabelValues("comment").Inc()
			continue
		}
		metrics.ParseLinesTotal.WithLabelValues("ok").Inc()
		batch = append(batch, media)
	}

	added := s.store.AddAll(batch)
	s.observeSize()
	return AddResult{
		Added:      added,
		Duplicates: len(batch) - added,
		Skipped:    skipped,
	}, nil
}

// RemoveLine parses the line and removes the equal record, reporting
// whether one was present.
func (s *Service) RemoveLine(ctx context.Context, line string) (bool, error) {
	media, ok, err := catalog.ParseLine(line)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	removed := s.store.Remove(media)
	s.observeSize()
	return removed, nil
}

func (s *Service) Clear(ctx context.Context) {
	s.store.Clear()
	s.observeSize()
}

func (s *Service) Size() int {
	return s.store.Len()
}

// List returns the whole catalog in the requested order.
func (s *Service) List(by domain.SortBy, order domain.SortOrder) domain.CatalogResponse {
	items := s.store.All()
	search.SortMedia(items, by, order)
	return domain.CatalogResponse{
		Items:      items,
		TotalItems: len(items),
		SortBy:     by,
		SortOrder:  order,
	}
}

func (s *Service) Search(ctx context.Context, query string, opts search.Options) (domain.SearchResponse, error) {
	return s.search.Rank(ctx, query, opts)
}

func (s *Service) TopMatch(ctx context.Context, query string, opts search.Options) (domain.Media, bool, error) {
	return s.search.TopMatch(ctx, query, opts)
}

// Ingest runs the configured sources and replaces the catalog contents with
// the result. An abort-on-error failure leaves the current catalog intact.
func (s *Service) Ingest(ctx context.Context) (ingest.Report, error) {
	if s.ingestor == nil {
		return ingest.Report{}, errors.New("no ingest sources configured")
	}
	batch, report, err := s.ingestor.Run(ctx)
	if err != nil {
		return ingest.Report{}, err
	}
	s.store.BulkLoad(batch)
	s.observeSize()
	s.logger.Info("catalog ingest complete",
		"parsed", report.Parsed,
		"skipped", report.Skipped,
		"failed", len(report.Failures),
		"size", s.store.Len(),
	)
	return report, nil
}

// SaveSnapshot persists the current catalog contents.
func (s *Service) SaveSnapshot(ctx context.Context) (int, error) {
	if s.snapshots == nil {
		return 0, ErrSnapshotsDisabled
	}
	items := s.store.All()
	if err := s.snapshots.Save(items); err != nil {
		return 0, err
	}
	s.logger.Info("catalog snapshot saved", "records", len(items))
	return len(items), nil
}

// LoadSnapshot replaces the catalog contents with the last saved snapshot.
func (s *Service) LoadSnapshot(ctx context.Context) (int, error) {
	if s.snapshots == nil {
		return 0, ErrSnapshotsDisabled
	}
	items, err := s.snapshots.Load()
	if err != nil {
		return 0, err
	}
	s.store.BulkLoad(items)
	s.observeSize()
	s.logger.Info("catalog snapshot restored", "records", len(items))
	return len(items), nil
}

func (s *Service) observeSize() {
	metrics.CatalogSize.Set(float64(s.store.Len()))
}
