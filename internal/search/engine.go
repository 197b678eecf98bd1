package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"mediacatalog/searchservice/internal/catalog"
	"mediacatalog/searchservice/internal/domain"
	"mediacatalog/searchservice/internal/metrics"
)

// defaultMaxWorkers bounds per-token fan-out in parallel mode. Tokens are
// cheap CPU-bound scans, so a small bound keeps scheduling overhead below
// the scan cost on typical queries.
const (
	defaultMaxWorkers  = 4
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

// Service ranks catalog records against free-text queries. Scoring is
// per-token: each query token contributes one point for a title substring
// match and one point for a category name match, so a token that hits both
// counts twice. Repeated tokens contribute once per occurrence.
type Service struct {
	store         *catalog.Store
	titles        *titleCache
	categories    *categoryCache
	redis         *RedisTitleCache
	cacheDisabled bool
	maxWorkers    int64
	defaultLimit  int
	logger        *slog.Logger
}

type ServiceOption func(*Service)

func WithRedisTitleCache(cache *RedisTitleCache) ServiceOption {
	return func(s *Service) {
		s.redis = cache
	}
}

func WithCacheDisabled(disabled bool) ServiceOption {
	return func(s *Service) {
		s.cacheDisabled = disabled
	}
}

func WithMaxWorkers(workers int) ServiceOption {
	return func(s *Service) {
		if workers > 0 {
			s.maxWorkers = int64(workers)
		}
	}
}

func WithDefaultLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store *catalog.Store, opts ...ServiceOption) *Service {
	svc := &Service{
		store:        store,
		titles:       newTitleCache(),
		categories:   newCategoryCache(),
		maxWorkers:   defaultMaxWorkers,
		defaultLimit: defaultSearchLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Options tunes a single ranking call.
type Options struct {
	// Limit caps the number of returned items; zero means the service
	// default.
	Limit int
	// NoCache bypasses both cache layers for this call.
	NoCache bool
	// Parallel fans token scoring out across workers.
	Parallel bool
}

// Rank scores every catalog record against the query and returns the
// matches ordered by score descending, then title, release year and full
// record identity ascending. The ordering is total: equal inputs always
// produce the same output slice.
func (s *Service) Rank(ctx context.Context, query string, opts Options) (domain.SearchResponse, error) {
	startedAt := time.Now()

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	mode := "sequential"
	if opts.Parallel {
		mode = "parallel"
	}
	metrics.SearchRequestsTotal.WithLabelValues(mode).Inc()

	tokens := strings.Fields(strings.ToLower(query))
	response := domain.SearchResponse{
		Query:    query,
		Items:    []domain.Media{},
		Limit:    limit,
		Parallel: opts.Parallel,
	}
	if len(tokens) == 0 {
		response.ElapsedMS = time.Since(startedAt).Milliseconds()
		return response, nil
	}

	items, generation := s.store.Snapshot()

	scores := make(map[string]int)
	records := make(map[string]domain.Media)
	var err error
	if opts.Parallel {
		err = s.scoreParallel(ctx, tokens, items, generation, opts.NoCache, scores, records)
	} else {
		err = s.scoreSequential(ctx, tokens, items, generation, opts.NoCache, scores, records)
	}
	if err != nil {
		return domain.SearchResponse{}, err
	}

	ranked := make([]domain.Media, 0, len(scores))
	for key := range scores {
		ranked = append(ranked, records[key])
	}
	sort.Slice(ranked, func(i, j int) bool {
		left, right := ranked[i], ranked[j]
		if sl, sr := scores[left.Key()], scores[right.Key()]; sl != sr {
			return sl > sr
		}
		if left.Title != right.Title {
			return left.Title < right.Title
		}
		if left.ReleaseYear != right.ReleaseYear {
			return left.ReleaseYear < right.ReleaseYear
		}
		return left.Key() < right.Key()
	})

	response.TotalItems = len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	response.Items = ranked
	response.ElapsedMS = time.Since(startedAt).Milliseconds()
	metrics.SearchDuration.Observe(time.Since(startedAt).Seconds())
	return response, nil
}

// TopMatch returns the single best-ranked record, if any token scored.
func (s *Service) TopMatch(ctx context.Context, query string, opts Options) (domain.Media, bool, error) {
	opts.Limit = 1
	response, err := s.Rank(ctx, query, opts)
	if err != nil {
		return domain.Media{}, false, err
	}
	if len(response.Items) == 0 {
		return domain.Media{}, false, nil
	}
	return response.Items[0], true, nil
}

func (s *Service) scoreSequential(ctx context.Context, tokens []string, items []domain.Media, generation uint64, noCache bool, scores map[string]int, records map[string]domain.Media) error {
	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.scoreToken(ctx, token, items, generation, noCache, func(media domain.Media) {
			key := media.Key()
			scores[key]++
			records[key] = media
		})
	}
	return nil
}

func (s *Service) scoreParallel(ctx context.Context, tokens []string, items []domain.Media, generation uint64, noCache bool, scores map[string]int, records map[string]domain.Media) error {
	sem := semaphore.NewWeighted(s.maxWorkers)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, token := range tokens {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			defer sem.Release(1)
			s.scoreToken(ctx, token, items, generation, noCache, func(media domain.Media) {
				key := media.Key()
				mu.Lock()
				scores[key]++
				records[key] = media
				mu.Unlock()
			})
		}(token)
	}

	wg.Wait()
	return ctx.Err()
}

// scoreToken invokes hit once per point the token earns: once per title
// match and once per category match, independently.
func (s *Service) scoreToken(ctx context.Context, token string, items []domain.Media, generation uint64, noCache bool, hit func(domain.Media)) {
	for _, media := range s.titleMatches(ctx, token, items, generation, noCache) {
		hit(media)
	}

	matching := s.categories.matching(token)
	if len(matching) == 0 {
		return
	}
	wanted := make(map[domain.Category]struct{}, len(matching))
	for _, category := range matching {
		wanted[category] = struct{}{}
	}
	for _, media := range items {
		for _, category := range media.Categories {
			if _, ok := wanted[category]; ok {
				hit(media)
				break
			}
		}
	}
}

func (s *Service) titleMatches(ctx context.Context, token string, items []domain.Media, generation uint64, noCache bool) []domain.Media {
	if s.cacheDisabled || noCache {
		return computeTitleMatches(token, items)
	}

	if s.redis != nil {
		matches, found, err := s.redis.Get(ctx, generation, token)
		if err != nil {
			s.logger.Warn("redis title cache lookup failed", "token", token, "error", err)
		} else if found {
			metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
			// Backfill memory so later tokens in this generation stay local.
			s.titles.put(generation, token, matches)
			return matches
		} else {
			metrics.CacheMissesTotal.WithLabelValues("redis").Inc()
		}
	}

	if matches, ok := s.titles.get(generation, token); ok {
		return matches
	}

	matches := computeTitleMatches(token, items)
	s.titles.put(generation, token, matches)
	if s.redis != nil {
		if err := s.redis.Set(ctx, generation, token, matches); err != nil {
			s.logger.Warn("redis title cache store failed", "token", token, "error", err)
		}
	}
	return matches
}

func computeTitleMatches(token string, items []domain.Media) []domain.Media {
	var matches []domain.Media
	for _, media := range items {
		if strings.Contains(strings.ToLower(media.Title), token) {
			matches = append(matches, media)
		}
	}
	return matches
}
