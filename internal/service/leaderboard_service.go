package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/observability"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
)

// ScopeGlobal aggregates the whole ledger; exam scopes use "exam:{id}".
const ScopeGlobal = "global"

// ErrInvalidScope indicates a scope string that is neither global nor exam:{id}.
var ErrInvalidScope = errors.New("invalid leaderboard scope")

// LeaderboardService answers ranked-standings queries from the XP ledger,
// cache-first, and performs audited resets. It never writes XP events.
type LeaderboardService interface {
	Get(ctx context.Context, scope string, page, pageSize int) (dto.LeaderboardResponse, error)
	Reset(ctx context.Context, scope, actor string) (models.LeaderboardAudit, error)
}

type leaderboardService struct {
	events   repository.XpEventRepository
	audits   repository.LeaderboardAuditRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
	group    singleflight.Group

	// resetMu serializes resets per scope; concurrent scoring is not blocked.
	mu      sync.Mutex
	resetMu map[string]*sync.Mutex
}

// NewLeaderboardService constructs the leaderboard aggregator.
func NewLeaderboardService(events repository.XpEventRepository, audits repository.LeaderboardAuditRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &leaderboardService{
		events:   events,
		audits:   audits,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "leaderboard_service").Logger(),
		now:      time.Now,
		resetMu:  make(map[string]*sync.Mutex),
	}
}

func (s *leaderboardService) Get(ctx context.Context, scope string, page, pageSize int) (dto.LeaderboardResponse, error) {
	if _, err := parseScope(scope); err != nil {
		return dto.LeaderboardResponse{}, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	tracer := otel.Tracer("github.com/brightpath-labs/brightpath-api/internal/service/leaderboard")
	ctx, span := tracer.Start(ctx, "leaderboard.get",
		trace.WithAttributes(attribute.String("leaderboard.scope", scope)))
	defer span.End()

	cacheKey := fmt.Sprintf("leaderboard:%s:v1:%d:%d", scope, page, pageSize)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.LeaderboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				observability.LeaderboardRequests().WithLabelValues(scope, "hit").Inc()
				span.SetAttributes(attribute.Bool("leaderboard.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
			span.RecordError(err)
		}
	}

	observability.LeaderboardRequests().WithLabelValues(scope, "miss").Inc()

	// Concurrent misses for the same key collapse into one recompute.
	value, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		return s.recompute(ctx, scope, page, pageSize)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recompute_failed")
		return dto.LeaderboardResponse{}, err
	}

	response := value.(dto.LeaderboardResponse)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

// Reset captures the current standings, writes one audit row and drops the
// scope's cached pages. XP events are never deleted: standings re-baseline
// because aggregation only counts events newer than the latest audit.
func (s *leaderboardService) Reset(ctx context.Context, scope, actor string) (models.LeaderboardAudit, error) {
	if _, err := parseScope(scope); err != nil {
		return models.LeaderboardAudit{}, err
	}

	mu := s.scopeMutex(scope)
	mu.Lock()
	defer mu.Unlock()

	standings, err := s.standings(ctx, scope)
	if err != nil {
		return models.LeaderboardAudit{}, err
	}

	snapshot, err := json.Marshal(standings)
	if err != nil {
		return models.LeaderboardAudit{}, err
	}

	audit := models.LeaderboardAudit{
		Scope:     scope,
		Actor:     actor,
		Standings: snapshot,
		CreatedAt: s.now(),
	}

	if err := s.audits.Create(ctx, &audit); err != nil {
		return models.LeaderboardAudit{}, err
	}

	s.invalidateScope(ctx, scope)
	observability.LeaderboardResets().WithLabelValues(scope).Inc()
	s.logger.Info().Str("scope", scope).Str("actor", actor).Msg("leaderboard reset")

	return audit, nil
}

func (s *leaderboardService) recompute(ctx context.Context, scope string, page, pageSize int) (dto.LeaderboardResponse, error) {
	standings, err := s.standings(ctx, scope)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	total := len(standings)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return dto.LeaderboardResponse{
		Scope:      scope,
		Entries:    standings[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		ComputedAt: s.now(),
	}, nil
}

// standings sums the ledger for the scope, baselined at the latest reset.
// The repository orders by points descending with email ascending as the
// deterministic tiebreak; ranks are assigned here before pagination.
func (s *leaderboardService) standings(ctx context.Context, scope string) ([]dto.RankedEntry, error) {
	filter := repository.XpAggregateFilter{}

	examID, err := parseScope(scope)
	if err != nil {
		return nil, err
	}
	if examID != nil {
		// Only completion awards reference the exam itself; question and
		// video events reuse the same id space for their own entities.
		filter.ReferenceID = examID
		filter.Kind = models.XpEventExamCompleted
	}

	audit, err := s.audits.LatestByScope(ctx, scope)
	switch {
	case err == nil:
		baseline := audit.CreatedAt
		filter.After = &baseline
	case errors.Is(err, gorm.ErrRecordNotFound):
		// never reset
	default:
		return nil, err
	}

	totals, err := s.events.SumPointsByEmail(ctx, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.RankedEntry, 0, len(totals))
	for i, row := range totals {
		entries = append(entries, dto.RankedEntry{
			Rank:   i + 1,
			Email:  row.Email,
			Points: row.Points,
		})
	}

	return entries, nil
}

func (s *leaderboardService) invalidateScope(ctx context.Context, scope string) {
	if s.cache == nil {
		return
	}

	pattern := fmt.Sprintf("leaderboard:%s:v1:*", scope)
	iter := s.cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("failed to drop leaderboard cache entry")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Str("scope", scope).Msg("leaderboard cache scan failed")
	}
}

func (s *leaderboardService) scopeMutex(scope string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.resetMu[scope]
	if !ok {
		mu = &sync.Mutex{}
		s.resetMu[scope] = mu
	}
	return mu
}

// parseScope validates the scope string and extracts the exam id for
// exam-bounded scopes. It returns nil for the global scope.
func parseScope(scope string) (*uint, error) {
	if scope == ScopeGlobal {
		return nil, nil
	}

	raw, ok := strings.CutPrefix(scope, "exam:")
	if !ok {
		return nil, ErrInvalidScope
	}

	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return nil, ErrInvalidScope
	}

	id := uint(parsed)
	return &id, nil
}
