package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
	"github.com/brightpath-labs/brightpath-api/internal/worker"
)

// XpPoints configures the award sizes for non-exam XP actions.
type XpPoints struct {
	VideoWatched    int
	CourseCompleted int
}

// XpService awards XP for actions outside exam scoring. Awards are
// fire-and-forget: the caller returns immediately while the emission runs
// on the pool, retrying transient store failures. The (email, kind,
// reference) idempotency check filters duplicates across retries.
type XpService interface {
	AwardVideoWatched(email string, videoID uint)
	AwardCourseCompleted(email string, courseID uint)
}

type xpService struct {
	events  repository.XpEventRepository
	pool    *worker.Pool
	points  XpPoints
	retries int
	backoff time.Duration
	logger  zerolog.Logger
}

// NewXpService constructs an XpService instance.
func NewXpService(events repository.XpEventRepository, pool *worker.Pool, points XpPoints, logger zerolog.Logger) XpService {
	if points.VideoWatched <= 0 {
		points.VideoWatched = 10
	}
	if points.CourseCompleted <= 0 {
		points.CourseCompleted = 100
	}
	return &xpService{
		events:  events,
		pool:    pool,
		points:  points,
		retries: 3,
		backoff: 200 * time.Millisecond,
		logger:  logger.With().Str("component", "xp_service").Logger(),
	}
}

func (s *xpService) AwardVideoWatched(email string, videoID uint) {
	s.award(models.XpEvent{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Kind:        models.XpEventVideoWatched,
		ReferenceID: videoID,
		Points:      s.points.VideoWatched,
	})
}

func (s *xpService) AwardCourseCompleted(email string, courseID uint) {
	s.award(models.XpEvent{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Kind:        models.XpEventCourseCompleted,
		ReferenceID: courseID,
		Points:      s.points.CourseCompleted,
	})
}

func (s *xpService) award(event models.XpEvent) {
	s.pool.Submit(func() {
		var err error
		for attempt := 0; attempt <= s.retries; attempt++ {
			if attempt > 0 {
				time.Sleep(s.backoff * time.Duration(attempt))
			}
			if err = emitEvent(context.Background(), s.events, event); err == nil {
				return
			}
		}

		s.logger.Error().Err(err).
			Str("email", event.Email).
			Str("kind", event.Kind).
			Uint("reference_id", event.ReferenceID).
			Msg("xp emission gave up after retries")
	})
}
