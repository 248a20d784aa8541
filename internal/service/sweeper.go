package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// SessionNotifier is told about sessions the sweeper closed.
type SessionNotifier interface {
	NotifySessionExpired(ctx context.Context, userID int64, result entities.SessionResult)
}

// SessionSweeper periodically quits idle sessions so their statistics are
// persisted and their memory released.
type SessionSweeper struct {
	study    *StudyService
	schedule string
	maxIdle  time.Duration
	notifier SessionNotifier
	logger   *zap.Logger
}

// NewSessionSweeper creates a sweeper running on a standard cron schedule.
func NewSessionSweeper(study *StudyService, schedule string, maxIdle time.Duration, logger *zap.Logger) *SessionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionSweeper{
		study:    study,
		schedule: schedule,
		maxIdle:  maxIdle,
		logger:   logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *SessionSweeper) SetNotifier(notifier SessionNotifier) {
	s.notifier = notifier
}

// Start runs the sweep schedule until ctx is cancelled.
func (s *SessionSweeper) Start(ctx context.Context) {
	s.logger.Info("session sweeper started",
		zap.String("schedule", s.schedule),
		zap.Duration("max_idle", s.maxIdle),
	)

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")
}

// Sweep expires idle sessions once and returns how many were closed.
func (s *SessionSweeper) Sweep(ctx context.Context) int {
	expired, err := s.study.ExpireIdle(ctx, s.maxIdle)
	if err != nil {
		s.logger.Error("failed to expire some sessions", zap.Error(err))
	}

	for userID, result := range expired {
		s.logger.Info("session expired",
			zap.Int64("user_id", userID),
			zap.String("session_id", result.SessionID),
		)
		if s.notifier != nil {
			s.notifier.NotifySessionExpired(ctx, userID, result)
		}
	}

	if len(expired) > 0 {
		s.logger.Info("idle sessions swept", zap.Int("expired", len(expired)))
	}
	return len(expired)
}
