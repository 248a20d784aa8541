package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/infra/postgres"
	"github.com/aliskhannn/vocab-trainer-bot/internal/repository"
)

// StatisticsRepository writes the statistics of finished sessions.
type StatisticsRepository struct {
	tx *postgres.Transactor
}

// NewStatisticsRepository creates a new StatisticsRepository.
func NewStatisticsRepository(tx *postgres.Transactor) *StatisticsRepository {
	return &StatisticsRepository{tx: tx}
}

// SaveStatistics writes all updates in one transaction. A missing word
// aborts the whole batch with repository.ErrWordNotFound.
func (r *StatisticsRepository) SaveStatistics(ctx context.Context, updates []entities.StatisticsUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	query := `
		UPDATE words SET
			passed_once = $2,
			passed_twice = $3,
			failed = $4,
			total_attempts = $5,
			in_queue_count = $6,
			quit_queue = $7,
			last_practiced_at = $8
		WHERE id = $1
	`

	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, u := range updates {
			s := u.Stats
			batch.Queue(query,
				u.WordID,
				s.PassedOnce,
				s.PassedTwice,
				s.Failed,
				s.TotalAttempts,
				s.InQueueCount,
				s.QuitQueue,
				s.LastPracticedAt,
			)
		}

		return execBatch(ctx, tx, batch, updates)
	})
}

func execBatch(ctx context.Context, db postgres.DBTX, batch *pgx.Batch, updates []entities.StatisticsUpdate) error {
	br := db.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	for _, u := range updates {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("update word %d statistics: %w", u.WordID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update word %d statistics: %w", u.WordID, repository.ErrWordNotFound)
		}
	}

	return br.Close()
}
