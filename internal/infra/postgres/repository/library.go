package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/infra/postgres"
)

// LibraryRepository reads the word tables and relations of a user.
type LibraryRepository struct {
	db postgres.DBTX
}

// NewLibraryRepository creates a new LibraryRepository.
func NewLibraryRepository(db postgres.DBTX) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// GetTables returns the user's tables with their words in row order.
func (r *LibraryRepository) GetTables(ctx context.Context, userID int64) ([]*entities.Table, error) {
	query := `
		SELECT id, user_id, name, columns
		FROM word_tables
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}
	defer rows.Close()

	var tables []*entities.Table
	byID := make(map[int64]*entities.Table)
	for rows.Next() {
		t := new(entities.Table)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Columns); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}

	if len(tables) == 0 {
		return nil, nil
	}

	if err := r.loadWords(ctx, userID, byID); err != nil {
		return nil, err
	}

	return tables, nil
}

func (r *LibraryRepository) loadWords(ctx context.Context, userID int64, byID map[int64]*entities.Table) error {
	query := `
		SELECT w.id, w.table_id, w.vals,
		       w.passed_once, w.passed_twice, w.failed, w.total_attempts,
		       w.in_queue_count, w.quit_queue, w.last_practiced_at
		FROM words w
		JOIN word_tables t ON t.id = w.table_id
		WHERE t.user_id = $1
		ORDER BY w.table_id, w.position, w.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("get words: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			w    = new(entities.Word)
			vals []byte
		)
		if err := rows.Scan(
			&w.ID, &w.TableID, &vals,
			&w.Stats.PassedOnce, &w.Stats.PassedTwice, &w.Stats.Failed, &w.Stats.TotalAttempts,
			&w.Stats.InQueueCount, &w.Stats.QuitQueue, &w.Stats.LastPracticedAt,
		); err != nil {
			return fmt.Errorf("scan word: %w", err)
		}
		if err := json.Unmarshal(vals, &w.Values); err != nil {
			return fmt.Errorf("decode word %d values: %w", w.ID, err)
		}

		if t, ok := byID[w.TableID]; ok {
			t.Words = append(t.Words, w)
		}
	}

	return rows.Err()
}

// GetRelations returns the relations of every table of the user.
func (r *LibraryRepository) GetRelations(ctx context.Context, userID int64) ([]*entities.Relation, error) {
	query := `
		SELECT r.id, r.table_id, r.name, r.question_columns, r.answer_columns, r.modes
		FROM relations r
		JOIN word_tables t ON t.id = r.table_id
		WHERE t.user_id = $1
		ORDER BY r.table_id, r.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get relations: %w", err)
	}
	defer rows.Close()

	var relations []*entities.Relation
	for rows.Next() {
		var (
			rel   = new(entities.Relation)
			modes []string
		)
		if err := rows.Scan(&rel.ID, &rel.TableID, &rel.Name, &rel.QuestionColumns, &rel.AnswerColumns, &modes); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}

		for _, name := range modes {
			m, err := entities.ParseMode(name)
			if err != nil {
				return nil, fmt.Errorf("relation %d: %w", rel.ID, err)
			}
			rel.Modes = append(rel.Modes, m)
		}
		relations = append(relations, rel)
	}

	return relations, rows.Err()
}
