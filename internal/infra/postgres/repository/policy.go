package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/infra/postgres"
	"github.com/aliskhannn/vocab-trainer-bot/internal/repository"
)

// PolicyRepository stores selection policies as JSONB, one per user.
type PolicyRepository struct {
	db postgres.DBTX
}

// NewPolicyRepository creates a new PolicyRepository.
func NewPolicyRepository(db postgres.DBTX) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// GetByUserID returns the policy of a user or repository.ErrPolicyNotFound.
func (r *PolicyRepository) GetByUserID(ctx context.Context, userID int64) (*entities.SelectionPolicy, error) {
	query := `SELECT policy FROM selection_policies WHERE user_id = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("get policy: %w", err)
	}

	var p entities.SelectionPolicy
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}

	return &p, nil
}

// Upsert creates or replaces the policy of a user.
func (r *PolicyRepository) Upsert(ctx context.Context, userID int64, p *entities.SelectionPolicy) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode policy: %w", err)
	}

	query := `
		INSERT INTO selection_policies (user_id, policy, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			policy = EXCLUDED.policy,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("upsert policy: %w", err)
	}

	return nil
}
