package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
)

type RefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepo(db *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Save(ctx context.Context, record *models.RefreshTokenRecord) error {
	const op = "RefreshTokenRepo.Save"
	if record == nil {
		return errors.New("refresh token record is nil")
	}

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, false, $5)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		record.ID, record.UserID, record.TokenHash, record.ExpiresAt, record.CreatedAt,
	); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// Get returns nil, nil for an unknown token id.
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	const op = "RefreshTokenRepo.Get"
	query := `
		SELECT id, user_id, token_hash, expires_at, revoked, created_at, last_used_at
		FROM refresh_tokens
		WHERE id = $1`

	var rec models.RefreshTokenRecord
	err := TxorDB(ctx, r.db).QueryRow(ctx, query, tokenID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TokenHash,
		&rec.ExpiresAt,
		&rec.Revoked,
		&rec.CreatedAt,
		&rec.LastUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return &rec, nil
}

// MarkUsed revokes the token. It reports false when the token was already
// revoked, so concurrent refreshes with the same token cannot both succeed.
func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	const op = "RefreshTokenRepo.MarkUsed"
	query := `
		UPDATE refresh_tokens
		SET revoked = true,
		    last_used_at = now()
		WHERE id = $1 AND revoked = false`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, tokenID)
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	const op = "RefreshTokenRepo.RevokeAllForUser"
	query := `UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND revoked = false`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, userID); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
