package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/postgres"
)

const constraintUserSession = "running_sessions_user_session_key"

const sessionColumns = `id, session_id, user_id, geojson, feature_count, coordinate_count, summary, started_at, ended_at, created_at`

type RunningSessionRepo struct {
	db *pgxpool.Pool
}

func NewRunningSessionRepo(db *pgxpool.Pool) *RunningSessionRepo {
	return &RunningSessionRepo{db: db}
}

// Create stores s and fills ID and CreatedAt. A second session with the same
// (user_id, session_id) fails with types.ErrSessionAlreadyExists.
func (r *RunningSessionRepo) Create(ctx context.Context, s *models.RunningSession) error {
	const op = "RunningSessionRepo.Create"

	var summary *string
	if s.Summary != nil {
		b, err := json.Marshal(s.Summary)
		if err != nil {
			return fmt.Errorf("%s: marshal summary: %w", op, err)
		}
		str := string(b)
		summary = &str
	}

	query := `
		INSERT INTO running_sessions
			(session_id, user_id, geojson, feature_count, coordinate_count, summary, started_at, ended_at)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6::jsonb, $7, $8)
		RETURNING id, created_at`

	err := TxorDB(ctx, r.db).QueryRow(ctx, query,
		s.SessionID,
		s.UserID,
		string(s.GeoJSON),
		s.FeatureCount,
		s.CoordinateCount,
		summary,
		s.StartedAt,
		s.EndedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, constraintUserSession) {
			return types.ErrSessionAlreadyExists
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// ListByUser returns at most limit sessions of userID, newest first.
func (r *RunningSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RunningSession, error) {
	const op = "RunningSessionRepo.ListByUser"
	query := `
		SELECT ` + sessionColumns + `
		FROM running_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	sessions := make([]*models.RunningSession, 0, limit)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return sessions, nil
}

// GetByUserAndSessionID returns nil, nil when the user has no such session.
func (r *RunningSessionRepo) GetByUserAndSessionID(ctx context.Context, userID uuid.UUID, sessionID string) (*models.RunningSession, error) {
	const op = "RunningSessionRepo.GetByUserAndSessionID"
	query := `SELECT ` + sessionColumns + ` FROM running_sessions WHERE user_id = $1 AND session_id = $2`

	s, err := scanSession(TxorDB(ctx, r.db).QueryRow(ctx, query, userID, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return s, nil
}

func scanSession(row pgx.Row) (*models.RunningSession, error) {
	var (
		s       models.RunningSession
		geojson []byte
		summary []byte
	)

	if err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.UserID,
		&geojson,
		&s.FeatureCount,
		&s.CoordinateCount,
		&summary,
		&s.StartedAt,
		&s.EndedAt,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}

	s.GeoJSON = geojson
	if len(summary) > 0 {
		s.Summary = &models.SessionSummary{}
		if err := json.Unmarshal(summary, s.Summary); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	}
	return &s, nil
}
