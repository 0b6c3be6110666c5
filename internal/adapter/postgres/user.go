package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/postgres"
)

const (
	constraintUserEmail   = "users_email_key"
	constraintUserKakaoID = "users_kakao_id_key"
)

const userColumns = `id, COALESCE(kakao_id, ''), COALESCE(email, ''), nickname, profile_image_url, role, created_at, updated_at`

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// FindByKakaoID returns nil, nil when no user is linked to kakaoID.
func (r *UserRepo) FindByKakaoID(ctx context.Context, kakaoID string) (*models.User, error) {
	const op = "UserRepo.FindByKakaoID"
	query := `SELECT ` + userColumns + ` FROM users WHERE kakao_id = $1`

	u, err := r.findOne(ctx, query, kakaoID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return u, nil
}

// FindByEmail matches case-insensitively and returns nil, nil when absent.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "UserRepo.FindByEmail"
	if email == "" {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	u, err := r.findOne(ctx, query, email)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return u, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "UserRepo.ExistsByEmail"
	if email == "" {
		return false, nil
	}
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`

	var exists bool
	if err := TxorDB(ctx, r.db).QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return exists, nil
}

// GetByID returns types.ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "UserRepo.GetByID"
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := r.findOne(ctx, query, id)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if u == nil {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

// Create inserts u and fills its generated fields.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	const op = "UserRepo.Create"
	if u == nil {
		return errors.New("nil user")
	}
	if u.Role == "" {
		u.Role = types.UserRoleUser.String()
	}

	query := `
		INSERT INTO users (kakao_id, email, nickname, profile_image_url, role)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := TxorDB(ctx, r.db).QueryRow(ctx, query,
		u.KakaoID, u.Email, u.Nickname, u.ProfileImageURL, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, userConflict(err)))
	}
	return nil
}

// UpdateProfile links the kakao id and refreshes nickname and profile image.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	const op = "UserRepo.UpdateProfile"
	query := `
		UPDATE users
		SET kakao_id = NULLIF($2, ''),
		    nickname = $3,
		    profile_image_url = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := TxorDB(ctx, r.db).QueryRow(ctx, query, u.ID, u.KakaoID, u.Nickname, u.ProfileImageURL).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.ErrUserNotFound
		}
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, userConflict(err)))
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := TxorDB(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.KakaoID,
		&u.Email,
		&u.Nickname,
		&u.ProfileImageURL,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func userConflict(err error) error {
	switch {
	case postgres.IsUniqueViolation(err, constraintUserEmail):
		return types.ErrEmailAlreadyExists
	case postgres.IsUniqueViolation(err, constraintUserKakaoID):
		return types.ErrKakaoIDConflict
	default:
		return err
	}
}
