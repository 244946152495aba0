package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, full_name, email, password_hash, profile_picture, bio,
	is_onboarded, native_language, learning_language, location, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Password, &u.ProfilePicture, &u.Bio,
		&u.IsOnboarded, &u.NativeLanguage, &u.LearningLanguage, &u.Location, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create inserts the user together with a pending chat-sync marker in one
// transaction, so a committed account always carries its sync obligation.
// A unique-index violation on lower(email) surfaces as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (id, full_name, email, password_hash, profile_picture)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, u.ID, u.FullName, u.Email, u.Password, u.ProfilePicture)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}

	if err := markSyncPending(ctx, tx, u.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// markSyncPending upserts the user's chat-sync obligation. It runs inside
// the same transaction as the write that made the directory stale, so a
// committed profile always carries its marker.
func markSyncPending(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO chat_sync_outbox (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET synced_at = NULL, updated_at = now()
	`, userID)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadFriends(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)
	`, email))
	if err != nil {
		return nil, err
	}
	if err := r.loadFriends(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) loadFriends(ctx context.Context, u *entity.User) error {
	rows, err := r.pool.Query(ctx, `
		SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY created_at, friend_id
	`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	u.Friends = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		u.Friends = append(u.Friends, id)
	}
	return rows.Err()
}

// UpdateProfile writes the mutable profile fields and re-marks the chat-sync
// outbox in the same transaction, so the new name or picture is guaranteed a
// marker even if the process dies right after commit. Email and password
// hash are deliberately not part of this statement.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u.UpdatedAt = time.Now()
	res, err := tx.Exec(ctx, `
		UPDATE users
		SET full_name = $1, profile_picture = $2, bio = $3, is_onboarded = $4,
		    native_language = $5, learning_language = $6, location = $7, updated_at = $8
		WHERE id = $9
	`, u.FullName, u.ProfilePicture, u.Bio, u.IsOnboarded,
		u.NativeLanguage, u.LearningLanguage, u.Location, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := markSyncPending(ctx, tx, u.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) ListRecommended(ctx context.Context, userID string) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id <> $1
		  AND is_onboarded
		  AND id NOT IN (SELECT friend_id FROM friendships WHERE user_id = $1)
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) ListFriends(ctx context.Context, userID string) ([]*entity.UserCard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.full_name, u.profile_picture, u.native_language, u.learning_language
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY f.created_at, u.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*entity.UserCard{}
	for rows.Next() {
		c := &entity.UserCard{}
		if err := rows.Scan(&c.ID, &c.FullName, &c.ProfilePicture, &c.NativeLanguage, &c.LearningLanguage); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
