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

type FriendRequestRepository struct {
	pool *pgxpool.Pool
}

func NewFriendRequestRepository(pool *pgxpool.Pool) *FriendRequestRepository {
	return &FriendRequestRepository{pool: pool}
}

// Create relies on the unique index over
// (LEAST(sender, recipient), GREATEST(sender, recipient)): the insert and
// the undirected dedup check are one atomic statement, so concurrent
// requests between the same two users cannot both land.
func (r *FriendRequestRepository) Create(ctx context.Context, fr *entity.FriendRequest) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO friend_requests (id, sender_id, recipient_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, fr.ID, fr.SenderID, fr.RecipientID, entity.StatusPending)
	if err := row.Scan(&fr.CreatedAt, &fr.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicatePair
		}
		return err
	}
	fr.Status = entity.StatusPending
	return nil
}

func (r *FriendRequestRepository) GetByID(ctx context.Context, id string) (*entity.FriendRequest, error) {
	fr := &entity.FriendRequest{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, sender_id, recipient_id, status, created_at, updated_at
		FROM friend_requests
		WHERE id = $1
	`, id)
	if err := row.Scan(&fr.ID, &fr.SenderID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return fr, nil
}

// Accept performs the terminal transition. The conditional status flip is
// the commit point; the two friendship inserts are add-if-absent, so a
// crashed or retried accept re-drives them without duplicating anything.
func (r *FriendRequestRepository) Accept(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var senderID, recipientID string
	row := tx.QueryRow(ctx, `
		UPDATE friend_requests
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING sender_id, recipient_id
	`, entity.StatusAccepted, time.Now(), id, entity.StatusPending)
	if err := row.Scan(&senderID, &recipientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// row gone vs. already terminal
			var status entity.RequestStatus
			checkErr := r.pool.QueryRow(ctx, `SELECT status FROM friend_requests WHERE id = $1`, id).Scan(&status)
			if errors.Is(checkErr, pgx.ErrNoRows) {
				return repository.ErrNotFound
			}
			if checkErr != nil {
				return checkErr
			}
			return repository.ErrAlreadyAccepted
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`, senderID, recipientID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const requestWithPeer = `
	SELECT fr.id, fr.sender_id, fr.recipient_id, fr.status, fr.created_at, fr.updated_at,
	       u.id, u.full_name, u.profile_picture, u.native_language, u.learning_language
	FROM friend_requests fr
	JOIN users u ON u.id = `

func (r *FriendRequestRepository) ListIncoming(ctx context.Context, userID string) ([]*entity.FriendRequest, error) {
	return r.list(ctx, requestWithPeer+`fr.sender_id
		WHERE fr.recipient_id = $1 AND fr.status = $2
		ORDER BY fr.created_at DESC`, userID, entity.StatusPending, true)
}

func (r *FriendRequestRepository) ListOutgoing(ctx context.Context, userID string) ([]*entity.FriendRequest, error) {
	return r.list(ctx, requestWithPeer+`fr.recipient_id
		WHERE fr.sender_id = $1 AND fr.status = $2
		ORDER BY fr.created_at DESC`, userID, entity.StatusPending, false)
}

func (r *FriendRequestRepository) ListAcceptedBySender(ctx context.Context, userID string) ([]*entity.FriendRequest, error) {
	return r.list(ctx, requestWithPeer+`fr.recipient_id
		WHERE fr.sender_id = $1 AND fr.status = $2
		ORDER BY fr.updated_at DESC`, userID, entity.StatusAccepted, false)
}

// list runs one of the projection queries above; peerIsSender says which
// side of the request the joined card belongs to.
func (r *FriendRequestRepository) list(ctx context.Context, query, userID string, status entity.RequestStatus, peerIsSender bool) ([]*entity.FriendRequest, error) {
	rows, err := r.pool.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.FriendRequest{}
	for rows.Next() {
		fr := &entity.FriendRequest{}
		card := &entity.UserCard{}
		if err := rows.Scan(&fr.ID, &fr.SenderID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
			&card.ID, &card.FullName, &card.ProfilePicture, &card.NativeLanguage, &card.LearningLanguage); err != nil {
			return nil, err
		}
		if peerIsSender {
			fr.Sender = card
		} else {
			fr.Recipient = card
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

var _ repository.FriendRequestRepository = (*FriendRequestRepository)(nil)
