package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
)

type ChatSyncRepository struct {
	pool *pgxpool.Pool
}

func NewChatSyncRepository(pool *pgxpool.Pool) *ChatSyncRepository {
	return &ChatSyncRepository{pool: pool}
}

func (r *ChatSyncRepository) MarkSynced(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE chat_sync_outbox
		SET synced_at = now(), updated_at = now()
		WHERE user_id = $1
	`, userID)
	return err
}

func (r *ChatSyncRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.ChatSyncJob, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE chat_sync_outbox
		SET attempts = attempts + 1, updated_at = now()
		WHERE user_id IN (
			SELECT user_id FROM chat_sync_outbox
			WHERE synced_at IS NULL AND updated_at < $1
			ORDER BY updated_at
			LIMIT $2
		)
		RETURNING user_id, attempts, synced_at, updated_at
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*entity.ChatSyncJob{}
	for rows.Next() {
		j := &entity.ChatSyncJob{}
		if err := rows.Scan(&j.UserID, &j.Attempts, &j.SyncedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

var _ repository.ChatSyncRepository = (*ChatSyncRepository)(nil)
