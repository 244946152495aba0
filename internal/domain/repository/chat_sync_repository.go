package repository

import (
	"context"
	"time"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
)

// ChatSyncRepository is the worker's side of the chat-directory outbox.
// Pending markers are never written through this interface: every user
// write that makes the directory stale upserts its marker inside the same
// transaction (see UserRepository.Create and UpdateProfile).
type ChatSyncRepository interface {
	MarkSynced(ctx context.Context, userID string) error
	// ListStalePending returns unsynced rows untouched since the cutoff,
	// oldest first, for the worker's re-drive loop.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.ChatSyncJob, error)
}
