package repository

import (
	"context"
	"errors"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
)

// ErrAlreadyAccepted is returned by Accept when the request left the
// pending state before this call: the transition is terminal.
var ErrAlreadyAccepted = errors.New("friend request already accepted")

// FriendRequestRepository defines the persistence contract for the friend
// request state machine.
type FriendRequestRepository interface {
	// Create inserts a pending request. The store holds a uniqueness
	// constraint over the unordered {sender, recipient} pair, so two racing
	// inserts (in either direction) cannot both succeed; the loser gets
	// ErrDuplicatePair.
	Create(ctx context.Context, fr *entity.FriendRequest) error
	GetByID(ctx context.Context, id string) (*entity.FriendRequest, error)
	// Accept flips the request to accepted and inserts both directions of
	// the friendship in one transaction. The status flip is conditional on
	// the row still being pending (the commit point); the friendship
	// inserts are add-if-absent so a retry re-drives them safely.
	Accept(ctx context.Context, id string) error
	// ListIncoming: pending requests addressed to userID, sender projected.
	ListIncoming(ctx context.Context, userID string) ([]*entity.FriendRequest, error)
	// ListOutgoing: pending requests sent by userID, recipient projected.
	ListOutgoing(ctx context.Context, userID string) ([]*entity.FriendRequest, error)
	// ListAcceptedBySender: historical requests userID sent that were
	// accepted, recipient projected.
	ListAcceptedBySender(ctx context.Context, userID string) ([]*entity.FriendRequest, error)
}
