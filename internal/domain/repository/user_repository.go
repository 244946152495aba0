package repository

import (
	"context"
	"errors"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
)

// Store-level sentinels. Repository implementations translate driver errors
// into these so services never see driver types.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already taken")
	ErrDuplicatePair  = errors.New("friend request already exists for pair")
)

// UserRepository defines the persistence contract for user records.
// Email lookups are case-insensitive; uniqueness is enforced by the store,
// not by a read-then-write check.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateProfile persists the mutable profile fields (never email or
	// password hash) and re-marks the user's chat-sync obligation in the
	// same transaction.
	UpdateProfile(ctx context.Context, u *entity.User) error
	// ListRecommended returns onboarded users excluding userID and anyone
	// already in userID's friend set, in a deterministic order.
	ListRecommended(ctx context.Context, userID string) ([]*entity.User, error)
	// ListFriends resolves userID's friend set to public cards.
	ListFriends(ctx context.Context, userID string) ([]*entity.UserCard, error)
}
