package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
)

// recommendCacheTTL keeps the recommended-users list cheap to serve while
// staying stale for at most a minute after someone onboards.
const recommendCacheTTL = time.Minute

func recommendKey(userID string) string {
	return "user:recommend:" + userID
}

// FriendService is the friend-request state machine plus the read side of
// the relationship graph. Every caller identity has already passed the
// session guard.
type FriendService struct {
	Users    repository.UserRepository
	Requests repository.FriendRequestRepository
	Redis    *redis.Client
	Logger   *logrus.Logger
}

func NewFriendService(users repository.UserRepository, requests repository.FriendRequestRepository, rdb *redis.Client, logger *logrus.Logger) *FriendService {
	return &FriendService{Users: users, Requests: requests, Redis: rdb, Logger: logger}
}

// Recommend returns onboarded users the current user is not already friends
// with, excluding the user themselves. Results are cached per user for a
// short TTL; a nil Redis client bypasses the cache.
func (s *FriendService) Recommend(ctx context.Context, currentUserID string) ([]*entity.User, error) {
	if s.Redis != nil {
		var cached []*entity.User
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, recommendKey(currentUserID), &cached); err == nil && ok {
			return cached, nil
		}
	}

	users, err := s.Users.ListRecommended(ctx, currentUserID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, recommendKey(currentUserID), users, recommendCacheTTL); err != nil {
			s.Logger.WithError(err).WithField("user_id", currentUserID).Warn("recommend cache write failed")
		}
	}
	return users, nil
}

// ListFriends resolves the caller's friend set to public cards.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*entity.UserCard, error) {
	return s.Users.ListFriends(ctx, userID)
}

// SendRequest creates a pending friend request from sender to recipient.
// The undirected-pair dedup is enforced by the store's conditional insert;
// the pre-checks here only produce friendlier errors for the common cases.
func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID string) (*entity.FriendRequest, error) {
	if senderID == recipientID {
		return nil, ErrSelfRequest
	}

	recipient, err := s.Users.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if recipient.HasFriend(senderID) {
		return nil, ErrAlreadyFriends
	}

	fr := &entity.FriendRequest{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
	}
	if err := s.Requests.Create(ctx, fr); err != nil {
		if errors.Is(err, repository.ErrDuplicatePair) {
			return nil, ErrRequestExists
		}
		return nil, err
	}
	return fr, nil
}

// AcceptRequest performs the pending -> accepted transition and makes the
// friendship mutual. Only the recipient may accept; a second accept on the
// same id is a conflict, not a no-op.
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, actingUserID string) (*entity.FriendRequest, error) {
	fr, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if fr.RecipientID != actingUserID {
		return nil, ErrNotRecipient
	}
	if fr.Status == entity.StatusAccepted {
		return nil, ErrAlreadyAccepted
	}

	if err := s.Requests.Accept(ctx, requestID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyAccepted):
			return nil, ErrAlreadyAccepted
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRequestNotFound
		default:
			return nil, err
		}
	}
	fr.Status = entity.StatusAccepted

	s.invalidateRecommendCache(ctx, fr.SenderID, fr.RecipientID)
	return fr, nil
}

// ListIncoming returns pending requests addressed to the user together with
// the historical requests the user sent that were accepted. The two lists
// back the notifications view.
func (s *FriendService) ListIncoming(ctx context.Context, userID string) (incoming, accepted []*entity.FriendRequest, err error) {
	incoming, err = s.Requests.ListIncoming(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	accepted, err = s.Requests.ListAcceptedBySender(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return incoming, accepted, nil
}

// ListOutgoing returns the user's pending sent requests.
func (s *FriendService) ListOutgoing(ctx context.Context, userID string) ([]*entity.FriendRequest, error) {
	return s.Requests.ListOutgoing(ctx, userID)
}

func (s *FriendService) invalidateRecommendCache(ctx context.Context, userIDs ...string) {
	if s.Redis == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = recommendKey(id)
	}
	if err := helpers.RedisDel(ctx, s.Redis, keys...); err != nil {
		s.Logger.WithError(err).Warn("recommend cache invalidation failed")
	}
}
