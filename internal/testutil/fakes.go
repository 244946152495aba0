// Package testutil provides in-memory repository implementations for unit
// tests. They mirror the store-level guarantees the SQL schema provides:
// case-insensitive email uniqueness, undirected pair uniqueness, terminal
// accept transitions, and add-if-absent friendship inserts.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
)

type UserStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User

	// Outbox, when set, receives a pending marker on Create and
	// UpdateProfile, matching the single-transaction writes the SQL
	// repository does.
	Outbox *OutboxStore
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.Friends = append([]string{}, u.Friends...)
	return &cp
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	s.seq++
	u.CreatedAt = time.Unix(int64(s.seq), 0)
	u.UpdatedAt = u.CreatedAt
	if u.Friends == nil {
		u.Friends = []string{}
	}
	s.users[u.ID] = cloneUser(u)
	if s.Outbox != nil {
		_ = s.Outbox.MarkPending(context.Background(), u.ID)
	}
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) UpdateProfile(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.FullName = u.FullName
	existing.ProfilePicture = u.ProfilePicture
	existing.Bio = u.Bio
	existing.IsOnboarded = u.IsOnboarded
	existing.NativeLanguage = u.NativeLanguage
	existing.LearningLanguage = u.LearningLanguage
	existing.Location = u.Location
	existing.UpdatedAt = time.Now()
	if s.Outbox != nil {
		_ = s.Outbox.MarkPending(context.Background(), u.ID)
	}
	return nil
}

func (s *UserStore) ListRecommended(_ context.Context, userID string) ([]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	me, ok := s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := []*entity.User{}
	for _, u := range s.users {
		if u.ID == userID || !u.IsOnboarded || me.HasFriend(u.ID) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *UserStore) ListFriends(_ context.Context, userID string) ([]*entity.UserCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	me, ok := s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cards := []*entity.UserCard{}
	for _, id := range me.Friends {
		if f, ok := s.users[id]; ok {
			cards = append(cards, f.Card())
		}
	}
	return cards, nil
}

// Befriend links both users directly, bypassing the request flow.
func (s *UserStore) Befriend(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addFriend(a, b)
	s.addFriend(b, a)
}

// addFriend is add-if-absent, matching ON CONFLICT DO NOTHING.
func (s *UserStore) addFriend(userID, friendID string) {
	u, ok := s.users[userID]
	if !ok || u.HasFriend(friendID) {
		return
	}
	u.Friends = append(u.Friends, friendID)
}

var _ repository.UserRepository = (*UserStore)(nil)

type RequestStore struct {
	mu       sync.Mutex
	users    *UserStore
	requests map[string]*entity.FriendRequest
}

func NewRequestStore(users *UserStore) *RequestStore {
	return &RequestStore{users: users, requests: map[string]*entity.FriendRequest{}}
}

func cloneRequest(fr *entity.FriendRequest) *entity.FriendRequest {
	cp := *fr
	return &cp
}

func (s *RequestStore) Create(_ context.Context, fr *entity.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		samePair := (existing.SenderID == fr.SenderID && existing.RecipientID == fr.RecipientID) ||
			(existing.SenderID == fr.RecipientID && existing.RecipientID == fr.SenderID)
		if samePair {
			return repository.ErrDuplicatePair
		}
	}
	fr.Status = entity.StatusPending
	fr.CreatedAt = time.Now()
	fr.UpdatedAt = fr.CreatedAt
	s.requests[fr.ID] = cloneRequest(fr)
	return nil
}

func (s *RequestStore) GetByID(_ context.Context, id string) (*entity.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fr, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneRequest(fr), nil
}

func (s *RequestStore) Accept(_ context.Context, id string) error {
	s.mu.Lock()
	fr, ok := s.requests[id]
	if !ok {
		s.mu.Unlock()
		return repository.ErrNotFound
	}
	if fr.Status != entity.StatusPending {
		s.mu.Unlock()
		return repository.ErrAlreadyAccepted
	}
	fr.Status = entity.StatusAccepted
	fr.UpdatedAt = time.Now()
	sender, recipient := fr.SenderID, fr.RecipientID
	s.mu.Unlock()

	s.users.Befriend(sender, recipient)
	return nil
}

func (s *RequestStore) ListIncoming(_ context.Context, userID string) ([]*entity.FriendRequest, error) {
	return s.filter(func(fr *entity.FriendRequest) (bool, bool) {
		return fr.RecipientID == userID && fr.Status == entity.StatusPending, true
	})
}

func (s *RequestStore) ListOutgoing(_ context.Context, userID string) ([]*entity.FriendRequest, error) {
	return s.filter(func(fr *entity.FriendRequest) (bool, bool) {
		return fr.SenderID == userID && fr.Status == entity.StatusPending, false
	})
}

func (s *RequestStore) ListAcceptedBySender(_ context.Context, userID string) ([]*entity.FriendRequest, error) {
	return s.filter(func(fr *entity.FriendRequest) (bool, bool) {
		return fr.SenderID == userID && fr.Status == entity.StatusAccepted, false
	})
}

func (s *RequestStore) filter(match func(*entity.FriendRequest) (keep bool, peerIsSender bool)) ([]*entity.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.FriendRequest{}
	for _, fr := range s.requests {
		keep, peerIsSender := match(fr)
		if !keep {
			continue
		}
		cp := cloneRequest(fr)
		peerID := cp.SenderID
		if !peerIsSender {
			peerID = cp.RecipientID
		}
		if peer, ok := s.users.users[peerID]; ok {
			if peerIsSender {
				cp.Sender = peer.Card()
			} else {
				cp.Recipient = peer.Card()
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ repository.FriendRequestRepository = (*RequestStore)(nil)

type OutboxStore struct {
	mu   sync.Mutex
	jobs map[string]*entity.ChatSyncJob
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{jobs: map[string]*entity.ChatSyncJob{}}
}

// MarkPending mirrors the marker upsert the user store folds into its
// writes; worker tests also use it to stage markers directly.
func (s *OutboxStore) MarkPending(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[userID] = &entity.ChatSyncJob{UserID: userID, UpdatedAt: time.Now()}
	return nil
}

func (s *OutboxStore) MarkSynced(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[userID]; ok {
		now := time.Now()
		j.SyncedAt = &now
		j.UpdatedAt = now
	}
	return nil
}

func (s *OutboxStore) ListStalePending(_ context.Context, cutoff time.Time, limit int) ([]*entity.ChatSyncJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.ChatSyncJob{}
	for _, j := range s.jobs {
		if j.SyncedAt == nil && j.UpdatedAt.Before(cutoff) && len(out) < limit {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Pending reports whether userID currently has an unsynced marker.
func (s *OutboxStore) Pending(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[userID]
	return ok && j.SyncedAt == nil
}

var _ repository.ChatSyncRepository = (*OutboxStore)(nil)
