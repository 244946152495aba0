package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/testutil"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
)

type friendFixture struct {
	auth    *AuthService
	friends *FriendService
	users   *testutil.UserStore
}

func newFriendFixture() *friendFixture {
	users := testutil.NewUserStore()
	users.Outbox = testutil.NewOutboxStore()
	logger := discardLogger()
	return &friendFixture{
		auth: &AuthService{
			Users:  users,
			JWT:    helpers.NewJWTManager("test-secret", time.Hour),
			Logger: logger,
		},
		friends: &FriendService{
			Users:    users,
			Requests: testutil.NewRequestStore(users),
			Logger:   logger,
		},
		users: users,
	}
}

// signupOnboarded creates a fully onboarded user and returns its id.
func (f *friendFixture) signupOnboarded(t *testing.T, name, email string) string {
	t.Helper()
	ctx := context.Background()
	u, _, err := f.auth.Signup(ctx, name, email, "secret6")
	require.NoError(t, err)
	_, err = f.auth.Onboard(ctx, u.ID, OnboardInput{
		FullName:         name,
		Bio:              "hello",
		NativeLanguage:   "english",
		LearningLanguage: "spanish",
		Location:         "Madrid",
	})
	require.NoError(t, err)
	return u.ID
}

func TestSendRequest(t *testing.T) {
	f := newFriendFixture()
	ctx := context.Background()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")

	fr, err := f.friends.SendRequest(ctx, ana, ben)
	require.NoError(t, err)
	assert.Equal(t, ana, fr.SenderID)
	assert.Equal(t, ben, fr.RecipientID)
	assert.Equal(t, entity.StatusPending, fr.Status)
}

func TestSendRequestToSelf(t *testing.T) {
	f := newFriendFixture()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")

	_, err := f.friends.SendRequest(context.Background(), ana, ana)
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestSendRequestUnknownRecipient(t *testing.T) {
	f := newFriendFixture()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")

	_, err := f.friends.SendRequest(context.Background(), ana, "missing-id")
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestSendRequestPairIsUndirected(t *testing.T) {
	f := newFriendFixture()
	ctx := context.Background()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")

	_, err := f.friends.SendRequest(ctx, ana, ben)
	require.NoError(t, err)

	// Same direction and reverse direction both conflict.
	_, err = f.friends.SendRequest(ctx, ana, ben)
	assert.ErrorIs(t, err, ErrRequestExists)
	_, err = f.friends.SendRequest(ctx, ben, ana)
	assert.ErrorIs(t, err, ErrRequestExists)
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	f := newFriendFixture()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")
	f.users.Befriend(ana, ben)

	_, err := f.friends.SendRequest(context.Background(), ana, ben)
	assert.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestAcceptRequest(t *testing.T) {
	f := newFriendFixture()
	ctx := context.Background()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")

	fr, err := f.friends.SendRequest(ctx, ana, ben)
	require.NoError(t, err)

	got, err := f.friends.AcceptRequest(ctx, fr.ID, ben)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, got.Status)

	// The friendship is mutual.
	anaFriends, err := f.friends.ListFriends(ctx, ana)
	require.NoError(t, err)
	benFriends, err := f.friends.ListFriends(ctx, ben)
	require.NoError(t, err)
	require.Len(t, anaFriends, 1)
	require.Len(t, benFriends, 1)
	assert.Equal(t, ben, anaFriends[0].ID)
	assert.Equal(t, ana, benFriends[0].ID)
}

func TestAcceptRequestTwice(t *testing.T) {
	f := newFriendFixture()
	ctx := context.Background()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")

	fr, err := f.friends.SendRequest(ctx, ana, ben)
	require.NoError(t, err)

	_, err = f.friends.AcceptRequest(ctx, fr.ID, ben)
	require.NoError(t, err)
	_, err = f.friends.AcceptRequest(ctx, fr.ID, ben)
	assert.ErrorIs(t, err, ErrAlreadyAccepted)
}

func TestAcceptRequestOnlyRecipient(t *testing.T) {
	f := newFriendFixture()
	ctx := context.Background()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")
	cam := f.signupOnboarded(t, "Cam", "cam@example.com")

	fr, err := f.friends.SendRequest(ctx, ana, ben)
	require.NoError(t, err)

	// Neither the sender nor a third party may accept.
	_, err = f.friends.AcceptRequest(ctx, fr.ID, ana)
	assert.ErrorIs(t, err, ErrNotRecipient)
	_, err = f.friends.AcceptRequest(ctx, fr.ID, cam)
	assert.ErrorIs(t, err, ErrNotRecipient)

	got, err := f.friends.Requests.GetByID(ctx, fr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
}

func TestAcceptRequestUnknown(t *testing.T) {
	f := newFriendFixture()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")

	_, err := f.friends.AcceptRequest(context.Background(), "missing-id", ana)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRecommend(t *testing.T) {
	f := newFriendFixture()
	ctx := context.Background()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")
	cam := f.signupOnboarded(t, "Cam", "cam@example.com")
	f.users.Befriend(ana, ben)

	// Dan signed up but never onboarded.
	dan, _, err := f.auth.Signup(ctx, "Dan", "dan@example.com", "secret6")
	require.NoError(t, err)

	got, err := f.friends.Recommend(ctx, ana)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{cam}, ids)
	assert.NotContains(t, ids, ana, "self is excluded")
	assert.NotContains(t, ids, ben, "friends are excluded")
	assert.NotContains(t, ids, dan.ID, "non-onboarded users are excluded")
}

func TestListIncomingAndOutgoing(t *testing.T) {
	f := newFriendFixture()
	ctx := context.Background()
	ana := f.signupOnboarded(t, "Ana", "ana@example.com")
	ben := f.signupOnboarded(t, "Ben", "ben@example.com")
	cam := f.signupOnboarded(t, "Cam", "cam@example.com")

	// Ben -> Ana stays pending, Ana -> Cam gets accepted.
	pending, err := f.friends.SendRequest(ctx, ben, ana)
	require.NoError(t, err)
	sent, err := f.friends.SendRequest(ctx, ana, cam)
	require.NoError(t, err)
	_, err = f.friends.AcceptRequest(ctx, sent.ID, cam)
	require.NoError(t, err)

	incoming, accepted, err := f.friends.ListIncoming(ctx, ana)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, pending.ID, incoming[0].ID)
	require.NotNil(t, incoming[0].Sender)
	assert.Equal(t, "Ben", incoming[0].Sender.FullName)
	require.Len(t, accepted, 1)
	assert.Equal(t, sent.ID, accepted[0].ID)
	require.NotNil(t, accepted[0].Recipient)
	assert.Equal(t, "Cam", accepted[0].Recipient.FullName)

	// Ben still sees his request as outgoing; Ana's accepted one is gone.
	outgoing, err := f.friends.ListOutgoing(ctx, ben)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, pending.ID, outgoing[0].ID)

	outgoing, err = f.friends.ListOutgoing(ctx, ana)
	require.NoError(t, err)
	assert.Empty(t, outgoing)
}
