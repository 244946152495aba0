package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/testutil"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
)

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthService() (*AuthService, *testutil.UserStore, *testutil.OutboxStore) {
	outbox := testutil.NewOutboxStore()
	users := testutil.NewUserStore()
	users.Outbox = outbox
	svc := &AuthService{
		Users:  users,
		JWT:    helpers.NewJWTManager("test-secret", time.Hour),
		Logger: discardLogger(),
	}
	return svc, users, outbox
}

func TestSignup(t *testing.T) {
	svc, users, outbox := newAuthService()
	ctx := context.Background()

	u, sess, err := svc.Signup(ctx, "Ana Lima", "ana@example.com", "secret6")
	require.NoError(t, err)
	require.NotNil(t, u)

	// The minted token resolves back to the created user.
	gotID, err := svc.JWT.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, gotID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", stored.FullName)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.False(t, stored.IsOnboarded)
	assert.Contains(t, stored.ProfilePicture, "avatar.iran.liara.run")

	// Only the hash is stored.
	assert.NotEqual(t, "secret6", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "secret6"))

	// The directory sync marker is committed with the user.
	assert.True(t, outbox.Pending(u.ID))
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	first, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "secret6")
	require.NoError(t, err)

	// Exact duplicate and case-variant duplicate both conflict.
	for _, email := range []string{"ana@example.com", "ANA@Example.COM"} {
		_, _, err = svc.Signup(ctx, "Other", email, "secret6")
		assert.ErrorIs(t, err, ErrEmailTaken, "email %q", email)
	}

	// The original record is untouched.
	stored, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Ana", stored.FullName)
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	cases := []struct {
		name      string
		fullName  string
		email     string
		password  string
		wantField string
	}{
		{"missing name", "", "ana@example.com", "secret6", "fullName"},
		{"missing email", "Ana", "", "secret6", "email"},
		{"missing password", "Ana", "ana@example.com", "", "password"},
		{"short password", "Ana", "ana@example.com", "12345", "password"},
		{"bad email", "Ana", "not-an-email", "secret6", "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tc.fullName, tc.email, tc.password)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}

	// Six characters is the boundary.
	_, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "123456")
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "secret6")
	require.NoError(t, err)

	got, sess, err := svc.Login(ctx, "ana@example.com", "secret6")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	gotID, err := svc.JWT.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, gotID)
}

func TestLoginFailureIsUndifferentiated(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "secret6")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "ana@example.com", "wrong-password")
	_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret6")

	// Wrong password and unknown email are indistinguishable.
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestOnboard(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "secret6")
	require.NoError(t, err)

	in := OnboardInput{
		FullName:         "Ana Lima",
		Bio:              "Learning Italian",
		NativeLanguage:   "portuguese",
		LearningLanguage: "italian",
		Location:         "Lisbon",
	}
	got, err := svc.Onboard(ctx, u.ID, in)
	require.NoError(t, err)
	assert.True(t, got.IsOnboarded)
	assert.Equal(t, "Ana Lima", got.FullName)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOnboarded)
	assert.Equal(t, "italian", stored.LearningLanguage)
	assert.Equal(t, "Lisbon", stored.Location)
}

func TestOnboardRemarksChatSync(t *testing.T) {
	svc, _, outbox := newAuthService()
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "secret6")
	require.NoError(t, err)
	require.True(t, outbox.Pending(u.ID))

	// The worker mirrored the signup; the marker is resolved.
	require.NoError(t, outbox.MarkSynced(ctx, u.ID))
	require.False(t, outbox.Pending(u.ID))

	_, err = svc.Onboard(ctx, u.ID, OnboardInput{
		FullName:         "Ana Lima",
		Bio:              "Learning Italian",
		NativeLanguage:   "portuguese",
		LearningLanguage: "italian",
		Location:         "Lisbon",
	})
	require.NoError(t, err)

	// The renamed profile committed with a fresh marker, so the re-drive
	// loop finds it even if the publish never happened.
	assert.True(t, outbox.Pending(u.ID))
}

func TestOnboardKeepsPasswordHash(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "secret6")
	require.NoError(t, err)

	before, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)

	_, err = svc.Onboard(ctx, u.ID, OnboardInput{
		FullName:         "Ana Lima",
		Bio:              "Learning Italian",
		NativeLanguage:   "portuguese",
		LearningLanguage: "italian",
		Location:         "Lisbon",
	})
	require.NoError(t, err)

	// The profile update leaves the hash column alone: the original
	// password still authenticates and the stored hash is byte-identical.
	after, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password)

	_, _, err = svc.Login(ctx, "ana@example.com", "secret6")
	require.NoError(t, err)
}

func TestSaveProfileDeletedUser(t *testing.T) {
	svc, _, _ := newAuthService()

	// Account vanished between the read and the write.
	err := svc.saveProfile(context.Background(), &entity.User{ID: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOnboardValidation(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	u, _, err := svc.Signup(ctx, "Ana", "ana@example.com", "secret6")
	require.NoError(t, err)

	in := OnboardInput{
		FullName:         "Ana Lima",
		Bio:              "Learning Italian",
		NativeLanguage:   "portuguese",
		LearningLanguage: "",
		Location:         "Lisbon",
	}
	_, err = svc.Onboard(ctx, u.ID, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "learningLanguage", verr.Field)

	stored, err := svc.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOnboarded)
}

func TestOnboardUnknownUser(t *testing.T) {
	svc, _, _ := newAuthService()

	in := OnboardInput{
		FullName:         "Ana",
		Bio:              "bio",
		NativeLanguage:   "portuguese",
		LearningLanguage: "italian",
		Location:         "Lisbon",
	}
	_, err := svc.Onboard(context.Background(), "missing-id", in)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
