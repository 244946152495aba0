package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/chatdir"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/mailer"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/validation"
)

// presetAvatarCount is the size of the preset avatar set; signup picks one
// uniformly at random.
const presetAvatarCount = 100

// AuthService owns signup, login, onboarding, and avatar management.
// Logout is client-side only: sessions are stateless, so the server holds
// nothing to revoke.
type AuthService struct {
	Users     repository.UserRepository
	JWT       *helpers.JWTManager
	SyncPub   *helpers.RabbitPublisher
	EmailPub  *helpers.RabbitPublisher
	Redis     *redis.Client
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, syncPub, emailPub *helpers.RabbitPublisher, rdb *redis.Client, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:     users,
		JWT:       jwt,
		SyncPub:   syncPub,
		EmailPub:  emailPub,
		Redis:     rdb,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
	}
}

// Session is a freshly minted token together with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Signup validates the input, creates the user record (with a pending
// chat-sync marker committed alongside it), queues the directory sync and
// welcome email, and mints a session token.
//
// Directory synchronization is asynchronous: a committed signup is never
// reported as failed because the external collaborator is down.
func (s *AuthService) Signup(ctx context.Context, fullName, email, password string) (*entity.User, Session, error) {
	if v := validateSignup(fullName, email, password); v != nil {
		return nil, Session{}, v
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, Session{}, err
	}

	u := &entity.User{
		ID:             uuid.NewString(),
		FullName:       fullName,
		Email:          email,
		Password:       hash,
		ProfilePicture: randomAvatar(),
		Friends:        []string{},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, Session{}, ErrEmailTaken
		}
		return nil, Session{}, err
	}

	s.queueChatSync(ctx, u.ID)
	s.queueWelcomeEmail(ctx, u)

	sess, err := s.mintSession(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

func validateSignup(fullName, email, password string) error {
	if strings.TrimSpace(fullName) == "" {
		return &ValidationError{Field: "fullName", Message: "is required"}
	}
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	if len(password) < 6 {
		return &ValidationError{Field: "password", Message: "must be at least 6 characters long"}
	}
	if !validation.ValidEmail(email) {
		return &ValidationError{Field: "email", Message: "must be a valid email"}
	}
	return nil
}

func randomAvatar() string {
	idx := rand.Intn(presetAvatarCount) + 1
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", idx)
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, Session, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Session{}, ErrInvalidCredentials
		}
		return nil, Session{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, Session{}, ErrInvalidCredentials
	}
	sess, err := s.mintSession(u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

func (s *AuthService) mintSession(userID string) (Session, error) {
	tok, exp, err := s.JWT.Mint(userID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, ExpiresAt: exp}, nil
}

type OnboardInput struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
}

func (in OnboardInput) validate() error {
	fields := []struct{ name, value string }{
		{"fullName", in.FullName},
		{"bio", in.Bio},
		{"nativeLanguage", in.NativeLanguage},
		{"learningLanguage", in.LearningLanguage},
		{"location", in.Location},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Message: "is required"}
		}
	}
	return nil
}

// Onboard fills the mandatory profile fields and flags the user as
// onboarded, then re-queues the directory sync with the new display name.
func (s *AuthService) Onboard(ctx context.Context, userID string, in OnboardInput) (*entity.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	u.FullName = in.FullName
	u.Bio = in.Bio
	u.NativeLanguage = in.NativeLanguage
	u.LearningLanguage = in.LearningLanguage
	u.Location = in.Location
	u.IsOnboarded = true

	if err := s.saveProfile(ctx, u); err != nil {
		return nil, err
	}

	s.invalidateRecommendCache(ctx, u.ID)
	return u, nil
}

// UploadAvatar stores a new profile picture in GCS, updates the record, and
// re-queues the directory sync so the chat provider picks up the new image.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("avatar storage not configured")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}

	u.ProfilePicture = url
	if err := s.saveProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// saveProfile persists the profile fields and queues the directory sync.
// The pending marker is committed inside the repository's update
// transaction; publishing afterwards is best-effort.
func (s *AuthService) saveProfile(ctx context.Context, u *entity.User) error {
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.queueChatSync(ctx, u.ID)
	return nil
}

// queueChatSync publishes the sync job best-effort. The durable marker was
// already committed with the triggering write; a failed publish only logs,
// and the worker's re-drive loop picks the marker up.
func (s *AuthService) queueChatSync(ctx context.Context, userID string) {
	if s.SyncPub == nil {
		return
	}
	if err := s.SyncPub.PublishJSON(ctx, chatdir.SyncMessage{UserID: userID}); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("chat sync: publish failed, relying on re-drive")
	}
}

func (s *AuthService) queueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.EmailPub == nil {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "Welcome aboard",
		Text:    "Hi " + u.FullName + ",\n\nYour account is ready. Complete your profile to start meeting language partners.",
	}
	if err := s.EmailPub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email: publish failed")
	}
}

func (s *AuthService) invalidateRecommendCache(ctx context.Context, userIDs ...string) {
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
