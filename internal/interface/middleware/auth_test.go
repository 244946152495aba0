package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/testutil"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
)

func authFixture(t *testing.T) (*gin.Engine, *testutil.UserStore, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := testutil.NewUserStore()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	r := gin.New()
	r.GET("/me", Auth(users, jwt), func(c *gin.Context) {
		u := CurrentUser(c)
		require.NotNil(t, u)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "password": u.Password})
	})
	return r, users, jwt
}

func doGet(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthNoToken(t *testing.T) {
	r, _, _ := authFixture(t)

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token")
}

func TestAuthInvalidToken(t *testing.T) {
	r, _, _ := authFixture(t)

	w := doGet(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthExpiredToken(t *testing.T) {
	r, users, _ := authFixture(t)
	expired := helpers.NewJWTManager("test-secret", -time.Second)

	u := &entity.User{ID: "u1", FullName: "Ana", Email: "ana@example.com"}
	require.NoError(t, users.Create(context.Background(), u))

	tok, _, err := expired.Mint(u.ID)
	require.NoError(t, err)

	w := doGet(r, tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthDeletedUser(t *testing.T) {
	r, _, jwt := authFixture(t)

	tok, _, err := jwt.Mint("gone-user")
	require.NoError(t, err)

	w := doGet(r, tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}

func TestAuthResolvesUser(t *testing.T) {
	r, users, jwt := authFixture(t)

	u := &entity.User{ID: "u1", FullName: "Ana", Email: "ana@example.com", Password: "hash"}
	require.NoError(t, users.Create(context.Background(), u))

	tok, _, err := jwt.Mint(u.ID)
	require.NoError(t, err)

	w := doGet(r, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["id"])
	assert.Empty(t, body["password"], "password hash must not reach handlers")
}
