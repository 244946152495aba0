package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/testutil"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/chatdir"
)

func newSyncWorker(t *testing.T, directoryStatus int) (*worker, *testutil.UserStore, *testutil.OutboxStore, *int) {
	t.Helper()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(directoryStatus)
	}))
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	outbox := testutil.NewOutboxStore()
	users := testutil.NewUserStore()
	users.Outbox = outbox

	w := &worker{
		logger:    logger,
		users:     users,
		outbox:    outbox,
		directory: chatdir.NewClient("key", "secret", srv.URL),
	}
	return w, users, outbox, &calls
}

func TestSyncUser(t *testing.T) {
	w, users, outbox, calls := newSyncWorker(t, http.StatusCreated)
	ctx := context.Background()

	u := &entity.User{ID: "u1", FullName: "Ana", ProfilePicture: "https://example.com/a.png"}
	require.NoError(t, users.Create(ctx, u))
	require.True(t, outbox.Pending("u1"))

	require.NoError(t, w.syncUser(ctx, "u1"))
	assert.Equal(t, 1, *calls)
	assert.False(t, outbox.Pending("u1"), "marker resolved after a successful upsert")
}

func TestSyncUserDirectoryDown(t *testing.T) {
	w, users, outbox, _ := newSyncWorker(t, http.StatusInternalServerError)
	ctx := context.Background()

	u := &entity.User{ID: "u1", FullName: "Ana"}
	require.NoError(t, users.Create(ctx, u))

	require.Error(t, w.syncUser(ctx, "u1"))
	assert.True(t, outbox.Pending("u1"), "marker survives for the re-drive loop")
}

func TestSyncUserDeletedAccount(t *testing.T) {
	w, _, outbox, calls := newSyncWorker(t, http.StatusCreated)
	ctx := context.Background()

	// Marker exists but the account is gone: resolve without calling out.
	require.NoError(t, outbox.MarkPending(ctx, "ghost"))
	require.NoError(t, w.syncUser(ctx, "ghost"))
	assert.Equal(t, 0, *calls)
	assert.False(t, outbox.Pending("ghost"))
}

func TestListStalePendingCutoff(t *testing.T) {
	outbox := testutil.NewOutboxStore()
	ctx := context.Background()

	require.NoError(t, outbox.MarkPending(ctx, "u1"))

	// A marker younger than the cutoff is not yet stale.
	jobs, err := outbox.ListStalePending(ctx, time.Now().Add(-time.Minute), 100)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	jobs, err = outbox.ListStalePending(ctx, time.Now().Add(time.Minute), 100)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "u1", jobs[0].UserID)
}
