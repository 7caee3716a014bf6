package notify

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperr"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/testutil"
)

var (
	testDB         *gorm.DB
	testDispatcher *Dispatcher
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, db, err := testutil.Start(ctx)
	if err != nil {
		log.Fatalf("test database: %v", err)
	}

	testDB = db
	testDispatcher = NewDispatcher(db)

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestNotifyAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	u := testutil.CreateUser(t, testDB, "reader")

	require.NoError(t, testDispatcher.Notify(ctx, u.ID, models.KindQuestionAnswered, "first", "/questions/1"))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, testDispatcher.Notify(ctx, u.ID, models.KindAnswerAccepted, "second", "/questions/2"))

	inbox, err := testDispatcher.List(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, inbox.TotalCount)
	require.EqualValues(t, 2, inbox.UnreadCount)
	require.Len(t, inbox.Notifications, 2)
	require.Equal(t, "second", inbox.Notifications[0].Message)
	require.Equal(t, "first", inbox.Notifications[1].Message)
}

// Identical events are appended, never deduplicated.
func TestNotifyNoDeduplication(t *testing.T) {
	ctx := context.Background()
	u := testutil.CreateUser(t, testDB, "dup")

	for i := 0; i < 3; i++ {
		require.NoError(t, testDispatcher.Notify(ctx, u.ID, models.KindQuestionAnswered, "same event", "/questions/9"))
	}

	inbox, err := testDispatcher.List(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, inbox.TotalCount)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	u := testutil.CreateUser(t, testDB, "marker")
	require.NoError(t, testDispatcher.Notify(ctx, u.ID, models.KindAnswerAccepted, "accepted", ""))

	inbox, err := testDispatcher.List(ctx, u.ID)
	require.NoError(t, err)
	id := inbox.Notifications[0].ID

	require.NoError(t, testDispatcher.MarkRead(ctx, u.ID, id))
	// Marking again is a no-op success
	require.NoError(t, testDispatcher.MarkRead(ctx, u.ID, id))

	inbox, err = testDispatcher.List(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, inbox.UnreadCount)
	require.True(t, inbox.Notifications[0].Read)

	err = testDispatcher.MarkRead(ctx, u.ID, 999999)
	require.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestMarkReadCrossUserForbidden(t *testing.T) {
	ctx := context.Background()
	owner := testutil.CreateUser(t, testDB, "owner")
	intruder := testutil.CreateUser(t, testDB, "intruder")
	require.NoError(t, testDispatcher.Notify(ctx, owner.ID, models.KindPlatformMessage, "hello", ""))

	inbox, err := testDispatcher.List(ctx, owner.ID)
	require.NoError(t, err)
	id := inbox.Notifications[0].ID

	err = testDispatcher.MarkRead(ctx, intruder.ID, id)
	require.True(t, apperr.Is(err, apperr.CodeForbidden))

	err = testDispatcher.Delete(ctx, intruder.ID, id)
	require.True(t, apperr.Is(err, apperr.CodeForbidden))
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	u := testutil.CreateUser(t, testDB, "markall")

	for i := 0; i < 3; i++ {
		require.NoError(t, testDispatcher.Notify(ctx, u.ID, models.KindQuestionAnswered, "msg", ""))
	}

	updated, err := testDispatcher.MarkAllRead(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, updated)

	// Second pass has nothing left to update
	updated, err = testDispatcher.MarkAllRead(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, updated)

	unread, err := testDispatcher.ListUnread(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, unread)
}

// Scenario D: delete removes the notification; deleting it again is NotFound.
func TestDeleteIdempotence(t *testing.T) {
	ctx := context.Background()
	u := testutil.CreateUser(t, testDB, "deleter")
	require.NoError(t, testDispatcher.Notify(ctx, u.ID, models.KindAnswerAccepted, "n1", ""))

	inbox, err := testDispatcher.List(ctx, u.ID)
	require.NoError(t, err)
	id := inbox.Notifications[0].ID

	require.NoError(t, testDispatcher.Delete(ctx, u.ID, id))

	inbox, err = testDispatcher.List(ctx, u.ID)
	require.NoError(t, err)
	for _, n := range inbox.Notifications {
		require.NotEqual(t, id, n.ID)
	}

	err = testDispatcher.Delete(ctx, u.ID, id)
	require.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	u := testutil.CreateUser(t, testDB, "clearer")

	for i := 0; i < 4; i++ {
		require.NoError(t, testDispatcher.Notify(ctx, u.ID, models.KindPlatformMessage, "msg", ""))
	}

	deleted, err := testDispatcher.ClearAll(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 4, deleted)

	inbox, err := testDispatcher.List(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, inbox.TotalCount)
}

func TestBroadcastSkipsBannedUsers(t *testing.T) {
	ctx := context.Background()
	active := testutil.CreateUser(t, testDB, "active")
	banned := testutil.CreateUser(t, testDB, "banned")
	require.NoError(t, testDB.Model(&models.User{}).Where("id = ?", banned.ID).Update("banned", true).Error)

	before, err := testDispatcher.List(ctx, active.ID)
	require.NoError(t, err)

	_, err = testDispatcher.Broadcast(ctx, "maintenance tonight", "/status")
	require.NoError(t, err)

	after, err := testDispatcher.List(ctx, active.ID)
	require.NoError(t, err)
	require.EqualValues(t, before.TotalCount+1, after.TotalCount)
	require.Equal(t, models.KindPlatformMessage, after.Notifications[0].Kind)

	bannedInbox, err := testDispatcher.List(ctx, banned.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, bannedInbox.TotalCount)
}
