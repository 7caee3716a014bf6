package qa

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackit-dev/stackit/backend/internal/apperr"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/testutil"
)

func notificationsFor(t *testing.T, userID int) []models.Notification {
	t.Helper()
	var ns []models.Notification
	require.NoError(t, testDB.Where("recipient_id = ?", userID).Find(&ns).Error)
	return ns
}

// Scenario B: accept notifies the answer author only, and the transition is
// one-shot even for a different answer.
func TestAcceptAnswer(t *testing.T) {
	ctx := context.Background()
	u1 := testutil.CreateUser(t, testDB, "asker")
	u2 := testutil.CreateUser(t, testDB, "answerer1")
	u3 := testutil.CreateUser(t, testDB, "answerer2")

	q1 := testutil.CreateQuestion(t, testDB, u1.ID, "scenario b")
	a1 := testutil.CreateAnswer(t, testDB, q1.ID, u2.ID)
	a2 := testutil.CreateAnswer(t, testDB, q1.ID, u3.ID)

	require.NoError(t, testService.AcceptAnswer(ctx, q1.ID, a1.ID, u1.ID))

	var got models.Question
	require.NoError(t, testDB.First(&got, q1.ID).Error)
	require.NotNil(t, got.AcceptedAnswerID)
	require.Equal(t, a1.ID, *got.AcceptedAnswerID)

	// u2 is notified, u3 is not
	u2Notes := notificationsFor(t, u2.ID)
	require.Len(t, u2Notes, 1)
	require.Equal(t, models.KindAnswerAccepted, u2Notes[0].Kind)
	require.False(t, u2Notes[0].Read)
	require.Empty(t, notificationsFor(t, u3.ID))

	// Accepting a different answer afterwards is rejected, not overwritten
	err := testService.AcceptAnswer(ctx, q1.ID, a2.ID, u1.ID)
	require.True(t, apperr.Is(err, apperr.CodeAlreadyAccepted))

	require.NoError(t, testDB.First(&got, q1.ID).Error)
	require.Equal(t, a1.ID, *got.AcceptedAnswerID)
}

// Scenario C: anyone but the question author is refused, including the
// answer's own author.
func TestAcceptAnswerForbidden(t *testing.T) {
	ctx := context.Background()
	u1 := testutil.CreateUser(t, testDB, "asker")
	u2 := testutil.CreateUser(t, testDB, "answerer")

	q1 := testutil.CreateQuestion(t, testDB, u1.ID, "scenario c")
	a1 := testutil.CreateAnswer(t, testDB, q1.ID, u2.ID)

	err := testService.AcceptAnswer(ctx, q1.ID, a1.ID, u2.ID)
	require.True(t, apperr.Is(err, apperr.CodeForbidden))

	var got models.Question
	require.NoError(t, testDB.First(&got, q1.ID).Error)
	require.Nil(t, got.AcceptedAnswerID)
	require.Empty(t, notificationsFor(t, u2.ID))
}

func TestAcceptAnswerNotFound(t *testing.T) {
	ctx := context.Background()
	u1 := testutil.CreateUser(t, testDB, "asker")
	q1 := testutil.CreateQuestion(t, testDB, u1.ID, "not found cases")
	a1 := testutil.CreateAnswer(t, testDB, q1.ID, u1.ID)

	err := testService.AcceptAnswer(ctx, 999999, a1.ID, u1.ID)
	require.True(t, apperr.Is(err, apperr.CodeNotFound))

	err = testService.AcceptAnswer(ctx, q1.ID, 999999, u1.ID)
	require.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestAcceptAnswerReferentialMismatch(t *testing.T) {
	ctx := context.Background()
	u1 := testutil.CreateUser(t, testDB, "asker1")
	u2 := testutil.CreateUser(t, testDB, "asker2")

	q1 := testutil.CreateQuestion(t, testDB, u1.ID, "mismatch q1")
	q2 := testutil.CreateQuestion(t, testDB, u2.ID, "mismatch q2")
	other := testutil.CreateAnswer(t, testDB, q2.ID, u2.ID)

	err := testService.AcceptAnswer(ctx, q1.ID, other.ID, u1.ID)
	require.True(t, apperr.Is(err, apperr.CodeReferentialMismatch))

	var got models.Question
	require.NoError(t, testDB.First(&got, q1.ID).Error)
	require.Nil(t, got.AcceptedAnswerID)
}

// Accepting your own answer succeeds silently: no notification.
func TestAcceptOwnAnswerNoNotification(t *testing.T) {
	ctx := context.Background()
	u1 := testutil.CreateUser(t, testDB, "selfaccept")
	q1 := testutil.CreateQuestion(t, testDB, u1.ID, "self accept")
	a1 := testutil.CreateAnswer(t, testDB, q1.ID, u1.ID)

	require.NoError(t, testService.AcceptAnswer(ctx, q1.ID, a1.ID, u1.ID))
	require.Empty(t, notificationsFor(t, u1.ID))
}

// Two concurrent accept attempts: exactly one wins, the loser sees
// AlreadyAccepted, and the stored id matches the winner.
func TestAcceptAnswerConcurrent(t *testing.T) {
	ctx := context.Background()
	u1 := testutil.CreateUser(t, testDB, "asker")
	u2 := testutil.CreateUser(t, testDB, "answerer1")
	u3 := testutil.CreateUser(t, testDB, "answerer2")

	q1 := testutil.CreateQuestion(t, testDB, u1.ID, "concurrent accept")
	a1 := testutil.CreateAnswer(t, testDB, q1.ID, u2.ID)
	a2 := testutil.CreateAnswer(t, testDB, q1.ID, u3.ID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	answers := []int{a1.ID, a2.ID}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = testService.AcceptAnswer(ctx, q1.ID, answers[i], u1.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	var winner int
	for i, err := range errs {
		if err == nil {
			succeeded++
			winner = answers[i]
		} else {
			require.True(t, apperr.Is(err, apperr.CodeAlreadyAccepted), "unexpected error: %v", err)
			rejected++
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, rejected)

	var got models.Question
	require.NoError(t, testDB.First(&got, q1.ID).Error)
	require.NotNil(t, got.AcceptedAnswerID)
	require.Equal(t, winner, *got.AcceptedAnswerID)
}
