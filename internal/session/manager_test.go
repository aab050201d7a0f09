package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T) (*Manager, *sessiontest.MemoryStore, *fakeClock) {
	store := sessiontest.NewMemoryStore()
	store.AddQuiz(newQuiz(1, intPtr(30)), threeQuestions()...)
	clock := &fakeClock{now: fixedNow}
	tickers := &sessiontest.Tickers{}
	m := NewManager(store, ManagerConfig{
		IdleTTL: time.Hour,
		Logger:  discardLogger(),
		Now:     clock.Now,
	}, WithTimerOptions(WithTickerFunc(func(d time.Duration) Ticker { return tickers.New(d) })))
	t.Cleanup(m.Stop)
	return m, store, clock
}

func TestManager_OpenGetClose(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	id, ctrl, err := m.Open(ctx, student, testCourse)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, StateReady, ctrl.State())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(id, student)
	require.NoError(t, err)
	assert.Same(t, ctrl, got)

	_, err = m.Get(id, Identity{UserID: "intruder"})
	assert.ErrorIs(t, err, ErrSessionForbidden)
	assert.ErrorIs(t, m.Close(id, Identity{UserID: "intruder"}), ErrSessionForbidden)

	_, err = m.Get("missing", student)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Close(id, student))
	assert.True(t, ctrl.Closed())
	assert.Equal(t, TimerDisabled, ctrl.timer.State())
	assert.Zero(t, m.Len())
	assert.ErrorIs(t, m.Close(id, student), ErrSessionNotFound)
}

func TestManager_OpenMissingCourse(t *testing.T) {
	m, _, _ := newTestManager(t)

	id, ctrl, err := m.Open(context.Background(), student, "")

	assert.ErrorIs(t, err, ErrMissingCourseID)
	assert.Empty(t, id)
	assert.Nil(t, ctrl)
	assert.Zero(t, m.Len())
}

func TestManager_OpenKeepsSessionOnLoadFailure(t *testing.T) {
	m, store, _ := newTestManager(t)
	store.ListQuizzesErr = errors.New("db down")

	id, ctrl, err := m.Open(context.Background(), student, testCourse)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	snap := ctrl.Snapshot()
	require.NotNil(t, snap.Notice)
	assert.Equal(t, NoticeCatalogFailed, snap.Notice.Kind)
}

func TestManager_ReapIdle(t *testing.T) {
	m, _, clock := newTestManager(t)
	ctx := context.Background()

	staleID, stale, err := m.Open(ctx, student, testCourse)
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)
	freshID, fresh, err := m.Open(ctx, Identity{UserID: "student-2"}, testCourse)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, m.ReapIdle())

	assert.True(t, stale.Closed())
	assert.False(t, fresh.Closed())
	_, err = m.Get(staleID, student)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(freshID, Identity{UserID: "student-2"})
	assert.NoError(t, err)
}

func TestManager_GetRefreshesIdleClock(t *testing.T) {
	m, _, clock := newTestManager(t)
	id, _, err := m.Open(context.Background(), student, testCourse)
	require.NoError(t, err)

	clock.Advance(50 * time.Minute)
	_, err = m.Get(id, student)
	require.NoError(t, err)
	clock.Advance(50 * time.Minute)

	assert.Zero(t, m.ReapIdle())
}

func TestManager_StartReaper(t *testing.T) {
	m, _, _ := newTestManager(t)

	assert.Error(t, m.StartReaper("not a schedule"))
	require.NoError(t, m.StartReaper("@every 1m"))
}

func TestManager_StopClosesSessions(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, ctrl, err := m.Open(context.Background(), student, testCourse)
	require.NoError(t, err)
	require.NoError(t, m.StartReaper("@every 1h"))

	m.Stop()

	assert.True(t, ctrl.Closed())
	assert.Zero(t, m.Len())
}
