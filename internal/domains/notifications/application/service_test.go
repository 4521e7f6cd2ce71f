package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/adapters/memory"
)

type recordingNotifier struct {
	messages []string
	err      error
}

func (r *recordingNotifier) Broadcast(_ context.Context, message string) error {
	r.messages = append(r.messages, message)
	return r.err
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*Service, *clock, *recordingNotifier) {
	t.Helper()
	c := &clock{now: time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)}
	n := &recordingNotifier{}
	return NewService(memory.NewRepository(), WithClock(c.Now), WithNotifier(n)), c, n
}

func TestCreateNotification(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	res := svc.CreateNotification(ctx, "Part arrived", "order 12 can be repaired")
	require.True(t, res.IsSuccess)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, int64(1), res.Data.ID)
	assert.Equal(t, []string{"notification 1 created"}, notifier.messages)

	res = svc.CreateNotification(ctx, "", "body")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res = svc.CreateNotification(ctx, "title", "  ")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCreateNotification_BroadcastFailureIgnored(t *testing.T) {
	svc, _, notifier := newTestService(t)
	notifier.err = errors.New("hub closed")

	res := svc.CreateNotification(context.Background(), "t", "m")
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestGetUnread_ExcludesOldAndRead(t *testing.T) {
	svc, c, _ := newTestService(t)
	ctx := context.Background()

	first := svc.CreateNotification(ctx, "first", "m")
	require.True(t, first.IsSuccess)
	c.now = c.now.Add(3 * 24 * time.Hour)
	second := svc.CreateNotification(ctx, "second", "m")
	require.True(t, second.IsSuccess)
	third := svc.CreateNotification(ctx, "third", "m")
	require.True(t, third.IsSuccess)
	require.True(t, svc.MarkAsRead(ctx, third.Data.ID).IsSuccess)

	res := svc.GetUnread(ctx)
	require.True(t, res.IsSuccess)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "second", res.Data[0].Title)
	assert.Equal(t, "first", res.Data[1].Title)

	c.now = c.now.Add(3 * 24 * time.Hour)
	res = svc.GetUnread(ctx)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "second", res.Data[0].Title)
}

func TestGetUnread_EmptyIsNotNil(t *testing.T) {
	svc, _, _ := newTestService(t)
	res := svc.GetUnread(context.Background())
	require.True(t, res.IsSuccess)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

func TestMarkAsRead(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, http.StatusNotFound, svc.MarkAsRead(ctx, 77).StatusCode)
	assert.Equal(t, http.StatusBadRequest, svc.MarkAsRead(ctx, 0).StatusCode)

	created := svc.CreateNotification(ctx, "t", "m")
	res := svc.MarkAsRead(ctx, created.Data.ID)
	require.True(t, res.IsSuccess)
	assert.True(t, res.Data.Read)
}

func TestPurge(t *testing.T) {
	svc, c, _ := newTestService(t)
	ctx := context.Background()

	read := svc.CreateNotification(ctx, "read", "m")
	svc.MarkAsRead(ctx, read.Data.ID)
	svc.CreateNotification(ctx, "unread", "m")
	c.now = c.now.Add(40 * 24 * time.Hour)

	assert.Equal(t, http.StatusBadRequest, svc.Purge(ctx, 0).StatusCode)

	res := svc.Purge(ctx, 30*24*time.Hour)
	require.True(t, res.IsSuccess)
	assert.Equal(t, int64(1), res.Data)
}

