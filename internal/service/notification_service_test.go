package service

import (
	"context"
	"testing"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(repo *stubNotificationRepo, userID uuid.UUID, title string, read bool) uuid.UUID {
	id := uuid.New()
	repo.rows = append(repo.rows, model.Notification{
		ID:      id,
		UserID:  userID,
		Title:   title,
		Message: title + " message",
		Type:    model.NotificationSupply,
		IsRead:  read,
	})
	return id
}

func TestUnreadCountsOnlyOwnUnread(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo)

	me := uuid.New()
	other := uuid.New()
	seedNotification(repo, me, "one", false)
	seedNotification(repo, me, "two", false)
	seedNotification(repo, me, "old", true)
	seedNotification(repo, other, "not mine", false)

	resp, err := svc.Unread(context.Background(), me)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.UnreadCount)
	assert.Len(t, resp.Notifications, 2)
}

func TestMarkReadAndClearRead(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo)

	me := uuid.New()
	id := seedNotification(repo, me, "hello", false)
	seedNotification(repo, me, "still unread", false)

	require.NoError(t, svc.MarkRead(context.Background(), me, id))

	resp, err := svc.Unread(context.Background(), me)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UnreadCount)

	require.NoError(t, svc.ClearRead(context.Background(), me))
	list, err := svc.List(context.Background(), me)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "still unread", list[0].Title)
}

func TestDeleteOtherUsersNotificationFails(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo)

	owner := uuid.New()
	id := seedNotification(repo, owner, "private", false)

	err := svc.Delete(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), owner, id))
}

func TestMarkAllRead(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo)

	me := uuid.New()
	seedNotification(repo, me, "a", false)
	seedNotification(repo, me, "b", false)

	require.NoError(t, svc.MarkAllRead(context.Background(), me))

	resp, err := svc.Unread(context.Background(), me)
	require.NoError(t, err)
	assert.Zero(t, resp.UnreadCount)
}
