package worker

import (
	"context"
	"encoding/json"
	"testing"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotificationRepo struct {
	calls    int
	roles    []string
	senderID *uuid.UUID
	title    string
	ntype    string
	err      error
}

func (r *recordingNotificationRepo) CreateForRoles(_ context.Context, roles []string, senderID *uuid.UUID, title, message, ntype string) (int64, error) {
	r.calls++
	r.roles = roles
	r.senderID = senderID
	r.title = title
	r.ntype = ntype
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(roles)), nil
}

func (r *recordingNotificationRepo) ListByUser(context.Context, uuid.UUID, int) ([]model.Notification, error) {
	return nil, nil
}

func (r *recordingNotificationRepo) ListUnread(context.Context, uuid.UUID, int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (r *recordingNotificationRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (r *recordingNotificationRepo) MarkAllRead(context.Context, uuid.UUID) error         { return nil }
func (r *recordingNotificationRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error   { return nil }
func (r *recordingNotificationRepo) ClearRead(context.Context, uuid.UUID) error           { return nil }

func TestProcessFansOutToRoles(t *testing.T) {
	repo := &recordingNotificationRepo{}
	w := NewNotificationWorker(repo)

	sender := uuid.New()
	payload, err := json.Marshal(NotificationJobPayload{
		Roles:    []string{model.RoleAdmin, model.RoleManager},
		SenderID: sender.String(),
		Title:    "New supply",
		Message:  "Supply SUP-001 created",
		Type:     model.NotificationSupply,
	})
	require.NoError(t, err)

	require.NoError(t, w.Process(context.Background(), payload))
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, []string{model.RoleAdmin, model.RoleManager}, repo.roles)
	require.NotNil(t, repo.senderID)
	assert.Equal(t, sender, *repo.senderID)
	assert.Equal(t, "New supply", repo.title)
	assert.Equal(t, model.NotificationSupply, repo.ntype)
}

func TestProcessMalformedPayloadNotRetried(t *testing.T) {
	repo := &recordingNotificationRepo{}
	w := NewNotificationWorker(repo)

	// nil error means the job is dropped instead of requeued
	assert.NoError(t, w.Process(context.Background(), json.RawMessage("{not json")))
	assert.Zero(t, repo.calls)
}

func TestProcessEmptyRolesSkipped(t *testing.T) {
	repo := &recordingNotificationRepo{}
	w := NewNotificationWorker(repo)

	payload, _ := json.Marshal(NotificationJobPayload{Title: "orphan"})
	assert.NoError(t, w.Process(context.Background(), payload))
	assert.Zero(t, repo.calls)
}

func TestProcessPropagatesRepoError(t *testing.T) {
	repo := &recordingNotificationRepo{err: assert.AnError}
	w := NewNotificationWorker(repo)

	payload, _ := json.Marshal(NotificationJobPayload{
		Roles: []string{model.RoleAdmin},
		Title: "will fail",
	})
	assert.Error(t, w.Process(context.Background(), payload))
}
