package worker

// notification_worker.go
// Inserts in-app notification rows for every active user holding one of the
// targeted roles. Runs strictly after the originating stock transaction has
// committed, so a slow or failing fan-out can never roll back a mutation.

import (
	"context"
	"encoding/json"

	"stocktrack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type NotificationWorker struct {
	repo repository.NotificationRepository
}

func NewNotificationWorker(repo repository.NotificationRepository) *NotificationWorker {
	return &NotificationWorker{repo: repo}
}

// Process fans one job out to its role-filtered recipients.
func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if len(payload.Roles) == 0 || payload.Title == "" {
		log.Warn().Msg("notification_worker: empty roles or title — skipping")
		return nil
	}

	var senderID *uuid.UUID
	if payload.SenderID != "" {
		if id, err := uuid.Parse(payload.SenderID); err == nil {
			senderID = &id
		}
	}

	created, err := w.repo.CreateForRoles(ctx, payload.Roles, senderID, payload.Title, payload.Message, payload.Type)
	if err != nil {
		return err
	}

	log.Info().
		Int64("recipients", created).
		Str("type", payload.Type).
		Msg("notification_worker: fan-out complete")
	return nil
}
