package service

import (
	"context"
	"errors"

	"stocktrack/internal/dto"
	"stocktrack/internal/model"
	"stocktrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService is read/ack only: rows are produced by the worker, this
// service just serves each recipient's inbox.
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID) ([]dto.NotificationResponse, error)
	Unread(ctx context.Context, userID uuid.UUID) (*dto.UnreadNotificationsResponse, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ClearRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]dto.NotificationResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, err
	}
	return notificationsToResponse(rows), nil
}

func (s *notificationService) Unread(ctx context.Context, userID uuid.UUID) (*dto.UnreadNotificationsResponse, error) {
	rows, count, err := s.repo.ListUnread(ctx, userID, 20)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadNotificationsResponse{
		Notifications: notificationsToResponse(rows),
		UnreadCount:   count,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) ClearRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.ClearRead(ctx, userID)
}

func notificationsToResponse(rows []model.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		var senderUsername, senderName *string
		if n.Sender != nil {
			senderUsername = &n.Sender.Username
			senderName = &n.Sender.FullName
		}
		out = append(out, dto.NotificationResponse{
			ID:             n.ID.String(),
			Title:          n.Title,
			Message:        n.Message,
			Type:           n.Type,
			IsRead:         n.IsRead,
			SenderUsername: senderUsername,
			SenderName:     senderName,
			CreatedAt:      n.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}
