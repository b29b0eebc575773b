package repository

import (
	"context"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	// CreateForRoles inserts one notification row per active user holding any
	// of the given roles. Called by the notification worker, never inside a
	// stock transaction.
	CreateForRoles(ctx context.Context, roles []string, senderID *uuid.UUID, title, message, ntype string) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ClearRead(ctx context.Context, userID uuid.UUID) error
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateForRoles(ctx context.Context, roles []string, senderID *uuid.UUID, title, message, ntype string) (int64, error) {
	var recipients []model.User
	if err := r.db.WithContext(ctx).
		Where("role IN ? AND active = true", roles).
		Find(&recipients).Error; err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	rows := make([]model.Notification, 0, len(recipients))
	for _, u := range recipients {
		rows = append(rows, model.Notification{
			UserID:   u.ID,
			SenderID: senderID,
			Title:    title,
			Message:  message,
			Type:     ntype,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit < 1 {
		limit = 50
	}
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, int64, error) {
	if limit < 1 {
		limit = 20
	}
	var notifications []model.Notification
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("user_id = ? AND is_read = false", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return notifications, count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}

func (r *notificationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) ClearRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = true", userID).
		Delete(&model.Notification{}).Error
}
