package repository

import (
	"context"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementRepository is the append-only ledger. There is deliberately no
// update or delete: entries are immutable once committed, and CreateTx is
// only reachable from inside the stock engine's transaction.
type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	History(ctx context.Context, materialID uuid.UUID, limit int) ([]model.StockMovement, error)
	CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) History(ctx context.Context, materialID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Material").
		Preload("Material.Unit").
		Where("material_id = ?", materialID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("material_id = ?", materialID).
		Count(&count).Error
	return count, err
}
