package repository

import (
	"context"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	List(ctx context.Context) ([]model.Unit, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
}

type unitRepo struct{ db *gorm.DB }

func NewUnitRepository(db *gorm.DB) UnitRepository { return &unitRepo{db: db} }

func (r *unitRepo) List(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *unitRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}
