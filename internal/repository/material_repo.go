package repository

import (
	"context"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaterialRepository defines the data access contract for materials.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	CreateTx(tx *gorm.DB, m *model.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	List(ctx context.Context) ([]model.Material, error)
	ListLowStock(ctx context.Context) ([]model.Material, error)
	Update(ctx context.Context, m *model.Material) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDForUpdateTx takes a FOR UPDATE row lock so concurrent movements
	// on the same material serialize on the database row.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Material, error)
	AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRepo) CreateTx(tx *gorm.DB, m *model.Material) error {
	return tx.Create(m).Error
}

func (r *materialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).Preload("Unit").First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) List(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).Preload("Unit").Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) ListLowStock(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).Preload("Unit").
		Where("min_quantity > 0 AND quantity <= min_quantity").
		Order("name ASC").
		Find(&materials).Error
	return materials, err
}

func (r *materialRepo) Update(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *materialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Material{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *materialRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	// The lock applies to the materials row; the unit preload runs as a
	// separate unlocked read.
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Unit").First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) AdjustQuantityTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Material{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *materialRepo) DB() *gorm.DB { return r.db }
