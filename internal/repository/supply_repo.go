package repository

import (
	"context"

	"stocktrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplyRepository interface {
	CreateTx(tx *gorm.DB, s *model.Supply) error
	CreateItemTx(tx *gorm.DB, item *model.SupplyItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supply, error)
	List(ctx context.Context) ([]model.Supply, error)
	Update(ctx context.Context, s *model.Supply) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddFile(ctx context.Context, f *model.SupplyFile) error
	FindFile(ctx context.Context, supplyID, fileID uuid.UUID) (*model.SupplyFile, error)
	DeleteFile(ctx context.Context, fileID uuid.UUID) error

	DB() *gorm.DB
}

type supplyRepo struct{ db *gorm.DB }

func NewSupplyRepository(db *gorm.DB) SupplyRepository { return &supplyRepo{db: db} }

func (r *supplyRepo) CreateTx(tx *gorm.DB, s *model.Supply) error {
	return tx.Create(s).Error
}

func (r *supplyRepo) CreateItemTx(tx *gorm.DB, item *model.SupplyItem) error {
	return tx.Create(item).Error
}

func (r *supplyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supply, error) {
	var s model.Supply
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Files").
		Preload("Items").
		Preload("Items.Material").
		Preload("Items.Material.Unit").
		First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplyRepo) List(ctx context.Context) ([]model.Supply, error) {
	var supplies []model.Supply
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Files").
		Order("created_at DESC").
		Find(&supplies).Error
	return supplies, err
}

func (r *supplyRepo) Update(ctx context.Context, s *model.Supply) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete removes the document row; line items and file rows go with it via
// FK cascade. The stock effect of the original intake is NOT reversed.
func (r *supplyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("supply_id = ?", id).Delete(&model.SupplyItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("supply_id = ?", id).Delete(&model.SupplyFile{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Supply{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *supplyRepo) AddFile(ctx context.Context, f *model.SupplyFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *supplyRepo) FindFile(ctx context.Context, supplyID, fileID uuid.UUID) (*model.SupplyFile, error) {
	var f model.SupplyFile
	err := r.db.WithContext(ctx).
		Where("id = ? AND supply_id = ?", fileID, supplyID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *supplyRepo) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SupplyFile{}, fileID).Error
}

func (r *supplyRepo) DB() *gorm.DB { return r.db }
