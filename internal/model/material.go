package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is a stocked item. Quantity is the only field mutated outside
// regular metadata updates, and only ever through the stock engine so that it
// stays equal to the signed sum of the material's movements.
type Material struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name   string    `gorm:"index;not null"`
	UnitID uuid.UUID `gorm:"type:uuid;not null"`
	// Quantity never goes below zero; enforced by StockService under a row lock.
	Quantity decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	// MinQuantity of 0 disables the low-stock alert for this material.
	MinQuantity decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Unit *Unit `gorm:"foreignKey:UnitID"`
}

// IsLowStock reports whether the material is at or below its alert threshold.
func (m *Material) IsLowStock() bool {
	return m.MinQuantity.IsPositive() && m.Quantity.LessThanOrEqual(m.MinQuantity)
}
