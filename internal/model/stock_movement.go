package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// StockMovement is one immutable ledger entry: a receipt or a write-off of a
// single material. Rows are only ever created inside the stock engine's
// transaction and are never updated or deleted individually.
type StockMovement struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction  string          `gorm:"type:varchar(3);not null"` // "in" | "out"
	Quantity   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	// QuantityBefore/After snapshot the material quantity around this entry,
	// taken under the same row lock that applied the delta.
	QuantityBefore decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null"`
	RecipientName  *string         // out only: who received the written-off goods
	DocumentNumber *string         // in only: supply document reference
	Comment        string
	CreatedAt      time.Time `gorm:"index"`

	Material *Material `gorm:"foreignKey:MaterialID"`
	User     *User     `gorm:"foreignKey:UserID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
