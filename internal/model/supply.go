package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supply is a receiving document. Creating one increments stock for every
// non-zero line item inside the same transaction; deleting one does NOT
// reverse those increments (the ledger keeps the history either way).
type Supply struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentNumber string    `gorm:"index;not null"`
	Supplier       string    `gorm:"not null"`
	Buyer          string    `gorm:"not null"`
	Receiver       string    `gorm:"not null"`
	SupplyDate     time.Time `gorm:"not null"`
	Comment        string
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items   []SupplyItem `gorm:"foreignKey:SupplyID;constraint:OnDelete:CASCADE"`
	Files   []SupplyFile `gorm:"foreignKey:SupplyID;constraint:OnDelete:CASCADE"`
	Creator *User        `gorm:"foreignKey:CreatedBy"`
}

// SupplyItem is one line of a supply document. A committed line item with
// Quantity > 0 always has a matching "in" StockMovement carrying the
// document number.
type SupplyItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	Material *Material `gorm:"foreignKey:MaterialID"`
}

// SupplyFile is a scanned document attached to a supply. The bytes live in
// the file store; this row only keeps the metadata.
type SupplyFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName  string    `gorm:"not null"` // original client-side name
	FilePath  string    `gorm:"not null"` // name on disk, relative to the store root
	FileType  string
	FileSize  int64
	CreatedAt time.Time
}
