package model

import (
	"time"

	"github.com/google/uuid"
)

// Unit is static reference data: one row per unit of measure (pcs, kg, m…).
type Unit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	ShortName string    `gorm:"not null"`
	CreatedAt time.Time
}
