package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationSupply   = "supply"
	NotificationWriteoff = "writeoff"
	NotificationMaterial = "material"
)

// Notification is one in-app message for one recipient. Stock mutations fan
// these out to privileged roles after commit; the rows are written by the
// notification worker, never inside the mutating transaction.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SenderID  *uuid.UUID `gorm:"type:uuid"`
	Title     string     `gorm:"not null"`
	Message   string     `gorm:"not null"`
	Type      string     `gorm:"type:varchar(20);not null"` // supply | writeoff | material
	IsRead    bool       `gorm:"not null;default:false;index"`
	CreatedAt time.Time  `gorm:"index"`

	Sender *User `gorm:"foreignKey:SenderID"`
}
