package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification - best-effort боковой канал. Создается как сайд-эффект
// перехода ConnectionRequest; сбой вставки никогда не откатывает переход.
type Notification struct {
	BaseModel
	RecipientID         string `gorm:"type:uuid;not null;index"` // id профиля получателя
	RecipientRole       Party  `gorm:"type:varchar(10);not null"`
	ConnectionRequestID string `gorm:"type:uuid;index"`
	NotificationType    string `gorm:"not null"` // "connection_accepted", "reconnect_accepted", ...
	Title               string `gorm:"not null"`
	Message             string
	Metadata            datatypes.JSON `gorm:"type:jsonb"`
	IsRead              bool           `gorm:"default:false"`
	ReadAt              *time.Time
}
