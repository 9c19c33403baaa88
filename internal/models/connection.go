package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ConnectionRequest - строка леджера запросов между талантом и бизнесом.
// Физически не удаляется (кроме каскада при удалении аккаунта админом).
type ConnectionRequest struct {
	BaseModel
	TalentID   string           `gorm:"type:uuid;not null;index:idx_connection_pair"`
	BusinessID string           `gorm:"type:uuid;not null;index:idx_connection_pair"`
	Status     ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	// Кто создал запрос и кто попросил восстановить разорванное подключение
	RequestedBy          Party  `gorm:"type:varchar(10);not null"`
	ReconnectRequestedBy *Party `gorm:"type:varchar(10)"`

	// Секции, которые талант выбрал показать при создании запроса
	SelectedSections datatypes.JSON `gorm:"type:jsonb"` // []string

	RespondedAt *time.Time

	// Оптимистическая блокировка: апдейты идут через WHERE version = ?
	Version int `gorm:"not null;default:1"`

	// Relations
	Talent   *TalentProfile   `gorm:"foreignKey:TalentID"`
	Business *BusinessProfile `gorm:"foreignKey:BusinessID"`
}

// GetSelectedSections возвращает выбранные секции как slice строк
func (c *ConnectionRequest) GetSelectedSections() []string {
	var sections []string
	if len(c.SelectedSections) > 0 {
		_ = json.Unmarshal(c.SelectedSections, &sections)
	}
	return sections
}

// SetSelectedSections устанавливает выбранные секции
func (c *ConnectionRequest) SetSelectedSections(sections []string) {
	data, _ := json.Marshal(sections)
	c.SelectedSections = datatypes.JSON(data)
}

// TalentAccessGrant - грубое право доступа бизнеса к таланту,
// создается при принятии подключения (30 дней), остается как аудит-след.
// История (сообщения, снапшоты) ключуется парой (talent_id, business_id),
// поэтому восстановление статуса возвращает всю видимость.
type TalentAccessGrant struct {
	BaseModel
	TalentID   string     `gorm:"type:uuid;not null;index"`
	BusinessID string     `gorm:"type:uuid;not null;index"`
	ExpiresAt  time.Time  `gorm:"not null"`
	RevokedAt  *time.Time `gorm:"index"`
}
