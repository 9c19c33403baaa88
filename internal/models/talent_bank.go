package models

import "time"

// TalentBankItem - элемент медиа-библиотеки таланта (talent bank).
// Снапшоты ссылаются на видео по числовому id; путь резолвится
// в подписанный URL только при рендере.
type TalentBankItem struct {
	ItemID   int64  `gorm:"primaryKey;autoIncrement"`
	TalentID string `gorm:"type:uuid;not null;index"`
	UserID   string `gorm:"type:uuid;not null;index"`
	Label    string
	FilePath string `gorm:"not null"`
	FileType string // "image", "video", "document"
	MimeType string
	Size     int64

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
