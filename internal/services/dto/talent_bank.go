package dto

import "time"

// CreateTalentBankItemRequest - регистрация файла в банке таланта.
// Сам файл загружается через storage, здесь только метаданные.
type CreateTalentBankItemRequest struct {
	Label    string `json:"label" binding:"required,max=255"`
	FilePath string `json:"file_path" binding:"required"`
	FileType string `json:"file_type" binding:"required,oneof=video image document"`
	MimeType string `json:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty" binding:"omitempty,min=0"`
}

// TalentBankItemDTO - элемент банка с подписанным URL на чтение
type TalentBankItemDTO struct {
	ItemID    int64     `json:"item_id"`
	Label     string    `json:"label"`
	FileType  string    `json:"file_type"`
	MimeType  string    `json:"mime_type,omitempty"`
	Size      int64     `json:"size,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
