package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// TalentProfile - полный репозиторий данных таланта.
// Секции портфолио лежат в jsonb-колонках; наружу они попадают
// только через иммутабельные снапшоты (см. PortfolioSnapshot).
type TalentProfile struct {
	BaseModel
	UserID   string `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	Title    string
	Bio      string
	City     string
	State    string
	Country  string
	IsPublic bool `gorm:"default:true"`

	// Медиа: пути в object storage, подписываются при каждом просмотре
	AvatarPath   string
	BannerPath   string
	IntroVideoID *int64 // ссылка на TalentBankItem

	// Секции портфолио
	SocialLinks datatypes.JSON `gorm:"type:jsonb"` // []SocialLink
	Skills      datatypes.JSON `gorm:"type:jsonb"` // []string
	Experience  datatypes.JSON `gorm:"type:jsonb"` // []ExperienceEntry
	Education   datatypes.JSON `gorm:"type:jsonb"` // []EducationEntry
	Referees    datatypes.JSON `gorm:"type:jsonb"` // []Referee
	Projects    datatypes.JSON `gorm:"type:jsonb"` // []ProjectEntry
	Attachments datatypes.JSON `gorm:"type:jsonb"` // []AttachmentRef
}

// GetSkills возвращает навыки таланта как slice строк
func (t *TalentProfile) GetSkills() []string {
	var skills []string
	if len(t.Skills) > 0 {
		_ = json.Unmarshal(t.Skills, &skills)
	}
	return skills
}

// SetSkills устанавливает навыки таланта
func (t *TalentProfile) SetSkills(skills []string) {
	data, _ := json.Marshal(skills)
	t.Skills = datatypes.JSON(data)
}

type BusinessProfile struct {
	BaseModel
	UserID        string `gorm:"uniqueIndex;not null"`
	BusinessName  string `gorm:"not null"`
	ContactPerson string
	Industry      string
	Website       string
	City          string
	State         string
	Country       string
	Description   string
	IsVerified    bool `gorm:"default:false"`
}

// DisplayName - имя бизнеса для уведомлений и ответов API
func (b *BusinessProfile) DisplayName() string {
	if b.BusinessName != "" {
		return b.BusinessName
	}
	if b.ContactPerson != "" {
		return b.ContactPerson
	}
	return "Business"
}

// DisplayName - имя таланта для уведомлений и ответов API
func (t *TalentProfile) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Title != "" {
		return t.Title
	}
	return "Talent"
}
