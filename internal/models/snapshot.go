package models

import (
	"time"

	"gorm.io/datatypes"
)

// Идентификаторы секций портфолио (совпадают с ключами shared_payload.sections)
const (
	SectionIntro       = "intro"
	SectionSocial      = "social"
	SectionSkills      = "skills"
	SectionExperience  = "experience"
	SectionEducation   = "education"
	SectionReferees    = "referees"
	SectionProjects    = "projects"
	SectionAttachments = "attachments"
)

// ShareConfig - по-секционные тумблеры таланта.
// Для медиа действуют ДВА независимых условия: тумблер включен
// И конкретный путь/идентификатор явно выбран.
type ShareConfig struct {
	ShareIntro       bool `json:"share_intro"`
	ShareSocial      bool `json:"share_social"`
	ShareSkills      bool `json:"share_skills"`
	ShareExperience  bool `json:"share_experience"`
	ShareEducation   bool `json:"share_education"`
	ShareReferees    bool `json:"share_referees"`
	ShareProjects    bool `json:"share_projects"`
	ShareAttachments bool `json:"share_attachments"`

	ShareAvatar     bool `json:"share_avatar"`
	ShareBanner     bool `json:"share_banner"`
	ShareIntroVideo bool `json:"share_intro_video"`

	SelectedAvatarPath   string `json:"selected_avatar_path,omitempty"`
	SelectedBannerPath   string `json:"selected_banner_path,omitempty"`
	SelectedIntroVideoID *int64 `json:"selected_intro_video_id,omitempty"`
}

// SharedSections - разреженный набор секций снапшота.
// Выключенная секция ПОЛНОСТЬЮ отсутствует в JSON (nil-указатель + omitempty),
// а включенная присутствует всегда, даже пустой ([]): контракт
// односторонний, "не разрешено" и "разрешено, но пусто" различимы
// только в эту сторону.
type SharedSections struct {
	Intro       *IntroSection      `json:"intro,omitempty"`
	Social      *[]SocialLink      `json:"social,omitempty"`
	Skills      *[]string          `json:"skills,omitempty"`
	Experience  *[]ExperienceEntry `json:"experience,omitempty"`
	Education   *[]EducationEntry  `json:"education,omitempty"`
	Referees    *[]Referee         `json:"referees,omitempty"`
	Projects    *[]ProjectEntry    `json:"projects,omitempty"`
	Attachments *[]AttachmentRef   `json:"attachments,omitempty"`
}

// SharedMedia - ссылки на медиа внутри снапшота. Пути иммутабельны,
// подписанные URL генерируются заново при каждом просмотре.
type SharedMedia struct {
	AvatarPath   *string `json:"avatar_path,omitempty"`
	BannerPath   *string `json:"banner_path,omitempty"`
	IntroVideoID *int64  `json:"intro_video_id,omitempty"`
}

// SharedPayload - самодостаточный документ, который видит бизнес.
// Чистая функция от (полное портфолио, ShareConfig) на момент создания.
type SharedPayload struct {
	TemplateID        string         `json:"template_id"`
	Sections          SharedSections `json:"sections"`
	Media             SharedMedia    `json:"media"`
	SnapshotTimestamp time.Time      `json:"snapshot_timestamp"`
	Version           int            `json:"version"`
}

// PortfolioSnapshot - иммутабельная версионированная строка снапшота.
// Никогда не апдейтится: новая конфигурация шаринга = новая строка.
// business_id == nil значит "публичный превью-снапшот".
type PortfolioSnapshot struct {
	BaseModel
	TalentProfileID   string         `gorm:"type:uuid;not null;index"`
	UserID            string         `gorm:"type:uuid;not null;index"`
	TemplateID        string         `gorm:"not null"`
	SharedPayload     datatypes.JSON `gorm:"type:jsonb;not null"` // SharedPayload
	SnapshotTimestamp time.Time      `gorm:"not null;index"`
	Version           int            `gorm:"not null;default:1"`
	BusinessID        *string        `gorm:"type:uuid;index"`
}
