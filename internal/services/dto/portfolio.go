package dto

import (
	"time"

	"creerlio_backend/internal/models"
)

// RenderedMedia - медиа снапшота с подписанными URL.
// URL короткоживущие и генерируются на каждый просмотр;
// в самом снапшоте хранятся только пути.
type RenderedMedia struct {
	AvatarURL     string `json:"avatar_url,omitempty"`
	BannerURL     string `json:"banner_url,omitempty"`
	IntroVideoURL string `json:"intro_video_url,omitempty"`
}

// PortfolioViewDTO - отрендеренный снапшот для стороны-просмотрщика.
// Содержит только то, что попало в shared_payload: секции, которых
// нет в снапшоте, отсутствуют и здесь.
type PortfolioViewDTO struct {
	SnapshotID        string                `json:"snapshot_id"`
	TalentName        string                `json:"talent_name"`
	TemplateID        string                `json:"template_id"`
	Sections          models.SharedSections `json:"sections"`
	Media             RenderedMedia         `json:"media"`
	SnapshotTimestamp time.Time             `json:"snapshot_timestamp"`
}

// UpdateTalentProfileRequest - частичное обновление профиля таланта
type UpdateTalentProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Title      *string `json:"title,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	IsPublic   *bool   `json:"is_public,omitempty"`
	AvatarPath *string `json:"avatar_path,omitempty"`
	BannerPath *string `json:"banner_path,omitempty"`

	SocialLinks []models.SocialLink      `json:"social_links,omitempty"`
	Skills      []string                 `json:"skills,omitempty"`
	Experience  []models.ExperienceEntry `json:"experience,omitempty"`
	Education   []models.EducationEntry  `json:"education,omitempty"`
	Referees    []models.Referee         `json:"referees,omitempty"`
	Projects    []models.ProjectEntry    `json:"projects,omitempty"`
	Attachments []models.AttachmentRef   `json:"attachments,omitempty"`
}

// UpdateBusinessProfileRequest - частичное обновление профиля бизнеса
type UpdateBusinessProfileRequest struct {
	BusinessName  *string `json:"business_name,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Industry      *string `json:"industry,omitempty"`
	Website       *string `json:"website,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Country       *string `json:"country,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// TalentProfileDTO - профиль таланта для владельца
type TalentProfileDTO struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	Name       string               `json:"name"`
	Title      string               `json:"title,omitempty"`
	Bio        string               `json:"bio,omitempty"`
	City       string               `json:"city,omitempty"`
	State      string               `json:"state,omitempty"`
	Country    string               `json:"country,omitempty"`
	IsPublic   bool                 `json:"is_public"`
	AvatarPath string               `json:"avatar_path,omitempty"`
	BannerPath string               `json:"banner_path,omitempty"`
	Portfolio  models.FullPortfolio `json:"portfolio"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// BusinessProfileDTO - профиль бизнеса
type BusinessProfileDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	BusinessName  string    `json:"business_name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Website       string    `json:"website,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	Country       string    `json:"country,omitempty"`
	Description   string    `json:"description,omitempty"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
