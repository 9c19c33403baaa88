package models

import "encoding/json"

// Типизированные секции портфолио. Хранятся в jsonb-колонках TalentProfile,
// собираются в FullPortfolio для построения снапшота.

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type ExperienceEntry struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	IsCurrent   bool   `json:"is_current,omitempty"`
	Description string `json:"description,omitempty"`
}

type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartYear   int    `json:"start_year,omitempty"`
	EndYear     int    `json:"end_year,omitempty"`
}

type Referee struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type ProjectEntry struct {
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

type AttachmentRef struct {
	Label    string `json:"label"`
	FilePath string `json:"file_path"`
	MimeType string `json:"mime_type,omitempty"`
}

// IntroSection - шапка портфолио (имя/должность/био)
type IntroSection struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// FullPortfolio - собранное представление живого профиля таланта.
// Это ВХОД для построителя снапшотов; бизнес его никогда не видит напрямую.
type FullPortfolio struct {
	Name        string
	Title       string
	Bio         string
	SocialLinks []SocialLink
	Skills      []string
	Experience  []ExperienceEntry
	Education   []EducationEntry
	Referees    []Referee
	Projects    []ProjectEntry
	Attachments []AttachmentRef
}

// AssembleFullPortfolio распаковывает jsonb-секции профиля в FullPortfolio
func AssembleFullPortfolio(t *TalentProfile) *FullPortfolio {
	fp := &FullPortfolio{
		Name:  t.Name,
		Title: t.Title,
		Bio:   t.Bio,
	}

	if len(t.SocialLinks) > 0 {
		_ = json.Unmarshal(t.SocialLinks, &fp.SocialLinks)
	}
	if len(t.Skills) > 0 {
		_ = json.Unmarshal(t.Skills, &fp.Skills)
	}
	if len(t.Experience) > 0 {
		_ = json.Unmarshal(t.Experience, &fp.Experience)
	}
	if len(t.Education) > 0 {
		_ = json.Unmarshal(t.Education, &fp.Education)
	}
	if len(t.Referees) > 0 {
		_ = json.Unmarshal(t.Referees, &fp.Referees)
	}
	if len(t.Projects) > 0 {
		_ = json.Unmarshal(t.Projects, &fp.Projects)
	}
	if len(t.Attachments) > 0 {
		_ = json.Unmarshal(t.Attachments, &fp.Attachments)
	}

	return fp
}
