package services

import (
	"encoding/json"
	"testing"
	"time"

	"creerlio_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePortfolio() *models.FullPortfolio {
	return &models.FullPortfolio{
		Name:  "Jane Doe",
		Title: "Sound Engineer",
		Bio:   "Ten years of live production.",
		SocialLinks: []models.SocialLink{
			{Platform: "linkedin", URL: "https://linkedin.com/in/janedoe"},
		},
		Skills: []string{"mixing", "mastering"},
		Experience: []models.ExperienceEntry{
			{Company: "Studio A", Title: "Engineer", IsCurrent: true},
		},
		Education: []models.EducationEntry{
			{Institution: "Audio Institute", Degree: "BA"},
		},
		Referees: []models.Referee{
			{Name: "John Smith", Email: "john@studio-a.example"},
		},
		Projects: []models.ProjectEntry{
			{Name: "Live album", Description: "FOH mix"},
		},
		Attachments: []models.AttachmentRef{
			{Label: "CV", FilePath: "docs/cv.pdf", MimeType: "application/pdf"},
		},
	}
}

func TestBuildSharedPayloadIncludesOnlyToggledSections(t *testing.T) {
	portfolio := fixturePortfolio()
	config := models.ShareConfig{
		ShareIntro:  true,
		ShareSkills: true,
	}

	payload := BuildSharedPayload(portfolio, config, "classic", time.Now().UTC())

	require.NotNil(t, payload.Sections.Intro)
	assert.Equal(t, "Jane Doe", payload.Sections.Intro.Name)
	require.NotNil(t, payload.Sections.Skills)
	assert.Equal(t, []string{"mixing", "mastering"}, *payload.Sections.Skills)

	// Все невыбранное отсутствует, а не пустое
	assert.Nil(t, payload.Sections.Social)
	assert.Nil(t, payload.Sections.Experience)
	assert.Nil(t, payload.Sections.Education)
	assert.Nil(t, payload.Sections.Referees)
	assert.Nil(t, payload.Sections.Projects)
	assert.Nil(t, payload.Sections.Attachments)
}

// Выключенная секция должна отсутствовать в JSON-документе целиком:
// рендерер не вправе отличать "пусто" от "не разрешено".
func TestBuildSharedPayloadOmitsDisabledSectionsFromJSON(t *testing.T) {
	payload := BuildSharedPayload(fixturePortfolio(), models.ShareConfig{ShareSkills: true}, "classic", time.Now().UTC())

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	var sections map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["sections"], &sections))

	assert.Contains(t, sections, "skills")
	for _, key := range []string{"intro", "social", "experience", "education", "referees", "projects", "attachments"} {
		assert.NotContains(t, sections, key)
	}
}

// Включенная, но пустая секция обязана присутствовать в JSON как [] -
// иначе "разрешено, но пусто" было бы неотличимо от "не разрешено".
func TestBuildSharedPayloadEmitsEnabledEmptySections(t *testing.T) {
	portfolio := &models.FullPortfolio{Name: "Jane Doe"} // ни одного навыка
	payload := BuildSharedPayload(portfolio, models.ShareConfig{ShareSkills: true}, "classic", time.Now().UTC())

	require.NotNil(t, payload.Sections.Skills)
	assert.Empty(t, *payload.Sections.Skills)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	var sections map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["sections"], &sections))

	require.Contains(t, sections, "skills")
	assert.JSONEq(t, "[]", string(sections["skills"]))
	assert.NotContains(t, sections, "experience")
}

func TestBuildSharedPayloadMediaRequiresToggleAndSelection(t *testing.T) {
	portfolio := fixturePortfolio()
	now := time.Now().UTC()
	videoID := int64(42)

	// Тумблер включен, но путь не выбран - медиа не попадает
	payload := BuildSharedPayload(portfolio, models.ShareConfig{
		ShareAvatar:     true,
		ShareBanner:     true,
		ShareIntroVideo: true,
	}, "classic", now)
	assert.Nil(t, payload.Media.AvatarPath)
	assert.Nil(t, payload.Media.BannerPath)
	assert.Nil(t, payload.Media.IntroVideoID)

	// Путь выбран, но тумблер выключен - тоже не попадает
	payload = BuildSharedPayload(portfolio, models.ShareConfig{
		SelectedAvatarPath:   "avatars/jane.jpg",
		SelectedBannerPath:   "banners/jane.jpg",
		SelectedIntroVideoID: &videoID,
	}, "classic", now)
	assert.Nil(t, payload.Media.AvatarPath)
	assert.Nil(t, payload.Media.BannerPath)
	assert.Nil(t, payload.Media.IntroVideoID)

	// Оба условия выполнены
	payload = BuildSharedPayload(portfolio, models.ShareConfig{
		ShareAvatar:          true,
		ShareIntroVideo:      true,
		SelectedAvatarPath:   "avatars/jane.jpg",
		SelectedIntroVideoID: &videoID,
	}, "classic", now)
	require.NotNil(t, payload.Media.AvatarPath)
	assert.Equal(t, "avatars/jane.jpg", *payload.Media.AvatarPath)
	require.NotNil(t, payload.Media.IntroVideoID)
	assert.Equal(t, videoID, *payload.Media.IntroVideoID)
	assert.Nil(t, payload.Media.BannerPath)
}

func TestBuildSharedPayloadIsDeterministic(t *testing.T) {
	portfolio := fixturePortfolio()
	config := models.ShareConfig{ShareIntro: true, ShareExperience: true, ShareReferees: true}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := json.Marshal(BuildSharedPayload(portfolio, config, "modern", at))
	require.NoError(t, err)
	second, err := json.Marshal(BuildSharedPayload(portfolio, config, "modern", at))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestBuildSharedPayloadCarriesTemplateAndTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := BuildSharedPayload(fixturePortfolio(), models.ShareConfig{}, "minimal", at)

	assert.Equal(t, "minimal", payload.TemplateID)
	assert.Equal(t, at, payload.SnapshotTimestamp)
	assert.Equal(t, sharedPayloadVersion, payload.Version)
}
