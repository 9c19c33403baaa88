package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"creerlio_backend/internal/models"

	"github.com/stretchr/testify/require"
)

type registeredUser struct {
	Token  string
	UserID string
}

func register(t *testing.T, ts *TestServer, body map[string]interface{}) registeredUser {
	t.Helper()

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, res.StatusCode, "регистрация должна проходить. Ответ: "+bodyStr)

	var resp struct {
		Token string `json:"access_token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	require.NotEmpty(t, resp.Token)
	return registeredUser{Token: resp.Token, UserID: resp.User.ID}
}

// RegisterTalent регистрирует таланта через API (профиль создается
// сервисом регистрации) и возвращает токен с профилем
func RegisterTalent(t *testing.T, ts *TestServer, name string) (string, *models.TalentProfile) {
	t.Helper()

	email := fmt.Sprintf("talent_%d@test.example", time.Now().UnixNano())
	user := register(t, ts, map[string]interface{}{
		"email":    email,
		"password": "password123",
		"role":     "talent",
		"name":     name,
	})

	var profile models.TalentProfile
	require.NoError(t, ts.DB.First(&profile, "user_id = ?", user.UserID).Error)
	return user.Token, &profile
}

// RegisterBusiness регистрирует бизнес через API
func RegisterBusiness(t *testing.T, ts *TestServer, businessName string) (string, *models.BusinessProfile) {
	t.Helper()

	email := fmt.Sprintf("business_%d@test.example", time.Now().UnixNano())
	user := register(t, ts, map[string]interface{}{
		"email":         email,
		"password":      "password123",
		"role":          "business",
		"business_name": businessName,
	})

	var profile models.BusinessProfile
	require.NoError(t, ts.DB.First(&profile, "user_id = ?", user.UserID).Error)
	return user.Token, &profile
}
