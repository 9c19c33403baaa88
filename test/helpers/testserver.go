package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"creerlio_backend/internal/app"
	"creerlio_backend/internal/auth"
	"creerlio_backend/internal/config"
	"creerlio_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestServer - полный HTTP-стек приложения поверх in-memory БД:
// роутер, middleware и хендлеры собираются тем же SetupRouter,
// что и в проде.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	auth.Init("integration-test-secret-key-12345", 60)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось открыть тестовую БД: %v", err)
	}
	if err := app.AutoMigrate(db); err != nil {
		t.Fatalf("не удалось выполнить миграции: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/media"
	cfg.Notifications.SignedURLExpiry = 3600
	cfg.Notifications.GrantTTLDays = 30
	cfg.Notifications.RetentionDays = 90

	server := httptest.NewServer(app.SetupRouter(cfg, db))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, DB: db}
}

// SendRequest шлет JSON-запрос на тестовый сервер и возвращает ответ
// вместе с прочитанным телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("ошибка создания HTTP-запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBody)
}
