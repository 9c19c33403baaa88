package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Storage - абстракция хранилища медиа-файлов (аватары, баннеры,
// вложения и видео банка таланта).
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает публичный URL файла
	GetURL(ctx context.Context, path string) (string, error)

	// GetSignedURL возвращает короткоживущий подписанный URL.
	// В снапшотах хранятся пути, URL генерируется на каждый просмотр.
	GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// Config - конфигурация хранилища
type Config struct {
	Type       string // local, cloudflare_r2
	BasePath   string // для local
	BaseURL    string // публичная база URL
	Bucket     string // для R2
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // R2 endpoint
	UseSSL     bool
	PublicRead bool
}

// NewStorage создает хранилище по конфигурации
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
