// Package storage guarda los archivos subidos en disco local o en Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/pkg/config"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

var _ ports.FileStorage = (*LocalStorage)(nil)

// New crea el almacenamiento según STORAGE_MODE.
func New(cfg config.StorageConfig, log *logger.Logger) (ports.FileStorage, error) {
	switch cfg.Mode {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir)
	case "azure":
		if cfg.AzureConnectionString == "" {
			return nil, fmt.Errorf("storage: AZURE_STORAGE_CONNECTION_STRING es obligatorio en modo azure")
		}
		return NewAzureBlobStorage(cfg.AzureConnectionString, cfg.AzureContainer, log)
	default:
		return nil, fmt.Errorf("storage: modo no soportado: %s", cfg.Mode)
	}
}

// LocalStorage archivos bajo un directorio base.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage crea el directorio base si no existe.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save escribe el archivo y devuelve una URL file://.
func (s *LocalStorage) Save(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	full := filepath.Join(s.basePath, filepath.Clean("/"+key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		abs = full
	}
	return "file://" + filepath.ToSlash(abs), nil
}
