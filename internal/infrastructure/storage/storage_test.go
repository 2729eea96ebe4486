package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cremeria-api/internal/infrastructure/storage"
	"github.com/jhoicas/cremeria-api/pkg/config"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

func TestLocalStorage_GuardaArchivo(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "imports/a.csv", []byte("sku\nQ1\n"), "text/csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))

	b, err := os.ReadFile(filepath.Join(dir, "imports", "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "sku\nQ1\n", string(b))
}

func TestLocalStorage_ClaveNoEscapaDelDirectorio(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../../fuera.csv", []byte("x"), "text/csv")
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "fuera.csv"))
	assert.NoError(t, statErr)
}

func TestNew_ModoDesconocido(t *testing.T) {
	_, err := storage.New(config.StorageConfig{Mode: "ftp"}, logger.Nop())
	assert.Error(t, err)
}

func TestNew_AzureSinConexion(t *testing.T) {
	_, err := storage.New(config.StorageConfig{Mode: "azure"}, logger.Nop())
	assert.Error(t, err)
}
