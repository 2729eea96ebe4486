package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

var _ ports.FileStorage = (*AzureBlobStorage)(nil)

// AzureBlobStorage archivos en un contenedor de Azure Blob Storage.
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	log           *logger.Logger
}

// NewAzureBlobStorage crea el cliente y el contenedor si no existe.
func NewAzureBlobStorage(connectionString, containerName string, log *logger.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: crear cliente blob: %w", err)
	}
	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("storage: crear contenedor: %w", err)
	}
	log.Info().Str("container", containerName).Msg("Azure Blob Storage inicializado")
	return &AzureBlobStorage{client: client, containerName: containerName, log: log}, nil
}

// Save sube el archivo y devuelve la URL del blob.
func (s *AzureBlobStorage) Save(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	_, err := s.client.UploadBuffer(ctx, s.containerName, key, content, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("storage: subir blob: %w", err)
	}
	s.log.Info().
		Str("blob", key).
		Str("container", s.containerName).
		Int("size", len(content)).
		Msg("archivo subido")
	return strings.TrimSuffix(s.client.URL(), "/") + "/" + s.containerName + "/" + key, nil
}
