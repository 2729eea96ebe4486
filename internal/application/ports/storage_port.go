package ports

import "context"

// FileStorage guarda archivos subidos (importaciones) y devuelve su URL.
type FileStorage interface {
	Save(ctx context.Context, key string, content []byte, contentType string) (string, error)
}
