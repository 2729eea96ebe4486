package catalog

import (
	"context"

	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el repositorio
// de productos atado a esa tx. Cada lote de importación es una transacción.
type TxRunner interface {
	RunProducts(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}
