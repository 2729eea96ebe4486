package repository

import (
	"context"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// ProductFilter criterios de búsqueda del catálogo.
type ProductFilter struct {
	ActiveOnly bool
	Category   entity.Category
	Search     string // nombre o SKU, sin distinguir mayúsculas
	IDs        []string
	OnOffer    bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// BulkCreate inserta todos o ninguno.
	BulkCreate(ctx context.Context, products []*entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
}
