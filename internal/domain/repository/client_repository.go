package repository

import (
	"context"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// ClientFilter criterios de búsqueda de clientes.
type ClientFilter struct {
	ActiveOnly bool
	Search     string
	IDs        []string
}

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, f ClientFilter) ([]*entity.Client, error)
}
