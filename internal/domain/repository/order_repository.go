package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// OrderFilter predicado de búsqueda: igualdad, distinto, pertenencia a conjunto
// y rango de fechas. Resultados ordenados por created_date descendente.
type OrderFilter struct {
	ID              string
	Statuses        []entity.OrderStatus // in
	ExcludeStatuses []entity.OrderStatus // ne
	ClientIDs       []string             // in; nil = sin filtro, vacío = ninguno
	From            *time.Time
	To              *time.Time
	Search          string // número de pedido o nombre de cliente
	Limit           int
}

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatus persiste estado y total_final sólo si el pedido sigue en
	// from; si no, ErrInvalidTransition.
	UpdateStatus(ctx context.Context, order *entity.Order, from entity.OrderStatus) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
}

// OrderLineRepository define el puerto de persistencia para OrderLine (DIP).
type OrderLineRepository interface {
	BulkCreate(ctx context.Context, lines []*entity.OrderLine) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderLine, error)
	ListByOrders(ctx context.Context, orderIDs []string) ([]*entity.OrderLine, error)
	// UpdateFulfillment persiste quantity_fulfilled y final_billed_quantity de cada línea.
	UpdateFulfillment(ctx context.Context, lines []*entity.OrderLine) error
}
