package orders

import (
	"context"

	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios de pedidos y líneas atados a esa tx. Cabecera y líneas se
// escriben juntas o no se escriben.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
	) error) error
}
