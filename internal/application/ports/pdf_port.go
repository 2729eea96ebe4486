package ports

import (
	"context"

	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
)

// OrderPDFGenerator genera la hoja de surtido / remisión de un pedido.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, view aggregation.OrderView) ([]byte, error)
}
