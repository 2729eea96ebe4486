package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
)

// PDFUseCase genera la hoja de surtido / remisión de un pedido.
// La bodega recibe sólo sus líneas, igual que en el detalle.
type PDFUseCase struct {
	orders    *OrderUseCase
	generator ports.OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando el generador.
func NewPDFUseCase(orders *OrderUseCase, generator ports.OrderPDFGenerator) *PDFUseCase {
	return &PDFUseCase{orders: orders, generator: generator}
}

// OrderPDF devuelve (pdfBytes, filename).
func (uc *PDFUseCase) OrderPDF(ctx context.Context, actor entity.Actor, id string) ([]byte, string, error) {
	ld, err := uc.orders.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateOrderPDF(ctx, ld.view(actor))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	number := orderflow.ShortNumber(ld.order.OrderNumber, ld.order.ID)
	return pdf, "pedido_" + strings.ToLower(number) + ".pdf", nil
}
