package orders

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
)

// ExportFile archivo listo para descargar.
type ExportFile struct {
	Filename string
	Content  []byte
	Rows     int
}

// ExportUseCase exporta a Punto Zero los pedidos listo_captura que cumplen los
// filtros del administrador.
type ExportUseCase struct {
	orders *OrderUseCase
	sheet  ports.OrderSheet
}

// NewExportUseCase construye el caso de uso sobre las lecturas de OrderUseCase.
func NewExportUseCase(orders *OrderUseCase, sheet ports.OrderSheet) *ExportUseCase {
	return &ExportUseCase{orders: orders, sheet: sheet}
}

// Export genera el CSV. Sin renglones devuelve domain.ErrEmptyExport.
func (uc *ExportUseCase) Export(ctx context.Context, actor entity.Actor, q dto.OrderFilterQuery) (*ExportFile, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	f, empty, err := uc.orders.filterFor(actor, q)
	if err != nil {
		return nil, err
	}
	if empty || (len(f.Statuses) > 0 && !containsStatus(f.Statuses, entity.StatusListoCaptura)) {
		return nil, domain.ErrEmptyExport
	}
	f.Statuses = []entity.OrderStatus{entity.StatusListoCaptura}

	list, err := uc.orders.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("exportación: listar pedidos: %w", err)
	}
	if len(list) == 0 {
		return nil, domain.ErrEmptyExport
	}
	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	lines, err := uc.orders.lines.ListByOrders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("exportación: líneas: %w", err)
	}
	byOrder := make(map[string][]*entity.OrderLine, len(list))
	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
		productIDs = append(productIDs, l.ProductID)
	}
	products, err := uc.orders.productMap(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	rows := aggregation.ExportRows(list, byOrder, orderflow.MeasuredFromProducts(products), uc.orders.loc)
	if len(rows) == 0 {
		return nil, domain.ErrEmptyExport
	}
	var buf bytes.Buffer
	if err := uc.sheet.WriteOrders(&buf, rows); err != nil {
		return nil, fmt.Errorf("exportación: escribir csv: %w", err)
	}
	return &ExportFile{
		Filename: aggregation.ExportFilename(uc.orders.now().In(uc.orders.loc)),
		Content:  buf.Bytes(),
		Rows:     len(rows),
	}, nil
}
