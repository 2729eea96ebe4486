// Package aggregation vistas de lectura: renglones de exportación,
// sugerencias de venta y estadísticas del tablero.
package aggregation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
)

// ExportDateLayout dd/MM/yyyy HH:mm.
const ExportDateLayout = "02/01/2006 15:04"

// ExportRow un renglón de pedido aplanado para Punto Zero.
type ExportRow struct {
	OrderNumber string
	ClientName  string
	Date        string
	ProductName string
	SKU         string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Notes       string
}

// ExportRows aplana los pedidos listo_captura; cualquier otro estado no aporta renglones.
// linesByOrder agrupa las líneas por id de pedido.
func ExportRows(
	orders []*entity.Order,
	linesByOrder map[string][]*entity.OrderLine,
	measured orderflow.Measured,
	loc *time.Location,
) []ExportRow {
	if loc == nil {
		loc = time.UTC
	}
	var rows []ExportRow
	for _, o := range orders {
		if o.Status != entity.StatusListoCaptura {
			continue
		}
		number := orderflow.ShortNumber(o.OrderNumber, o.ID)
		date := o.CreatedDate.In(loc).Format(ExportDateLayout)
		for _, l := range linesByOrder[o.ID] {
			qty := l.BilledQuantity(measured(l.ProductID))
			rows = append(rows, ExportRow{
				OrderNumber: number,
				ClientName:  o.ClientName,
				Date:        date,
				ProductName: l.ProductName,
				SKU:         l.ProductSKU,
				Unit:        string(l.Unit),
				Quantity:    qty,
				UnitPrice:   l.UnitPrice,
				Subtotal:    qty.Mul(l.UnitPrice),
				Notes:       o.Notes,
			})
		}
	}
	return rows
}

// ExportFilename pedidos_punto_zero_<yyyyMMdd_HHmm>.csv.
func ExportFilename(now time.Time) string {
	return "pedidos_punto_zero_" + now.Format("20060102_1504") + ".csv"
}
