// Package csvio lectura y escritura de archivos CSV: plantilla de productos
// y archivo de captura para Punto Zero.
package csvio

import (
	"encoding/csv"
	"io"

	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
)

var _ ports.OrderSheet = (*OrderSheet)(nil)

// ExportHeaders columnas del archivo de captura, en orden.
var ExportHeaders = []string{
	"Número de Pedido", "Cliente", "Fecha", "Producto", "SKU", "Unidad",
	"Cantidad Surtida", "Precio Unitario", "Subtotal", "Notas",
}

// OrderSheet escritor del CSV de pedidos.
type OrderSheet struct{}

// NewOrderSheet construye el escritor.
func NewOrderSheet() *OrderSheet { return &OrderSheet{} }

// WriteOrders emite encabezados y un renglón por línea. Montos con 2 decimales.
func (s *OrderSheet) WriteOrders(w io.Writer, rows []aggregation.ExportRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(ExportHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{
			r.OrderNumber,
			r.ClientName,
			r.Date,
			r.ProductName,
			r.SKU,
			r.Unit,
			r.Quantity.String(),
			r.UnitPrice.StringFixed(2),
			r.Subtotal.StringFixed(2),
			r.Notes,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
