package ports

import (
	"io"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
)

// ProductSheet lectura determinista de la plantilla CSV de productos.
type ProductSheet interface {
	ReadProducts(r io.Reader) ([]dto.ProductImportRow, error)
	Template() ([]byte, error)
}

// OrderSheet escribe el archivo de captura para Punto Zero.
type OrderSheet interface {
	WriteOrders(w io.Writer, rows []aggregation.ExportRow) error
}
