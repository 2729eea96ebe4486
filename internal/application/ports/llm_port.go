package ports

import (
	"context"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
)

// ProductExtractor define el puerto de salida para la extracción de productos con IA.
// Cualquier adaptador (Anthropic, OpenAI, Gemini, mock) debe implementar esta interfaz.
// La aplicación solo conoce este contrato, no el proveedor concreto.
type ProductExtractor interface {
	// ExtractProducts lee el archivo subido y devuelve los renglones siguiendo
	// el esquema de dto.ProductImportRows. Los valores se normalizan después.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	ExtractProducts(ctx context.Context, filename string, content []byte) ([]dto.ProductImportRow, error)
}
