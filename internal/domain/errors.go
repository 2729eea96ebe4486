package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUpstream           = errors.New("servicio externo no disponible")
	ErrEmptyExport        = errors.New("No hay pedidos listos para exportar")
	ErrEmptyCart          = &ValidationError{Field: "lines", Message: "Agrega al menos un producto al pedido"}
	ErrNoClient           = &ValidationError{Field: "client_id", Message: "Selecciona un cliente"}

	// ErrInvalidTransition: acción no permitida desde el estado actual o para el rol.
	ErrInvalidTransition = fmt.Errorf("transición de estado inválida: %w", ErrConflict)

	// ErrVariantNotSelected: se intentó pedir un producto maestro sin elegir variante.
	ErrVariantNotSelected = fmt.Errorf("selecciona una presentación del producto: %w", ErrInvalidInput)
)

// ValidationError falla de validación previa a una escritura. Es ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// PartialBatchError una parte de una escritura masiva falló; el resto se aplicó.
type PartialBatchError struct {
	Succeeded int
	Total     int
	Failures  []string
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%d de %d registros procesados correctamente", e.Succeeded, e.Total)
}

// UpstreamError envuelve una falla del almacén, extractor o almacenamiento de archivos.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstream, e.Err} }

// Upstream envuelve err como UpstreamError; nil se conserva.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
