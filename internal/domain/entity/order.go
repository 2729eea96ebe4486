package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido.
type OrderStatus string

const (
	StatusPendienteRevision OrderStatus = "pendiente_revision"
	StatusEnSurtido         OrderStatus = "en_surtido"
	StatusListoRevision     OrderStatus = "listo_revision"
	StatusAjustado          OrderStatus = "ajustado"
	StatusListoCaptura      OrderStatus = "listo_captura"
	StatusCancelado         OrderStatus = "cancelado"
)

var OrderStatuses = []OrderStatus{
	StatusPendienteRevision, StatusEnSurtido, StatusListoRevision,
	StatusAjustado, StatusListoCaptura, StatusCancelado,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal: listo_captura y cancelado no admiten más transiciones.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusListoCaptura || s == StatusCancelado
}

// Label etiqueta para mostrar.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPendienteRevision:
		return "Pendiente de revisión"
	case StatusEnSurtido:
		return "En surtido"
	case StatusListoRevision:
		return "Listo para revisión"
	case StatusAjustado:
		return "Ajustado"
	case StatusListoCaptura:
		return "Listo para captura"
	case StatusCancelado:
		return "Cancelado"
	}
	return string(s)
}

// Order cabecera del pedido. ClientName es copia congelada al crear.
// TotalFinal queda nulo hasta que el pedido sale de en_surtido.
type Order struct {
	ID             string
	OrderNumber    string
	ClientID       string
	ClientName     string
	Status         OrderStatus
	Notes          string
	TotalEstimated decimal.Decimal
	TotalFinal     decimal.NullDecimal
	CreatedBy      string
	CreatedDate    time.Time
	UpdatedAt      time.Time
}

// OrderLine renglón del pedido. UnitPrice es el precio congelado al crear.
type OrderLine struct {
	ID                    string
	OrderID               string
	ProductID             string
	ProductSKU            string
	ProductName           string
	Unit                  Unit
	QuantityRequested     decimal.Decimal
	QuantityRequestedUnit Unit
	UnitPrice             decimal.Decimal
	Subtotal              decimal.Decimal
	QuantityFulfilled     decimal.NullDecimal
	FinalBilledQuantity   decimal.NullDecimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FulfilledQuantity surtido capturado o, si no hay, lo solicitado.
func (l *OrderLine) FulfilledQuantity() decimal.Decimal {
	if l.QuantityFulfilled.Valid {
		return l.QuantityFulfilled.Decimal
	}
	return l.QuantityRequested
}

// BilledQuantity cantidad que se factura: la medición final para productos
// medidos, si no el surtido.
func (l *OrderLine) BilledQuantity(measured bool) decimal.Decimal {
	if measured && l.FinalBilledQuantity.Valid {
		return l.FinalBilledQuantity.Decimal
	}
	return l.FulfilledQuantity()
}
