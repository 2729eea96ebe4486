package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem renglón del carrito. El precio lo resuelve el servidor.
type CartItem struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest alta de pedido. El cliente es siempre el asignado al usuario.
type CreateOrderRequest struct {
	Notes string     `json:"notes" validate:"max=1000"`
	Items []CartItem `json:"items" validate:"dive"`
}

// LineQuantities cantidades capturadas para una línea.
type LineQuantities struct {
	LineID              string           `json:"line_id" validate:"required,uuid"`
	QuantityFulfilled   *decimal.Decimal `json:"quantity_fulfilled"`
	FinalBilledQuantity *decimal.Decimal `json:"final_billed_quantity"`
}

// FulfillmentRequest cierre de surtido o ajuste del vendedor.
type FulfillmentRequest struct {
	Lines []LineQuantities `json:"lines" validate:"dive"`
}

// OrderFilterQuery filtros de listado (query string).
type OrderFilterQuery struct {
	Status   string `query:"status"`
	ClientID string `query:"client_id"`
	Search   string `query:"search"`
	From     string `query:"from"` // yyyy-mm-dd
	To       string `query:"to"`   // yyyy-mm-dd, inclusivo
}

// OrderLineResponse línea con cantidades solicitada, surtida y facturada.
type OrderLineResponse struct {
	ID                    string              `json:"id"`
	ProductID             string              `json:"product_id"`
	ProductSKU            string              `json:"product_sku"`
	ProductName           string              `json:"product_name"`
	Unit                  string              `json:"unit"`
	WarehouseType         string              `json:"warehouse_type,omitempty"`
	QuantityRequested     decimal.Decimal     `json:"quantity_requested"`
	QuantityRequestedUnit string              `json:"quantity_requested_unit"`
	UnitPrice             decimal.Decimal     `json:"unit_price"`
	Subtotal              decimal.Decimal     `json:"subtotal"`
	QuantityFulfilled     decimal.NullDecimal `json:"quantity_fulfilled"`
	FinalBilledQuantity   decimal.NullDecimal `json:"final_billed_quantity"`
	HasFinalMeasurement   bool                `json:"has_final_measurement"`
	FinalMeasurementUnit  string              `json:"final_measurement_unit,omitempty"`
	BilledQuantity        decimal.Decimal     `json:"billed_quantity"`
	BilledSubtotal        decimal.Decimal     `json:"billed_subtotal"`
	Shortage              bool                `json:"shortage"`
}

// OrderResponse cabecera del pedido.
type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	ClientID       string              `json:"client_id"`
	ClientName     string              `json:"client_name"`
	Status         string              `json:"status"`
	StatusLabel    string              `json:"status_label"`
	Notes          string              `json:"notes,omitempty"`
	TotalEstimated decimal.Decimal     `json:"total_estimated"`
	TotalFinal     decimal.NullDecimal `json:"total_final"`
	DisplayTotal   decimal.Decimal     `json:"display_total"`
	CreatedDate    time.Time           `json:"created_date"`
}

// OrderDetailResponse pedido con líneas, acciones disponibles y faltantes.
type OrderDetailResponse struct {
	OrderResponse
	Lines        []OrderLineResponse `json:"lines"`
	BilledTotal  decimal.Decimal     `json:"billed_total"`
	HasShortages bool                `json:"has_shortages"`
	CanEdit      bool                `json:"can_edit"`
	Actions      []string            `json:"actions"`
}

// SuggestionsResponse sugerencias de venta para el carrito actual.
type SuggestionsResponse struct {
	Frequent []PricedProduct `json:"frequent"`
	Offers   []PricedProduct `json:"offers"`
}
