package orderflow

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// CartLine renglón del carrito antes de crear el pedido.
type CartLine struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CartTotal Σ cantidad × precio.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}

// Measured indica si un producto se factura por medición final.
type Measured func(productID string) bool

// MeasuredFromProducts arma Measured a partir del catálogo cargado.
func MeasuredFromProducts(products map[string]*entity.Product) Measured {
	return func(id string) bool {
		p, ok := products[id]
		return ok && p.HasFinalMeasurement
	}
}

// LineBilledSubtotal cantidad facturada × precio congelado.
func LineBilledSubtotal(l *entity.OrderLine, measured Measured) decimal.Decimal {
	return l.BilledQuantity(measured(l.ProductID)).Mul(l.UnitPrice)
}

// TotalFinal Σ sobre todas las líneas de cantidad facturada × precio.
func TotalFinal(lines []*entity.OrderLine, measured Measured) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineBilledSubtotal(l, measured))
	}
	return total
}

// DisplayTotal total final si existe, si no el estimado.
func DisplayTotal(o *entity.Order) decimal.Decimal {
	if o.TotalFinal.Valid {
		return o.TotalFinal.Decimal
	}
	return o.TotalEstimated
}

// Shortage faltante de surtido en una línea visible.
type Shortage struct {
	LineID    string
	SKU       string
	Requested decimal.Decimal
	Fulfilled decimal.Decimal
}

// Shortages líneas donde lo surtido es menor a lo solicitado.
func Shortages(lines []*entity.OrderLine) []Shortage {
	var out []Shortage
	for _, l := range lines {
		f := l.FulfilledQuantity()
		if f.LessThan(l.QuantityRequested) {
			out = append(out, Shortage{LineID: l.ID, SKU: l.ProductSKU, Requested: l.QuantityRequested, Fulfilled: f})
		}
	}
	return out
}

// VisibleLines subconjunto de líneas que surte la bodega.
func VisibleLines(lines []*entity.OrderLine, products map[string]*entity.Product, scope entity.WarehouseScope) []*entity.OrderLine {
	var out []*entity.OrderLine
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if ok && scope.Covers(p.WarehouseType) {
			out = append(out, l)
		}
	}
	return out
}
