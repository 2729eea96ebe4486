package aggregation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
)

// LineView cantidades solicitada, surtida y facturada de una línea.
type LineView struct {
	Line                 *entity.OrderLine
	Fulfilled            decimal.Decimal
	Billed               decimal.Decimal
	BilledSubtotal       decimal.Decimal
	Measured             bool
	FinalMeasurementUnit string
	WarehouseType        entity.WarehouseType
	Shortage             bool
}

// OrderView pedido con sus líneas y totales de lectura.
type OrderView struct {
	Order        *entity.Order
	Lines        []LineView
	DisplayTotal decimal.Decimal
	BilledTotal  decimal.Decimal // recalculado con los datos actuales de las líneas
	HasShortages bool
}

// BuildOrderView arma la vista. products debe contener los productos de las líneas;
// si falta alguno se trata como no medido.
func BuildOrderView(o *entity.Order, lines []*entity.OrderLine, products map[string]*entity.Product) OrderView {
	measured := orderflow.MeasuredFromProducts(products)
	v := OrderView{Order: o, DisplayTotal: orderflow.DisplayTotal(o), BilledTotal: orderflow.TotalFinal(lines, measured)}
	for _, l := range lines {
		lv := LineView{
			Line:      l,
			Fulfilled: l.FulfilledQuantity(),
			Measured:  measured(l.ProductID),
		}
		lv.Billed = l.BilledQuantity(lv.Measured)
		lv.BilledSubtotal = lv.Billed.Mul(l.UnitPrice)
		lv.Shortage = lv.Fulfilled.LessThan(l.QuantityRequested)
		if p, ok := products[l.ProductID]; ok {
			lv.FinalMeasurementUnit = p.FinalMeasurementUnit
			lv.WarehouseType = p.WarehouseType
		}
		v.HasShortages = v.HasShortages || lv.Shortage
		v.Lines = append(v.Lines, lv)
	}
	return v
}
