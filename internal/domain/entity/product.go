package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo del catálogo. Nunca se borra; se desactiva con IsActive=false.
// Un maestro (IsMasterProduct) agrupa variantes y no tiene precio propio.
type Product struct {
	ID                   string
	SKU                  string
	Name                 string
	Description          string
	ImageURL             string
	Category             Category
	Unit                 Unit
	WholesalePrice       decimal.Decimal
	PriceList1           decimal.NullDecimal
	PriceList2           decimal.NullDecimal
	PriceList3           decimal.NullDecimal
	PriceList4           decimal.NullDecimal
	PriceList5           decimal.NullDecimal
	IsActive             bool
	WarehouseType        WarehouseType
	HasFinalMeasurement  bool
	FinalMeasurementUnit string
	IsOnOffer            bool
	OfferPrice           decimal.NullDecimal
	OfferDescription     string
	IsMasterProduct      bool
	MasterProductID      string // vacío si no es variante
	VariantName          string
	VariantOrder         int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ListPrice devuelve el precio de la lista indicada, si está definido.
func (p *Product) ListPrice(list PriceList) (decimal.Decimal, bool) {
	var v decimal.NullDecimal
	switch list {
	case PriceList1:
		v = p.PriceList1
	case PriceList2:
		v = p.PriceList2
	case PriceList3:
		v = p.PriceList3
	case PriceList4:
		v = p.PriceList4
	case PriceList5:
		v = p.PriceList5
	}
	return v.Decimal, v.Valid
}

// SetListPrice asigna (o limpia con Valid=false) el precio de una lista.
func (p *Product) SetListPrice(list PriceList, v decimal.NullDecimal) {
	switch list {
	case PriceList1:
		p.PriceList1 = v
	case PriceList2:
		p.PriceList2 = v
	case PriceList3:
		p.PriceList3 = v
	case PriceList4:
		p.PriceList4 = v
	case PriceList5:
		p.PriceList5 = v
	}
}

// IsVariant indica si el producto cuelga de un maestro.
func (p *Product) IsVariant() bool { return p.MasterProductID != "" }

// HasOffer oferta activa con precio configurado.
func (p *Product) HasOffer() bool { return p.IsOnOffer && p.OfferPrice.Valid }
