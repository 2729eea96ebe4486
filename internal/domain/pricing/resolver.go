// Package pricing resuelve precios por cliente, ofertas y agrupación maestro/variantes.
// Funciones puras sobre catálogo y cliente ya cargados.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// ResolveClientPrice precio de lista del cliente: la lista asignada si el
// producto la define, si no el precio de mayoreo.
func ResolveClientPrice(p *entity.Product, c *entity.Client) decimal.Decimal {
	return ResolveListPrice(p, c.PriceListOrDefault())
}

// ResolveListPrice igual que ResolveClientPrice pero con la lista explícita.
func ResolveListPrice(p *entity.Product, list entity.PriceList) decimal.Decimal {
	if v, ok := p.ListPrice(list); ok {
		return v
	}
	return p.WholesalePrice
}

// ResolveEffectivePrice aplica la oferta sólo si es estrictamente menor al
// precio de lista. discounted indica si se aplicó.
func ResolveEffectivePrice(p *entity.Product, listPrice decimal.Decimal) (price decimal.Decimal, discounted bool) {
	if p.HasOffer() && p.OfferPrice.Decimal.LessThan(listPrice) {
		return p.OfferPrice.Decimal, true
	}
	return listPrice, false
}

// Quote precio resuelto de un producto para una lista.
type Quote struct {
	Product    *entity.Product
	ListPrice  decimal.Decimal
	Price      decimal.Decimal
	Discounted bool
}

// QuoteFor resuelve lista y oferta en un paso.
func QuoteFor(p *entity.Product, list entity.PriceList) Quote {
	lp := ResolveListPrice(p, list)
	price, disc := ResolveEffectivePrice(p, lp)
	return Quote{Product: p, ListPrice: lp, Price: price, Discounted: disc}
}

// EnsureOrderable rechaza maestros (sin variante elegida) y productos inactivos.
func EnsureOrderable(p *entity.Product) error {
	if p.IsMasterProduct {
		return domain.ErrVariantNotSelected
	}
	if !p.IsActive {
		return domain.NewValidationError("product_id", "el producto "+p.SKU+" no está disponible")
	}
	return nil
}
