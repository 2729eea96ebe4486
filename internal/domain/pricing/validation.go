package pricing

import (
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// ValidateProduct reglas de alta/edición de productos.
func ValidateProduct(p *entity.Product) error {
	if p.Name == "" {
		return domain.NewValidationError("name", "el nombre es requerido")
	}
	if p.SKU == "" {
		return domain.NewValidationError("sku", "el SKU es requerido")
	}
	if !p.IsMasterProduct && !p.WholesalePrice.IsPositive() {
		return domain.NewValidationError("wholesale_price", "el precio de mayoreo es requerido")
	}
	if !p.Category.Valid() {
		return domain.NewValidationError("category", "categoría inválida")
	}
	if !p.Unit.Valid() {
		return domain.NewValidationError("unit", "unidad inválida")
	}
	if !p.WarehouseType.Valid() {
		return domain.NewValidationError("warehouse_type", "tipo de bodega inválido")
	}
	if p.IsMasterProduct && p.IsVariant() {
		return domain.NewValidationError("master_product_id", "un producto maestro no puede ser variante")
	}
	if p.IsVariant() && p.VariantName == "" {
		return domain.NewValidationError("variant_name", "la variante requiere nombre")
	}
	if p.IsVariant() && p.MasterProductID == p.ID {
		return domain.NewValidationError("master_product_id", "un producto no puede ser su propio maestro")
	}
	for _, l := range entity.PriceLists {
		if v, ok := p.ListPrice(l); ok && v.IsNegative() {
			return domain.NewValidationError(string(l), "el precio no puede ser negativo")
		}
	}
	if p.OfferPrice.Valid && p.OfferPrice.Decimal.IsNegative() {
		return domain.NewValidationError("offer_price", "el precio de oferta no puede ser negativo")
	}
	return nil
}
