package catalog

import (
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/pricing"
)

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                   p.ID,
		SKU:                  p.SKU,
		Name:                 p.Name,
		Description:          p.Description,
		ImageURL:             p.ImageURL,
		Category:             string(p.Category),
		Unit:                 string(p.Unit),
		WholesalePrice:       p.WholesalePrice,
		PriceList1:           p.PriceList1,
		PriceList2:           p.PriceList2,
		PriceList3:           p.PriceList3,
		PriceList4:           p.PriceList4,
		PriceList5:           p.PriceList5,
		IsActive:             p.IsActive,
		WarehouseType:        string(p.WarehouseType),
		HasFinalMeasurement:  p.HasFinalMeasurement,
		FinalMeasurementUnit: p.FinalMeasurementUnit,
		IsOnOffer:            p.IsOnOffer,
		OfferPrice:           p.OfferPrice,
		OfferDescription:     p.OfferDescription,
		IsMasterProduct:      p.IsMasterProduct,
		MasterProductID:      p.MasterProductID,
		VariantName:          p.VariantName,
		VariantOrder:         p.VariantOrder,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// ToPricedProduct producto con el precio resuelto para la lista del cliente.
func ToPricedProduct(q pricing.Quote) dto.PricedProduct {
	p := q.Product
	out := dto.PricedProduct{
		ID:                   p.ID,
		SKU:                  p.SKU,
		Name:                 p.Name,
		ImageURL:             p.ImageURL,
		Category:             string(p.Category),
		Unit:                 string(p.Unit),
		ListPrice:            q.ListPrice,
		Price:                q.Price,
		Discounted:           q.Discounted,
		HasFinalMeasurement:  p.HasFinalMeasurement,
		FinalMeasurementUnit: p.FinalMeasurementUnit,
		IsMasterProduct:      p.IsMasterProduct,
		VariantName:          p.VariantName,
	}
	if q.Discounted {
		out.OfferDescription = p.OfferDescription
	}
	return out
}
