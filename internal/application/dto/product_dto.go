package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest alta o edición completa de un producto (admin).
type ProductRequest struct {
	SKU                  string           `json:"sku" validate:"required,max=100"`
	Name                 string           `json:"name" validate:"required,max=200"`
	Description          string           `json:"description" validate:"max=2000"`
	ImageURL             string           `json:"image_url" validate:"omitempty,url"`
	Category             string           `json:"category" validate:"omitempty,oneof=quesos cremas mantequillas yogures leches otros"`
	Unit                 string           `json:"unit" validate:"omitempty,oneof=pieza caja paquete kg litro"`
	WholesalePrice       decimal.Decimal  `json:"wholesale_price"`
	PriceList1           *decimal.Decimal `json:"price_list_1"`
	PriceList2           *decimal.Decimal `json:"price_list_2"`
	PriceList3           *decimal.Decimal `json:"price_list_3"`
	PriceList4           *decimal.Decimal `json:"price_list_4"`
	PriceList5           *decimal.Decimal `json:"price_list_5"`
	IsActive             *bool            `json:"is_active"`
	WarehouseType        string           `json:"warehouse_type" validate:"omitempty,oneof=secos refrigerados barra mixto"`
	HasFinalMeasurement  bool             `json:"has_final_measurement"`
	FinalMeasurementUnit string           `json:"final_measurement_unit" validate:"max=20"`
	IsOnOffer            bool             `json:"is_on_offer"`
	OfferPrice           *decimal.Decimal `json:"offer_price"`
	OfferDescription     string           `json:"offer_description" validate:"max=500"`
	IsMasterProduct      bool             `json:"is_master_product"`
	MasterProductID      string           `json:"master_product_id" validate:"omitempty,uuid"`
	VariantName          string           `json:"variant_name" validate:"max=100"`
	VariantOrder         int              `json:"variant_order"`
}

// ProductResponse salida de un producto (vista admin).
type ProductResponse struct {
	ID                   string              `json:"id"`
	SKU                  string              `json:"sku"`
	Name                 string              `json:"name"`
	Description          string              `json:"description,omitempty"`
	ImageURL             string              `json:"image_url,omitempty"`
	Category             string              `json:"category"`
	Unit                 string              `json:"unit"`
	WholesalePrice       decimal.Decimal     `json:"wholesale_price"`
	PriceList1           decimal.NullDecimal `json:"price_list_1"`
	PriceList2           decimal.NullDecimal `json:"price_list_2"`
	PriceList3           decimal.NullDecimal `json:"price_list_3"`
	PriceList4           decimal.NullDecimal `json:"price_list_4"`
	PriceList5           decimal.NullDecimal `json:"price_list_5"`
	IsActive             bool                `json:"is_active"`
	WarehouseType        string              `json:"warehouse_type"`
	HasFinalMeasurement  bool                `json:"has_final_measurement"`
	FinalMeasurementUnit string              `json:"final_measurement_unit,omitempty"`
	IsOnOffer            bool                `json:"is_on_offer"`
	OfferPrice           decimal.NullDecimal `json:"offer_price"`
	OfferDescription     string              `json:"offer_description,omitempty"`
	IsMasterProduct      bool                `json:"is_master_product"`
	MasterProductID      string              `json:"master_product_id,omitempty"`
	VariantName          string              `json:"variant_name,omitempty"`
	VariantOrder         int                 `json:"variant_order"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// ProductListFilter filtros del listado admin.
type ProductListFilter struct {
	Category   string `query:"category"`
	Search     string `query:"search"`
	ActiveOnly bool   `query:"active_only"`
}

// PricedProduct producto con el precio que paga el cliente.
type PricedProduct struct {
	ID                   string          `json:"id"`
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	ImageURL             string          `json:"image_url,omitempty"`
	Category             string          `json:"category"`
	Unit                 string          `json:"unit"`
	ListPrice            decimal.Decimal `json:"list_price"`
	Price                decimal.Decimal `json:"price"`
	Discounted           bool            `json:"discounted"`
	OfferDescription     string          `json:"offer_description,omitempty"`
	HasFinalMeasurement  bool            `json:"has_final_measurement"`
	FinalMeasurementUnit string          `json:"final_measurement_unit,omitempty"`
	IsMasterProduct      bool            `json:"is_master_product"`
	VariantName          string          `json:"variant_name,omitempty"`
	Variants             []PricedProduct `json:"variants,omitempty"`
}

// CatalogResponse catálogo para armar pedidos: productos a mostrar con variantes agrupadas.
type CatalogResponse struct {
	ClientID  string          `json:"client_id"`
	PriceList string          `json:"price_list"`
	Items     []PricedProduct `json:"items"`
}
