// Package catalog casos de uso del catálogo: alta y edición de productos,
// catálogo con precios por cliente e importación masiva.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
	"github.com/jhoicas/cremeria-api/internal/domain/pricing"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos y catálogo con precios. Los productos no se
// borran: se desactivan.
type ProductUseCase struct {
	products repository.ProductRepository
	clients  repository.ClientRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, clients repository.ClientRepository) *ProductUseCase {
	return &ProductUseCase{products: products, clients: clients}
}

// Create da de alta un producto. El SKU se guarda en mayúsculas y debe ser único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	p := &entity.Product{ID: uuid.New().String(), IsActive: true, CreatedAt: now, UpdatedAt: now}
	applyProductRequest(p, in)

	existing, err := uc.products.GetBySKU(ctx, p.SKU)
	if err != nil {
		return nil, fmt.Errorf("producto: buscar sku: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("producto: crear: %w", err)
	}
	return toProductResponse(p), nil
}

// Update reemplaza los datos editables del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto: obtener: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	applyProductRequest(p, in)
	p.UpdatedAt = time.Now()
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("producto: actualizar: %w", err)
	}
	return toProductResponse(p), nil
}

// Deactivate baja lógica: is_active=false. El producto sigue en pedidos históricos.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto: obtener: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	if err := uc.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("producto: desactivar: %w", err)
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto: obtener: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// List listado administrativo (incluye inactivos salvo que se pida lo contrario).
func (uc *ProductUseCase) List(ctx context.Context, f dto.ProductListFilter) ([]dto.ProductResponse, error) {
	list, err := uc.products.List(ctx, repository.ProductFilter{
		ActiveOnly: f.ActiveOnly,
		Category:   entity.Category(f.Category),
		Search:     f.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("producto: listar: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Catalog catálogo activo con el precio efectivo del cliente. Los maestros llevan
// sus variantes ordenadas; las variantes no aparecen sueltas.
// Sin cliente (admin o bodega) se usa price_list_1.
func (uc *ProductUseCase) Catalog(ctx context.Context, actor entity.Actor, clientID string, f dto.ProductListFilter) (*dto.CatalogResponse, error) {
	list := entity.PriceList1
	resp := &dto.CatalogResponse{}
	if clientID != "" || actor.Role == entity.RoleCliente || actor.Role == entity.RoleVendedor {
		id, err := orderflow.ClientForActor(actor, clientID)
		if err != nil {
			return nil, err
		}
		client, err := uc.clients.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("catálogo: obtener cliente: %w", err)
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
		list = client.PriceListOrDefault()
		resp.ClientID = client.ID
	}
	resp.PriceList = string(list)

	all, err := uc.products.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("catálogo: listar productos: %w", err)
	}
	variants := pricing.GroupVariants(all, list)
	resp.Items = make([]dto.PricedProduct, 0, len(all))
	for _, p := range pricing.DisplayProducts(all) {
		group := variants[p.ID]
		if !matchesFilter(p, group, f) {
			continue
		}
		item := ToPricedProduct(pricing.QuoteFor(p, list))
		for _, v := range group {
			item.Variants = append(item.Variants, ToPricedProduct(v))
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

func (uc *ProductUseCase) validate(ctx context.Context, p *entity.Product) error {
	if err := pricing.ValidateProduct(p); err != nil {
		return err
	}
	if !p.IsVariant() {
		return nil
	}
	if _, err := uuid.Parse(p.MasterProductID); err != nil {
		return domain.NewValidationError("master_product_id", "el producto maestro no existe")
	}
	master, err := uc.products.GetByID(ctx, p.MasterProductID)
	if err != nil {
		return fmt.Errorf("producto: obtener maestro: %w", err)
	}
	if master == nil || !master.IsMasterProduct {
		return domain.NewValidationError("master_product_id", "el producto maestro no existe")
	}
	return nil
}

func matchesFilter(p *entity.Product, variants []pricing.Quote, f dto.ProductListFilter) bool {
	if f.Category != "" && string(p.Category) != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	if containsFold(p.Name, f.Search) || containsFold(p.SKU, f.Search) {
		return true
	}
	for _, v := range variants {
		if containsFold(v.Product.Name, f.Search) || containsFold(v.Product.SKU, f.Search) || containsFold(v.Product.VariantName, f.Search) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func applyProductRequest(p *entity.Product, in dto.ProductRequest) {
	p.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.Category = entity.Category(in.Category)
	if p.Category == "" {
		p.Category = entity.CategoryOtros
	}
	p.Unit = entity.Unit(in.Unit)
	if p.Unit == "" {
		p.Unit = entity.UnitPieza
	}
	p.WarehouseType = entity.WarehouseType(in.WarehouseType)
	if p.WarehouseType == "" {
		p.WarehouseType = entity.WarehouseMixto
	}
	p.WholesalePrice = in.WholesalePrice
	p.PriceList1 = nullable(in.PriceList1)
	p.PriceList2 = nullable(in.PriceList2)
	p.PriceList3 = nullable(in.PriceList3)
	p.PriceList4 = nullable(in.PriceList4)
	p.PriceList5 = nullable(in.PriceList5)
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.HasFinalMeasurement = in.HasFinalMeasurement
	p.FinalMeasurementUnit = ""
	if p.HasFinalMeasurement {
		p.FinalMeasurementUnit = in.FinalMeasurementUnit
	}
	p.IsOnOffer = in.IsOnOffer
	p.OfferPrice = nullable(in.OfferPrice)
	p.OfferDescription = in.OfferDescription
	p.IsMasterProduct = in.IsMasterProduct
	p.MasterProductID = strings.TrimSpace(in.MasterProductID)
	p.VariantName = strings.TrimSpace(in.VariantName)
	p.VariantOrder = in.VariantOrder
	if !p.IsVariant() {
		p.VariantName, p.VariantOrder = "", 0
	}
}

func nullable(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}
