package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, image_url, category, unit, wholesale_price,
	price_list_1, price_list_2, price_list_3, price_list_4, price_list_5,
	is_active, warehouse_type, has_final_measurement, final_measurement_unit,
	is_on_offer, offer_price, offer_description, is_master_product, master_product_id,
	variant_name, variant_order, created_at, updated_at`

const insertProductSQL = `INSERT INTO products (` + productColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func productArgs(p *entity.Product) []any {
	return []any{
		p.ID, p.SKU, p.Name, p.Description, p.ImageURL, string(p.Category), string(p.Unit), p.WholesalePrice,
		p.PriceList1, p.PriceList2, p.PriceList3, p.PriceList4, p.PriceList5,
		p.IsActive, string(p.WarehouseType), p.HasFinalMeasurement, p.FinalMeasurementUnit,
		p.IsOnOffer, p.OfferPrice, p.OfferDescription, p.IsMasterProduct, nullIfEmpty(p.MasterProductID),
		p.VariantName, p.VariantOrder, p.CreatedAt, p.UpdatedAt,
	}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if _, err := r.q.Exec(ctx, insertProductSQL, productArgs(p)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// BulkCreate inserta el lote en un solo batch. Usar dentro de una transacción
// para que el lote sea todo o nada.
func (r *ProductRepo) BulkCreate(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, p := range products {
		b.Queue(insertProductSQL, productArgs(p)...)
	}
	if err := execBatch(ctx, r.q, b, len(products), "bulk insert product"); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		}
		return err
	}
	return nil
}

// GetByID obtiene un producto por ID. nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update reescribe todos los campos editables.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET
			sku = $2, name = $3, description = $4, image_url = $5, category = $6, unit = $7, wholesale_price = $8,
			price_list_1 = $9, price_list_2 = $10, price_list_3 = $11, price_list_4 = $12, price_list_5 = $13,
			is_active = $14, warehouse_type = $15, has_final_measurement = $16, final_measurement_unit = $17,
			is_on_offer = $18, offer_price = $19, offer_description = $20, is_master_product = $21,
			master_product_id = $22, variant_name = $23, variant_order = $24, updated_at = $25
		WHERE id = $1`
	vals := productArgs(p)
	vals = append(vals[:24], p.UpdatedAt)
	tag, err := r.q.Exec(ctx, query, vals...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve productos ordenados por categoría y nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var a args
	if f.ActiveOnly {
		a.add("is_active = ?", true)
	}
	if f.Category != "" {
		a.add("category = ?", string(f.Category))
	}
	if f.Search != "" {
		a.add("(name ILIKE ? OR sku ILIKE ?)", likePattern(f.Search))
	}
	if f.IDs != nil {
		a.add("id = ANY(?)", f.IDs)
	}
	if f.OnOffer {
		a.add("is_on_offer = ? AND offer_price IS NOT NULL", true)
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+a.clause()+` ORDER BY category, name, variant_order`, a.vals...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category, unit, warehouse string
	var master *string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.ImageURL, &category, &unit, &p.WholesalePrice,
		&p.PriceList1, &p.PriceList2, &p.PriceList3, &p.PriceList4, &p.PriceList5,
		&p.IsActive, &warehouse, &p.HasFinalMeasurement, &p.FinalMeasurementUnit,
		&p.IsOnOffer, &p.OfferPrice, &p.OfferDescription, &p.IsMasterProduct, &master,
		&p.VariantName, &p.VariantOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = entity.Category(category)
	p.Unit = entity.Unit(unit)
	p.WarehouseType = entity.WarehouseType(warehouse)
	if master != nil {
		p.MasterProductID = *master
	}
	return &p, nil
}
