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

var (
	_ repository.OrderRepository     = (*OrderRepo)(nil)
	_ repository.OrderLineRepository = (*OrderLineRepo)(nil)
)

const orderColumns = `id, order_number, client_id, client_name, status, notes, total_estimated, total_final,
	created_by, created_date, updated_at`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.ClientID, o.ClientName, string(o.Status), o.Notes, o.TotalEstimated, o.TotalFinal,
		nullIfEmpty(o.CreatedBy), o.CreatedDate, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido. nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// UpdateStatus persiste estado y total final si el pedido sigue en from.
// El predicado sobre status se reevalúa tras esperar el bloqueo de fila, así
// que de dos transiciones concurrentes sólo una escribe.
// total_estimated nunca se toca.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order, from entity.OrderStatus) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, total_final = $3, updated_at = $4 WHERE id = $1 AND status = $5`,
		o.ID, string(o.Status), o.TotalFinal, o.UpdatedAt, string(from),
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var cur string
	err = r.q.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, o.ID).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get order status: %w", err)
	}
	return fmt.Errorf("el pedido ya está en %s: %w", entity.OrderStatus(cur).Label(), domain.ErrInvalidTransition)
}

// List pedidos por predicado, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var a args
	if f.ID != "" {
		a.add("id = ?", f.ID)
	}
	if len(f.Statuses) > 0 {
		a.add("status = ANY(?)", statusStrings(f.Statuses))
	}
	if len(f.ExcludeStatuses) > 0 {
		a.add("NOT (status = ANY(?))", statusStrings(f.ExcludeStatuses))
	}
	if f.ClientIDs != nil {
		a.add("client_id = ANY(?)", f.ClientIDs)
	}
	if f.From != nil {
		a.add("created_date >= ?", *f.From)
	}
	if f.To != nil {
		a.add("created_date <= ?", *f.To)
	}
	if f.Search != "" {
		a.add("(order_number ILIKE ? OR client_name ILIKE ?)", likePattern(f.Search))
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + a.clause() + ` ORDER BY created_date DESC`
	if f.Limit > 0 {
		a.vals = append(a.vals, f.Limit)
		query += ` LIMIT ` + placeholder(len(a.vals))
	}
	rows, err := r.q.Query(ctx, query, a.vals...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func statusStrings(ss []entity.OrderStatus) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	var createdBy *string
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &o.ClientName, &status, &o.Notes, &o.TotalEstimated, &o.TotalFinal,
		&createdBy, &o.CreatedDate, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	return &o, nil
}

// ── Líneas ────────────────────────────────────────────────────────────────────

const orderLineColumns = `id, order_id, product_id, product_sku, product_name, unit, quantity_requested,
	quantity_requested_unit, unit_price, subtotal, quantity_fulfilled, final_billed_quantity, created_at, updated_at`

// OrderLineRepo implementación de OrderLineRepository (usable con pool o tx).
type OrderLineRepo struct {
	q Querier
}

// NewOrderLineRepository construye el adaptador.
func NewOrderLineRepository(q Querier) *OrderLineRepo {
	return &OrderLineRepo{q: q}
}

// BulkCreate inserta las líneas en un batch.
func (r *OrderLineRepo) BulkCreate(ctx context.Context, lines []*entity.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO order_lines (` + orderLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	b := &pgx.Batch{}
	for _, l := range lines {
		b.Queue(query,
			l.ID, l.OrderID, l.ProductID, l.ProductSKU, l.ProductName, string(l.Unit), l.QuantityRequested,
			string(l.QuantityRequestedUnit), l.UnitPrice, l.Subtotal, l.QuantityFulfilled, l.FinalBilledQuantity,
			l.CreatedAt, l.UpdatedAt,
		)
	}
	return execBatch(ctx, r.q, b, len(lines), "insert order line")
}

// ListByOrder líneas de un pedido en orden de captura.
func (r *OrderLineRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderLine, error) {
	return r.list(ctx, `SELECT `+orderLineColumns+` FROM order_lines WHERE order_id = $1 ORDER BY created_at, id`, orderID)
}

// ListByOrders líneas de varios pedidos.
func (r *OrderLineRepo) ListByOrders(ctx context.Context, orderIDs []string) ([]*entity.OrderLine, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+orderLineColumns+` FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, created_at, id`, orderIDs)
}

// UpdateFulfillment escribe cantidades surtidas y facturadas en un batch.
func (r *OrderLineRepo) UpdateFulfillment(ctx context.Context, lines []*entity.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, l := range lines {
		b.Queue(`UPDATE order_lines SET quantity_fulfilled = $2, final_billed_quantity = $3, updated_at = $4 WHERE id = $1`,
			l.ID, l.QuantityFulfilled, l.FinalBilledQuantity, l.UpdatedAt)
	}
	return execBatch(ctx, r.q, b, len(lines), "update order line")
}

func (r *OrderLineRepo) list(ctx context.Context, query string, arg any) ([]*entity.OrderLine, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		var unit, reqUnit string
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.ProductID, &l.ProductSKU, &l.ProductName, &unit, &l.QuantityRequested,
			&reqUnit, &l.UnitPrice, &l.Subtotal, &l.QuantityFulfilled, &l.FinalBilledQuantity, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		l.Unit = entity.Unit(unit)
		l.QuantityRequestedUnit = entity.Unit(reqUnit)
		out = append(out, &l)
	}
	return out, rows.Err()
}

func execBatch(ctx context.Context, q Querier, b *pgx.Batch, n int, op string) error {
	br := q.SendBatch(ctx, b)
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("%s #%d: %w", op, i+1, err)
		}
	}
	return br.Close()
}
