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

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, business_name, legal_name, rfc, delivery_address, phone, email, route_zone,
	client_type, assigned_price_list, is_active, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessName, c.LegalName, c.RFC, c.DeliveryAddress, c.Phone, c.Email, c.RouteZone,
		string(c.ClientType), string(c.AssignedPriceList), c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. nil, nil si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Update reescribe los datos del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET business_name = $2, legal_name = $3, rfc = $4, delivery_address = $5, phone = $6,
			email = $7, route_zone = $8, client_type = $9, assigned_price_list = $10, is_active = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.BusinessName, c.LegalName, c.RFC, c.DeliveryAddress, c.Phone,
		c.Email, c.RouteZone, string(c.ClientType), string(c.AssignedPriceList), c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List clientes ordenados por nombre comercial.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	var a args
	if f.ActiveOnly {
		a.add("is_active = ?", true)
	}
	if f.Search != "" {
		a.add("(business_name ILIKE ? OR legal_name ILIKE ? OR rfc ILIKE ?)", likePattern(f.Search))
	}
	if f.IDs != nil {
		a.add("id = ANY(?)", f.IDs)
	}
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients`+a.clause()+` ORDER BY business_name`, a.vals...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var clientType, priceList string
	if err := row.Scan(
		&c.ID, &c.BusinessName, &c.LegalName, &c.RFC, &c.DeliveryAddress, &c.Phone, &c.Email, &c.RouteZone,
		&clientType, &priceList, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.ClientType = entity.ClientType(clientType)
	c.AssignedPriceList = entity.PriceList(priceList)
	return &c, nil
}
