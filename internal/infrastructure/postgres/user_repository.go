package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, full_name, email, password_hash, user_role, assigned_client_id, assigned_client_name,
	assigned_clients, phone, is_active, created_at, updated_at`

// UserRepo implementación de UserRepository (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un usuario. Email duplicado → ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	assigned, err := json.Marshal(assignedOrEmpty(u.AssignedClients))
	if err != nil {
		return fmt.Errorf("marshal assigned_clients: %w", err)
	}
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		u.ID, u.FullName, u.Email, u.PasswordHash, string(u.Role), nullIfEmpty(u.AssignedClientID), u.AssignedClientName,
		assigned, u.Phone, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. nil, nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (login).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update persiste rol, asignaciones y datos de contacto.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	assigned, err := json.Marshal(assignedOrEmpty(u.AssignedClients))
	if err != nil {
		return fmt.Errorf("marshal assigned_clients: %w", err)
	}
	query := `
		UPDATE users SET full_name = $2, user_role = $3, assigned_client_id = $4, assigned_client_name = $5,
			assigned_clients = $6, phone = $7, is_active = $8, password_hash = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, u.FullName, string(u.Role), nullIfEmpty(u.AssignedClientID), u.AssignedClientName,
		assigned, u.Phone, u.IsActive, u.PasswordHash, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List usuarios, opcionalmente de un rol.
func (r *UserRepo) List(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	var a args
	if role != "" {
		a.add("user_role = ?", string(role))
	}
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users`+a.clause()+` ORDER BY full_name`, a.vals...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	var clientID *string
	var assigned []byte
	if err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &role, &clientID, &u.AssignedClientName,
		&assigned, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	if clientID != nil {
		u.AssignedClientID = *clientID
	}
	if len(assigned) > 0 {
		if err := json.Unmarshal(assigned, &u.AssignedClients); err != nil {
			return nil, fmt.Errorf("assigned_clients: %w", err)
		}
	}
	return &u, nil
}

func assignedOrEmpty(refs []entity.ClientRef) []entity.ClientRef {
	if refs == nil {
		return []entity.ClientRef{}
	}
	return refs
}
