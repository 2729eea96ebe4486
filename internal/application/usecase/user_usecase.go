package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios: alta por el
// administrador y edición de rol y asignaciones.
type UserUseCase struct {
	repo    repository.UserRepository
	clients repository.ClientRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, clients repository.ClientRepository) *UserUseCase {
	return &UserUseCase{repo: repo, clients: clients}
}

// Create hashea el password con bcrypt y persiste. Devuelve ErrEmailAlreadyExists
// si el email ya está registrado.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("usuario: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.FullName == "" {
		u.FullName = email
	}
	if err := uc.assign(ctx, u, in.UserAssignment); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("usuario: crear: %w", err)
	}
	return ToUserResponse(u), nil
}

// Update cambia contacto, estado, rol y asignaciones. Al cambiar de rol se
// limpian las asignaciones del rol anterior.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usuario: obtener: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if name := strings.TrimSpace(in.FullName); name != "" {
		u.FullName = name
	}
	u.Phone = strings.TrimSpace(in.Phone)
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if err := uc.assign(ctx, u, in.UserAssignment); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("usuario: actualizar: %w", err)
	}
	return ToUserResponse(u), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usuario: obtener: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(u), nil
}

// List usuarios, opcionalmente de un solo rol.
func (uc *UserUseCase) List(ctx context.Context, role string) ([]dto.UserResponse, error) {
	r := entity.Role(role)
	if role != "" && !r.Valid() {
		return nil, domain.NewValidationError("user_role", "rol inválido")
	}
	list, err := uc.repo.List(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("usuario: listar: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// assign aplica rol y asignaciones. Cliente exige un cliente existente y guarda
// su nombre; vendedor guarda la lista de clientes; bodega y admin no llevan.
func (uc *UserUseCase) assign(ctx context.Context, u *entity.User, in dto.UserAssignment) error {
	role := entity.Role(in.Role)
	if !role.Valid() {
		return domain.NewValidationError("user_role", "rol inválido")
	}
	u.Role = role
	u.AssignedClientID, u.AssignedClientName, u.AssignedClients = "", "", nil

	switch role {
	case entity.RoleCliente:
		if in.AssignedClientID == "" {
			return domain.NewValidationError("assigned_client_id", "Selecciona un cliente para este usuario")
		}
		c, err := uc.clients.GetByID(ctx, in.AssignedClientID)
		if err != nil {
			return fmt.Errorf("usuario: obtener cliente: %w", err)
		}
		if c == nil {
			return domain.NewValidationError("assigned_client_id", "el cliente no existe")
		}
		u.AssignedClientID, u.AssignedClientName = c.ID, c.BusinessName
	case entity.RoleVendedor:
		ids := dedupe(in.AssignedClientIDs)
		if len(ids) == 0 {
			return nil
		}
		list, err := uc.clients.List(ctx, repository.ClientFilter{IDs: ids})
		if err != nil {
			return fmt.Errorf("usuario: obtener clientes: %w", err)
		}
		byID := make(map[string]*entity.Client, len(list))
		for _, c := range list {
			byID[c.ID] = c
		}
		for _, id := range ids {
			c, ok := byID[id]
			if !ok {
				return domain.NewValidationError("assigned_client_ids", "el cliente "+id+" no existe")
			}
			u.AssignedClients = append(u.AssignedClients, entity.ClientRef{ClientID: c.ID, ClientName: c.BusinessName})
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ToUserResponse salida sin password. AssignedClients nunca es nil.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	refs := make([]dto.ClientRefResponse, 0, len(u.AssignedClients))
	for _, c := range u.AssignedClients {
		refs = append(refs, dto.ClientRefResponse{ClientID: c.ClientID, ClientName: c.ClientName})
	}
	return &dto.UserResponse{
		ID:                 u.ID,
		FullName:           u.FullName,
		Email:              u.Email,
		Role:               string(u.Role),
		AssignedClientID:   u.AssignedClientID,
		AssignedClientName: u.AssignedClientName,
		AssignedClients:    refs,
		Phone:              u.Phone,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
