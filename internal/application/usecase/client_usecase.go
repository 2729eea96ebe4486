package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// ClientUseCase alta, edición y consulta de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso con el puerto de persistencia.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create da de alta un cliente. La razón comercial es obligatoria y la lista
// de precios por defecto es price_list_1.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		IsActive:  true,
		CreatedAt: now,
	}
	if err := applyClientRequest(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("cliente: crear: %w", err)
	}
	return toClientResponse(c), nil
}

// Update reemplaza los datos del cliente. Los pedidos existentes conservan el
// nombre con el que se capturaron.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cliente: obtener: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := applyClientRequest(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("cliente: actualizar: %w", err)
	}
	return toClientResponse(c), nil
}

// GetByID cliente visible para el actor.
func (uc *ClientUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ClientResponse, error) {
	if actor.Role.IsWarehouse() || !actor.CanSeeClient(id) {
		return nil, domain.ErrForbidden
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cliente: obtener: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(c), nil
}

// List clientes visibles: admin todos, vendedor su cartera, cliente el propio.
func (uc *ClientUseCase) List(ctx context.Context, actor entity.Actor, search string, activeOnly bool) ([]dto.ClientResponse, error) {
	f := repository.ClientFilter{ActiveOnly: activeOnly, Search: strings.TrimSpace(search)}
	switch actor.Role {
	case entity.RoleAdmin:
	case entity.RoleVendedor:
		f.IDs = append([]string{}, actor.AssignedClientIDs...)
	case entity.RoleCliente:
		f.IDs = []string{}
		if actor.AssignedClientID != "" {
			f.IDs = append(f.IDs, actor.AssignedClientID)
		}
	default:
		return nil, domain.ErrForbidden
	}
	out := []dto.ClientResponse{}
	if f.IDs != nil && len(f.IDs) == 0 {
		return out, nil
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("cliente: listar: %w", err)
	}
	for _, c := range list {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

func applyClientRequest(c *entity.Client, in dto.ClientRequest) error {
	name := strings.TrimSpace(in.BusinessName)
	if name == "" {
		return domain.NewValidationError("business_name", "El nombre del negocio es obligatorio")
	}
	list := entity.PriceList(in.AssignedPriceList)
	if in.AssignedPriceList == "" {
		list = entity.PriceList1
	}
	if !list.Valid() {
		return domain.NewValidationError("assigned_price_list", "lista de precios inválida")
	}
	ct := entity.ClientType(in.ClientType)
	if in.ClientType != "" && !ct.Valid() {
		return domain.NewValidationError("client_type", "tipo de cliente inválido")
	}

	c.BusinessName = name
	c.LegalName = strings.TrimSpace(in.LegalName)
	c.RFC = strings.ToUpper(strings.TrimSpace(in.RFC))
	c.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.RouteZone = strings.TrimSpace(in.RouteZone)
	c.ClientType = ct
	c.AssignedPriceList = list
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:                c.ID,
		BusinessName:      c.BusinessName,
		LegalName:         c.LegalName,
		RFC:               c.RFC,
		DeliveryAddress:   c.DeliveryAddress,
		Phone:             c.Phone,
		Email:             c.Email,
		RouteZone:         c.RouteZone,
		ClientType:        string(c.ClientType),
		AssignedPriceList: string(c.PriceListOrDefault()),
		IsActive:          c.IsActive,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
