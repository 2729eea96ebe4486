package orderflow

import (
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// ClientForActor cliente para el que el actor arma un pedido o consulta precios
// y sugerencias. El cliente siempre usa su asignado; vendedor y admin eligen
// uno visible sólo para consultas.
func ClientForActor(a entity.Actor, requested string) (string, error) {
	switch {
	case a.Role == entity.RoleCliente:
		if a.AssignedClientID == "" {
			return "", domain.ErrNoClient
		}
		return a.AssignedClientID, nil
	case a.Role == entity.RoleVendedor, a.Role == entity.RoleAdmin:
		if requested == "" {
			return "", domain.ErrNoClient
		}
		if !a.CanSeeClient(requested) {
			return "", domain.ErrForbidden
		}
		return requested, nil
	}
	return "", domain.ErrForbidden
}

// ListScope filtro base de pedidos visible para el actor.
// nil en ClientIDs significa sin restricción de cliente.
type ListScope struct {
	ClientIDs []string
	Statuses  []entity.OrderStatus
}

// ScopeFor arma el alcance de listado por rol.
func ScopeFor(a entity.Actor) (ListScope, error) {
	switch {
	case a.Role == entity.RoleAdmin:
		return ListScope{}, nil
	case a.Role.IsWarehouse():
		return ListScope{Statuses: []entity.OrderStatus{entity.StatusPendienteRevision, entity.StatusEnSurtido}}, nil
	case a.Role == entity.RoleVendedor:
		return ListScope{ClientIDs: append([]string{}, a.AssignedClientIDs...)}, nil
	case a.Role == entity.RoleCliente:
		if a.AssignedClientID == "" {
			return ListScope{ClientIDs: []string{}}, nil
		}
		return ListScope{ClientIDs: []string{a.AssignedClientID}}, nil
	}
	return ListScope{}, domain.ErrForbidden
}
