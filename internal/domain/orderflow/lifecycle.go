// Package orderflow máquina de estados del pedido y cálculo de totales.
package orderflow

import (
	"fmt"

	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// Action acción que mueve un pedido de estado.
type Action string

const (
	ActionStartFulfillment    Action = "start_fulfillment"
	ActionCompleteFulfillment Action = "complete_fulfillment"
	ActionSaveAdjustments     Action = "save_adjustments"
	ActionApprove             Action = "approve"
	ActionCancel              Action = "cancel"
)

type actorKind int

const (
	actorWarehouse actorKind = iota
	actorSeller
)

type transition struct {
	from  entity.OrderStatus
	act   Action
	actor actorKind
	to    entity.OrderStatus
}

var transitions = []transition{
	{entity.StatusPendienteRevision, ActionStartFulfillment, actorWarehouse, entity.StatusEnSurtido},
	{entity.StatusEnSurtido, ActionCompleteFulfillment, actorWarehouse, entity.StatusListoRevision},
	{entity.StatusListoRevision, ActionSaveAdjustments, actorSeller, entity.StatusAjustado},
	{entity.StatusAjustado, ActionSaveAdjustments, actorSeller, entity.StatusAjustado},
	{entity.StatusListoRevision, ActionApprove, actorSeller, entity.StatusListoCaptura},
	{entity.StatusAjustado, ActionApprove, actorSeller, entity.StatusListoCaptura},
	{entity.StatusPendienteRevision, ActionCancel, actorSeller, entity.StatusCancelado},
	{entity.StatusEnSurtido, ActionCancel, actorSeller, entity.StatusCancelado},
	{entity.StatusListoRevision, ActionCancel, actorSeller, entity.StatusCancelado},
	{entity.StatusAjustado, ActionCancel, actorSeller, entity.StatusCancelado},
}

func kindOf(r entity.Role) (actorKind, bool) {
	switch {
	case r.IsWarehouse():
		return actorWarehouse, true
	case r == entity.RoleVendedor:
		return actorSeller, true
	}
	return 0, false
}

// Next estado resultante de aplicar act desde from con el rol dado.
// Estados terminales nunca tienen salida.
func Next(from entity.OrderStatus, act Action, role entity.Role) (entity.OrderStatus, error) {
	if from.IsTerminal() {
		return "", fmt.Errorf("pedido %s: %w", from.Label(), domain.ErrInvalidTransition)
	}
	kind, ok := kindOf(role)
	for _, t := range transitions {
		if t.from != from || t.act != act {
			continue
		}
		if !ok || t.actor != kind {
			return "", fmt.Errorf("rol %s no puede ejecutar %s: %w", role, act, domain.ErrForbidden)
		}
		return t.to, nil
	}
	return "", fmt.Errorf("%s desde %s: %w", act, from, domain.ErrInvalidTransition)
}

// CanEdit indica si el rol puede editar cantidades en el estado dado.
func CanEdit(status entity.OrderStatus, role entity.Role) bool {
	switch {
	case role.IsWarehouse():
		return status == entity.StatusEnSurtido
	case role == entity.RoleVendedor:
		return status == entity.StatusListoRevision || status == entity.StatusAjustado
	}
	return false
}

// AvailableActions acciones permitidas al rol desde el estado actual.
func AvailableActions(status entity.OrderStatus, role entity.Role) []Action {
	var out []Action
	for _, t := range transitions {
		if t.from != status {
			continue
		}
		if _, err := Next(status, t.act, role); err == nil {
			out = append(out, t.act)
		}
	}
	return out
}
