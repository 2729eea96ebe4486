package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// StartFulfillment pendiente_revision → en_surtido. Sólo cambia el estado.
func (uc *OrderUseCase) StartFulfillment(ctx context.Context, actor entity.Actor, id string) (*dto.OrderDetailResponse, error) {
	return uc.transition(ctx, actor, id, orderflow.ActionStartFulfillment, nil)
}

// CompleteFulfillment en_surtido → listo_revision. Las líneas de la bodega que
// no vienen en la captura conservan su valor efectivo; total_final se calcula
// sobre todas las líneas del pedido.
func (uc *OrderUseCase) CompleteFulfillment(ctx context.Context, actor entity.Actor, id string, in dto.FulfillmentRequest) (*dto.OrderDetailResponse, error) {
	return uc.transition(ctx, actor, id, orderflow.ActionCompleteFulfillment, in.Lines)
}

// SaveAdjustments listo_revision|ajustado → ajustado con las correcciones del vendedor.
func (uc *OrderUseCase) SaveAdjustments(ctx context.Context, actor entity.Actor, id string, in dto.FulfillmentRequest) (*dto.OrderDetailResponse, error) {
	return uc.transition(ctx, actor, id, orderflow.ActionSaveAdjustments, in.Lines)
}

// Approve listo_revision|ajustado → listo_captura. Acepta correcciones de último momento.
func (uc *OrderUseCase) Approve(ctx context.Context, actor entity.Actor, id string, in dto.FulfillmentRequest) (*dto.OrderDetailResponse, error) {
	return uc.transition(ctx, actor, id, orderflow.ActionApprove, in.Lines)
}

// Cancel cualquier estado no terminal → cancelado. Sólo el vendedor.
func (uc *OrderUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.OrderDetailResponse, error) {
	return uc.transition(ctx, actor, id, orderflow.ActionCancel, nil)
}

func (uc *OrderUseCase) transition(
	ctx context.Context,
	actor entity.Actor,
	id string,
	act orderflow.Action,
	edits []dto.LineQuantities,
) (*dto.OrderDetailResponse, error) {
	ld, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	from := ld.order.Status
	next, err := orderflow.Next(from, act, actor.Role)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var changed []*entity.OrderLine
	switch act {
	case orderflow.ActionCompleteFulfillment, orderflow.ActionSaveAdjustments, orderflow.ActionApprove:
		fill := act == orderflow.ActionCompleteFulfillment
		changed, err = applyQuantities(edits, ld.lines, ld.visible(actor), orderflow.MeasuredFromProducts(ld.products), fill, now)
		if err != nil {
			return nil, err
		}
		ld.order.TotalFinal = decimal.NewNullDecimal(orderflow.TotalFinal(ld.lines, orderflow.MeasuredFromProducts(ld.products)))
	}
	ld.order.Status = next
	ld.order.UpdatedAt = now

	if err := uc.commit(ctx, ld.order, from, changed); err != nil {
		return nil, err
	}
	return toDetailResponse(ld.view(actor), actor.Role), nil
}

// commit escribe cabecera y líneas en una transacción. La cabecera va primero
// y condicionada al estado leído: si otro usuario movió el pedido mientras
// tanto, no se escribe nada.
func (uc *OrderUseCase) commit(ctx context.Context, order *entity.Order, expected entity.OrderStatus, changed []*entity.OrderLine) error {
	err := uc.tx.RunOrders(ctx, func(orderRepo repository.OrderRepository, lineRepo repository.OrderLineRepository) error {
		if err := orderRepo.UpdateStatus(ctx, order, expected); err != nil {
			return err
		}
		if len(changed) == 0 {
			return nil
		}
		return lineRepo.UpdateFulfillment(ctx, changed)
	})
	if err != nil {
		return fmt.Errorf("pedido: guardar %s: %w", order.Status, err)
	}
	return nil
}

// applyQuantities valida y aplica la captura sobre las líneas editables.
// fill=true escribe también las líneas editables no mencionadas con su valor
// efectivo (cierre de surtido). La medición final sólo se guarda en productos
// medidos: explícita, o la que ya tenía, o lo surtido.
func applyQuantities(
	edits []dto.LineQuantities,
	all, editable []*entity.OrderLine,
	measured orderflow.Measured,
	fill bool,
	now time.Time,
) ([]*entity.OrderLine, error) {
	inOrder := make(map[string]bool, len(all))
	for _, l := range all {
		inOrder[l.ID] = true
	}
	allowed := make(map[string]bool, len(editable))
	for _, l := range editable {
		allowed[l.ID] = true
	}

	byLine := make(map[string]dto.LineQuantities, len(edits))
	for _, e := range edits {
		if !inOrder[e.LineID] {
			return nil, domain.NewValidationError("line_id", "la línea "+e.LineID+" no pertenece al pedido")
		}
		if !allowed[e.LineID] {
			return nil, fmt.Errorf("la línea %s no corresponde a tu bodega: %w", e.LineID, domain.ErrForbidden)
		}
		if e.QuantityFulfilled != nil && e.QuantityFulfilled.IsNegative() {
			return nil, domain.NewValidationError("quantity_fulfilled", "la cantidad no puede ser negativa")
		}
		if e.FinalBilledQuantity != nil && e.FinalBilledQuantity.IsNegative() {
			return nil, domain.NewValidationError("final_billed_quantity", "la cantidad no puede ser negativa")
		}
		byLine[e.LineID] = e
	}

	var changed []*entity.OrderLine
	for _, l := range editable {
		e, mentioned := byLine[l.ID]
		if !mentioned && !fill {
			continue
		}
		fulfilled := l.FulfilledQuantity()
		if e.QuantityFulfilled != nil {
			fulfilled = *e.QuantityFulfilled
		}
		l.QuantityFulfilled = decimal.NewNullDecimal(fulfilled)
		if measured(l.ProductID) {
			switch {
			case e.FinalBilledQuantity != nil:
				l.FinalBilledQuantity = decimal.NewNullDecimal(*e.FinalBilledQuantity)
			case !l.FinalBilledQuantity.Valid:
				l.FinalBilledQuantity = decimal.NewNullDecimal(fulfilled)
			}
		}
		l.UpdatedAt = now
		changed = append(changed, l)
	}
	return changed, nil
}
