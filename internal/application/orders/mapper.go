package orders

import (
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
)

// ToOrderResponse cabecera con etiqueta de estado y total a mostrar.
func ToOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:             o.ID,
		OrderNumber:    orderflow.ShortNumber(o.OrderNumber, o.ID),
		ClientID:       o.ClientID,
		ClientName:     o.ClientName,
		Status:         string(o.Status),
		StatusLabel:    o.Status.Label(),
		Notes:          o.Notes,
		TotalEstimated: o.TotalEstimated,
		TotalFinal:     o.TotalFinal,
		DisplayTotal:   orderflow.DisplayTotal(o),
		CreatedDate:    o.CreatedDate,
	}
}

func toDetailResponse(v aggregation.OrderView, role entity.Role) *dto.OrderDetailResponse {
	out := &dto.OrderDetailResponse{
		OrderResponse: ToOrderResponse(v.Order),
		Lines:         make([]dto.OrderLineResponse, 0, len(v.Lines)),
		BilledTotal:   v.BilledTotal,
		HasShortages:  v.HasShortages,
		CanEdit:       orderflow.CanEdit(v.Order.Status, role),
		Actions:       []string{},
	}
	for _, a := range orderflow.AvailableActions(v.Order.Status, role) {
		out.Actions = append(out.Actions, string(a))
	}
	for _, lv := range v.Lines {
		l := lv.Line
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ID:                    l.ID,
			ProductID:             l.ProductID,
			ProductSKU:            l.ProductSKU,
			ProductName:           l.ProductName,
			Unit:                  string(l.Unit),
			WarehouseType:         string(lv.WarehouseType),
			QuantityRequested:     l.QuantityRequested,
			QuantityRequestedUnit: string(l.QuantityRequestedUnit),
			UnitPrice:             l.UnitPrice,
			Subtotal:              l.Subtotal,
			QuantityFulfilled:     l.QuantityFulfilled,
			FinalBilledQuantity:   l.FinalBilledQuantity,
			HasFinalMeasurement:   lv.Measured,
			FinalMeasurementUnit:  lv.FinalMeasurementUnit,
			BilledQuantity:        lv.Billed,
			BilledSubtotal:        lv.BilledSubtotal,
			Shortage:              lv.Shortage,
		})
	}
	return out
}
