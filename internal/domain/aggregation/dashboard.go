package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
)

// RecentOrdersLimit pedidos recientes en el tablero.
const RecentOrdersLimit = 5

// DashboardStats resumen para el administrador.
type DashboardStats struct {
	TotalOrders    int
	PendingOrders  int
	ReadyOrders    int
	TotalClients   int
	ActiveProducts int
	Revenue        decimal.Decimal
	RecentOrders   []*entity.Order
}

// Dashboard calcula las métricas sobre los datos ya cargados.
func Dashboard(orders []*entity.Order, clients []*entity.Client, products []*entity.Product) DashboardStats {
	s := DashboardStats{TotalOrders: len(orders), TotalClients: len(clients), Revenue: decimal.Zero}
	for _, o := range orders {
		switch o.Status {
		case entity.StatusPendienteRevision, entity.StatusEnSurtido:
			s.PendingOrders++
		case entity.StatusListoCaptura:
			s.ReadyOrders++
			s.Revenue = s.Revenue.Add(orderflow.DisplayTotal(o))
		}
	}
	for _, p := range products {
		if p.IsActive {
			s.ActiveProducts++
		}
	}
	recent := make([]*entity.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedDate.After(recent[j].CreatedDate) })
	if len(recent) > RecentOrdersLimit {
		recent = recent[:RecentOrdersLimit]
	}
	s.RecentOrders = recent
	return s
}
