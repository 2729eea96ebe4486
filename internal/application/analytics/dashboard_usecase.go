// Package analytics contiene el caso de uso del tablero del administrador.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/orders"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// DashboardUseCase resume pedidos, clientes y catálogo.
//
// Fuente de datos: los repositorios de lectura; el cálculo vive en
// aggregation.Dashboard.
type DashboardUseCase struct {
	orders   repository.OrderRepository
	clients  repository.ClientRepository
	products repository.ProductRepository
	loc      *time.Location
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	orders repository.OrderRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
	loc *time.Location,
) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{orders: orders, clients: clients, products: products, loc: loc}
}

// GetSummary construye el DashboardSummaryDTO. Sólo admin.
//
// Tres lecturas en paralelo:
//  1. pedidos (todos)
//  2. clientes
//  3. productos
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor entity.Actor) (*dto.DashboardSummaryDTO, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	type ordersResult struct {
		list []*entity.Order
		err  error
	}
	type clientsResult struct {
		list []*entity.Client
		err  error
	}
	type productsResult struct {
		list []*entity.Product
		err  error
	}

	ordersCh := make(chan ordersResult, 1)
	clientsCh := make(chan clientsResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		list, err := uc.orders.List(ctx, repository.OrderFilter{})
		ordersCh <- ordersResult{list, err}
	}()
	go func() {
		list, err := uc.clients.List(ctx, repository.ClientFilter{})
		clientsCh <- clientsResult{list, err}
	}()
	go func() {
		list, err := uc.products.List(ctx, repository.ProductFilter{})
		productsCh <- productsResult{list, err}
	}()

	o := <-ordersCh
	c := <-clientsCh
	p := <-productsCh

	if o.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos: %w", o.err)
	}
	if c.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", c.err)
	}
	if p.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", p.err)
	}

	stats := aggregation.Dashboard(o.list, c.list, p.list)
	recent := make([]dto.OrderResponse, 0, len(stats.RecentOrders))
	for _, ord := range stats.RecentOrders {
		recent = append(recent, orders.ToOrderResponse(ord))
	}
	return &dto.DashboardSummaryDTO{
		TotalOrders:    stats.TotalOrders,
		PendingOrders:  stats.PendingOrders,
		ReadyOrders:    stats.ReadyOrders,
		TotalClients:   stats.TotalClients,
		ActiveProducts: stats.ActiveProducts,
		Revenue:        stats.Revenue.Round(2),
		RecentOrders:   recent,
		DateLabel:      monthLabel(time.Now().In(uc.loc)),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
