package orders

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
	"github.com/jhoicas/cremeria-api/internal/domain/pricing"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

// suggestionHistory pedidos recientes que alimentan los frecuentes.
const suggestionHistory = 50

// Suggestions productos frecuentes del cliente y ofertas vigentes que aún no
// están en el carrito, con el precio de su lista.
func (uc *OrderUseCase) Suggestions(ctx context.Context, actor entity.Actor, clientID string, cart []string) (*dto.SuggestionsResponse, error) {
	id, err := orderflow.ClientForActor(actor, clientID)
	if err != nil {
		return nil, err
	}

	var (
		client  *entity.Client
		history []*entity.OrderLine
		active  []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := uc.clients.GetByID(gctx, id)
		if err != nil {
			return fmt.Errorf("sugerencias: obtener cliente: %w", err)
		}
		client = c
		return nil
	})
	g.Go(func() error {
		recent, err := uc.orders.List(gctx, repository.OrderFilter{
			ClientIDs:       []string{id},
			ExcludeStatuses: []entity.OrderStatus{entity.StatusCancelado},
			Limit:           suggestionHistory,
		})
		if err != nil {
			return fmt.Errorf("sugerencias: pedidos recientes: %w", err)
		}
		if len(recent) == 0 {
			return nil
		}
		ids := make([]string, 0, len(recent))
		for _, o := range recent {
			ids = append(ids, o.ID)
		}
		lines, err := uc.lines.ListByOrders(gctx, ids)
		if err != nil {
			return fmt.Errorf("sugerencias: líneas: %w", err)
		}
		history = lines
		return nil
	})
	g.Go(func() error {
		list, err := uc.products.List(gctx, repository.ProductFilter{ActiveOnly: true})
		if err != nil {
			return fmt.Errorf("sugerencias: catálogo: %w", err)
		}
		active = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	list := client.PriceListOrDefault()
	s := aggregation.Suggest(history, active, cart)
	out := &dto.SuggestionsResponse{Frequent: []dto.PricedProduct{}, Offers: []dto.PricedProduct{}}
	for _, p := range s.Frequent {
		out.Frequent = append(out.Frequent, catalog.ToPricedProduct(pricing.QuoteFor(p, list)))
	}
	for _, p := range s.Offers {
		out.Offers = append(out.Offers, catalog.ToPricedProduct(pricing.QuoteFor(p, list)))
	}
	return out, nil
}
