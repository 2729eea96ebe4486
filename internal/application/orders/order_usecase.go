// Package orders casos de uso del ciclo de vida del pedido: alta con precios
// del servidor, surtido por bodega, revisión del vendedor, listados por rol,
// sugerencias, exportación y PDF.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/aggregation"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/orderflow"
	"github.com/jhoicas/cremeria-api/internal/domain/pricing"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// OrderUseCase orquesta pedidos y líneas. Toda escritura que cambia el estado
// pasa por TxRunner.
type OrderUseCase struct {
	tx       TxRunner
	orders   repository.OrderRepository
	lines    repository.OrderLineRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
	loc      *time.Location
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso. loc se usa para interpretar los
// filtros de fecha (yyyy-mm-dd).
func NewOrderUseCase(
	tx TxRunner,
	orders repository.OrderRepository,
	lines repository.OrderLineRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	loc *time.Location,
) *OrderUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderUseCase{
		tx:       tx,
		orders:   orders,
		lines:    lines,
		products: products,
		clients:  clients,
		loc:      loc,
		now:      time.Now,
	}
}

// Create arma el pedido desde el carrito. Sólo el rol cliente levanta pedidos,
// siempre para su cliente asignado. Los precios se resuelven aquí con la lista
// del cliente y la oferta vigente; el cliente nunca los envía.
func (uc *OrderUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*dto.OrderDetailResponse, error) {
	if actor.Role != entity.RoleCliente {
		return nil, fmt.Errorf("sólo el cliente levanta pedidos: %w", domain.ErrForbidden)
	}
	clientID, err := orderflow.ClientForActor(actor, "")
	if err != nil {
		return nil, err
	}
	items, err := mergeCart(in.Items)
	if err != nil {
		return nil, err
	}

	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("pedido: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if !client.IsActive {
		return nil, domain.NewValidationError("client_id", "el cliente está inactivo")
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.productMap(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.Order{
		ID:          uuid.New().String(),
		OrderNumber: orderflow.OrderNumber(now),
		ClientID:    client.ID,
		ClientName:  client.BusinessName,
		Status:      entity.StatusPendienteRevision,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedBy:   actor.UserID,
		CreatedDate: now,
		UpdatedAt:   now,
	}
	list := client.PriceListOrDefault()
	cart := make([]orderflow.CartLine, 0, len(items))
	lines := make([]*entity.OrderLine, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, domain.NewValidationError("product_id", "el producto "+it.ProductID+" no existe")
		}
		if err := pricing.EnsureOrderable(p); err != nil {
			return nil, err
		}
		q := pricing.QuoteFor(p, list)
		cart = append(cart, orderflow.CartLine{Quantity: it.Quantity, UnitPrice: q.Price})
		lines = append(lines, &entity.OrderLine{
			ID:                    uuid.New().String(),
			OrderID:               order.ID,
			ProductID:             p.ID,
			ProductSKU:            p.SKU,
			ProductName:           p.Name,
			Unit:                  p.Unit,
			QuantityRequested:     it.Quantity,
			QuantityRequestedUnit: p.Unit,
			UnitPrice:             q.Price,
			Subtotal:              it.Quantity.Mul(q.Price),
			CreatedAt:             now,
			UpdatedAt:             now,
		})
	}
	order.TotalEstimated = orderflow.CartTotal(cart)

	err = uc.tx.RunOrders(ctx, func(orderRepo repository.OrderRepository, lineRepo repository.OrderLineRepository) error {
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return lineRepo.BulkCreate(ctx, lines)
	})
	if err != nil {
		return nil, fmt.Errorf("pedido: crear: %w", err)
	}
	return toDetailResponse(aggregation.BuildOrderView(order, lines, products), actor.Role), nil
}

// mergeCart une renglones repetidos del mismo producto conservando el orden
// de primera aparición. Cantidades <= 0 son inválidas.
func mergeCart(items []dto.CartItem) ([]dto.CartItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	var out []dto.CartItem
	pos := make(map[string]int, len(items))
	for _, it := range items {
		if !it.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor a cero")
		}
		if i, ok := pos[it.ProductID]; ok {
			out[i].Quantity = out[i].Quantity.Add(it.Quantity)
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out, nil
}

// List pedidos visibles para el actor, más recientes primero.
// Cliente: los de su cliente. Vendedor: los de su cartera. Bodega: pendientes
// y en surtido. Admin: todos, con filtros.
func (uc *OrderUseCase) List(ctx context.Context, actor entity.Actor, q dto.OrderFilterQuery) ([]dto.OrderResponse, error) {
	f, empty, err := uc.filterFor(actor, q)
	if err != nil {
		return nil, err
	}
	out := []dto.OrderResponse{}
	if empty {
		return out, nil
	}
	list, err := uc.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("pedido: listar: %w", err)
	}
	for _, o := range list {
		out = append(out, ToOrderResponse(o))
	}
	return out, nil
}

// filterFor combina el alcance del rol con los filtros pedidos. empty indica
// que la combinación no puede devolver nada.
func (uc *OrderUseCase) filterFor(actor entity.Actor, q dto.OrderFilterQuery) (repository.OrderFilter, bool, error) {
	scope, err := orderflow.ScopeFor(actor)
	if err != nil {
		return repository.OrderFilter{}, false, err
	}
	f := repository.OrderFilter{ClientIDs: scope.ClientIDs, Statuses: scope.Statuses, Search: strings.TrimSpace(q.Search)}

	if q.Status != "" && q.Status != "all" {
		st := entity.OrderStatus(q.Status)
		if !st.Valid() {
			return f, false, domain.NewValidationError("status", "estado inválido")
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, st) {
			return f, true, nil
		}
		f.Statuses = []entity.OrderStatus{st}
	}
	if q.ClientID != "" && q.ClientID != "all" {
		if f.ClientIDs != nil && !containsString(f.ClientIDs, q.ClientID) {
			return f, true, nil
		}
		f.ClientIDs = []string{q.ClientID}
	}
	if q.From != "" {
		from, err := time.ParseInLocation(dateLayout, q.From, uc.loc)
		if err != nil {
			return f, false, domain.NewValidationError("from", "fecha inválida, use aaaa-mm-dd")
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(dateLayout, q.To, uc.loc)
		if err != nil {
			return f, false, domain.NewValidationError("to", "fecha inválida, use aaaa-mm-dd")
		}
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	if f.ClientIDs != nil && len(f.ClientIDs) == 0 {
		return f, true, nil
	}
	return f, false, nil
}

// Detail pedido con líneas. La bodega sólo ve las líneas de su especialidad.
func (uc *OrderUseCase) Detail(ctx context.Context, actor entity.Actor, id string) (*dto.OrderDetailResponse, error) {
	ld, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toDetailResponse(ld.view(actor), actor.Role), nil
}

// loaded pedido con todas sus líneas y los productos que referencian.
type loaded struct {
	order    *entity.Order
	lines    []*entity.OrderLine
	products map[string]*entity.Product
}

// visible líneas que el actor puede ver y editar.
func (ld *loaded) visible(actor entity.Actor) []*entity.OrderLine {
	if scope, ok := entity.ScopeForRole(actor.Role); ok {
		return orderflow.VisibleLines(ld.lines, ld.products, scope)
	}
	return ld.lines
}

func (ld *loaded) view(actor entity.Actor) aggregation.OrderView {
	return aggregation.BuildOrderView(ld.order, ld.visible(actor), ld.products)
}

// load lee cabecera y líneas en paralelo y luego los productos de las líneas.
// Un pedido fuera del alcance del actor es ErrForbidden.
func (uc *OrderUseCase) load(ctx context.Context, actor entity.Actor, id string) (*loaded, error) {
	ld := &loaded{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := uc.orders.GetByID(gctx, id)
		if err != nil {
			return fmt.Errorf("pedido: obtener: %w", err)
		}
		ld.order = o
		return nil
	})
	g.Go(func() error {
		lines, err := uc.lines.ListByOrder(gctx, id)
		if err != nil {
			return fmt.Errorf("pedido: obtener líneas: %w", err)
		}
		ld.lines = lines
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ld.order == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanSeeClient(ld.order.ClientID) {
		return nil, domain.ErrForbidden
	}

	ids := make([]string, 0, len(ld.lines))
	for _, l := range ld.lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.productMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	ld.products = products
	return ld, nil
}

// productMap carga productos por id, incluidos inactivos.
func (uc *OrderUseCase) productMap(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := uc.products.List(ctx, repository.ProductFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("pedido: obtener productos: %w", err)
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func containsStatus(set []entity.OrderStatus, s entity.OrderStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
