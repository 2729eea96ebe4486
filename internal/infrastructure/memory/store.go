// Package memory almacén en memoria que implementa los mismos puertos que
// PostgreSQL. Se usa con DB_DRIVER=memory y en las pruebas de casos de uso.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/application/orders"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.ClientRepository    = (*ClientRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.OrderRepository     = (*OrderRepo)(nil)
	_ repository.OrderLineRepository = (*OrderLineRepo)(nil)
	_ orders.TxRunner                = (*Store)(nil)
	_ catalog.TxRunner               = (*Store)(nil)
)

// Store datos en mapas protegidos por un mutex. Las transacciones se serializan
// y restauran una copia si el callback falla. Las escrituras sobre productos,
// pedidos y líneas fuera de una transacción también toman txMu, para que un
// rollback concurrente no las deshaga.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	products map[string]*entity.Product
	clients  map[string]*entity.Client
	users    map[string]*entity.User
	orders   map[string]*entity.Order
	lines    map[string]*entity.OrderLine
	seq      int64 // orden de inserción de líneas

	lineSeq map[string]int64

	// FailOn hace fallar la operación nombrada (p. ej. "order.update"); sólo pruebas.
	FailOn map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: map[string]*entity.Product{},
		clients:  map[string]*entity.Client{},
		users:    map[string]*entity.User{},
		orders:   map[string]*entity.Order{},
		lines:    map[string]*entity.OrderLine{},
		lineSeq:  map[string]int64{},
		FailOn:   map[string]error{},
	}
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

// Products, Clients, Users, Orders, OrderLines devuelven los repos del almacén.
func (s *Store) Products() *ProductRepo     { return &ProductRepo{s: s} }
func (s *Store) Clients() *ClientRepo       { return &ClientRepo{s} }
func (s *Store) Users() *UserRepo           { return &UserRepo{s} }
func (s *Store) Orders() *OrderRepo         { return &OrderRepo{s: s} }
func (s *Store) OrderLines() *OrderLineRepo { return &OrderLineRepo{s: s} }

// RunOrders ejecuta fn de forma atómica sobre pedidos y líneas.
func (s *Store) RunOrders(ctx context.Context, fn func(repository.OrderRepository, repository.OrderLineRepository) error) error {
	return s.atomically(func() error { return fn(&OrderRepo{s: s, inTx: true}, &OrderLineRepo{s: s, inTx: true}) })
}

// RunProducts ejecuta fn de forma atómica sobre productos.
func (s *Store) RunProducts(ctx context.Context, fn func(repository.ProductRepository) error) error {
	return s.atomically(func() error { return fn(&ProductRepo{s: s, inTx: true}) })
}

// lockWrite bloquea para escribir. Dentro de una transacción txMu ya está tomado.
func (s *Store) lockWrite(inTx bool) (unlock func()) {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

func (s *Store) atomically(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := s.snapshot()
	s.mu.RUnlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	products map[string]*entity.Product
	orders   map[string]*entity.Order
	lines    map[string]*entity.OrderLine
	lineSeq  map[string]int64
	seq      int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		products: copyMap(s.products),
		orders:   copyMap(s.orders),
		lines:    copyMap(s.lines),
		lineSeq:  copyMap(s.lineSeq),
		seq:      s.seq,
	}
}

func (s *Store) restore(sn snapshot) {
	s.products, s.orders, s.lines, s.lineSeq, s.seq = sn.products, sn.orders, sn.lines, sn.lineSeq, sn.seq
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func inSet[T comparable](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo vista de productos.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	return r.insert(p)
}

func (r *ProductRepo) insert(p *entity.Product) error {
	if err := r.s.fail("product.create"); err != nil {
		return err
	}
	for _, x := range r.s.products {
		if x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	if p.MasterProductID != "" {
		if _, ok := r.s.products[p.MasterProductID]; !ok {
			return domain.NewValidationError("master_product_id", "maestro inexistente")
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) BulkCreate(ctx context.Context, products []*entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	for _, p := range products {
		if err := r.insert(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.products {
		if x.SKU == p.SKU && x.ID != p.ID {
			return domain.ErrDuplicate
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.SKU, f.Search) {
			continue
		}
		if f.IDs != nil && !inSet(f.IDs, p.ID) {
			continue
		}
		if f.OnOffer && !p.HasOffer() {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].VariantOrder != out[j].VariantOrder {
			return out[i].VariantOrder < out[j].VariantOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

// ClientRepo vista de clientes.
type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Client
	for _, c := range r.s.clients {
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		if f.Search != "" && !containsFold(c.BusinessName, f.Search) && !containsFold(c.LegalName, f.Search) && !containsFold(c.RFC, f.Search) {
			continue
		}
		if f.IDs != nil && !inSet(f.IDs, c.ID) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessName < out[j].BusinessName })
	return out, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

// UserRepo vista de usuarios.
type UserRepo struct{ s *Store }

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.AssignedClients = append([]entity.ClientRef(nil), u.AssignedClients...)
	return &c
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) List(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

// ── Pedidos ──────────────────────────────────────────────────────────────────

// OrderRepo vista de pedidos.
type OrderRepo struct {
	s    *Store
	inTx bool
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	defer r.s.lockWrite(r.inTx)()
	if err := r.s.fail("order.create"); err != nil {
		return err
	}
	c := *o
	r.s.orders[o.ID] = &c
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order, from entity.OrderStatus) error {
	defer r.s.lockWrite(r.inTx)()
	if err := r.s.fail("order.update"); err != nil {
		return err
	}
	cur, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != from {
		return fmt.Errorf("el pedido ya está en %s: %w", cur.Status.Label(), domain.ErrInvalidTransition)
	}
	c := *cur
	c.Status, c.TotalFinal, c.UpdatedAt = o.Status, o.TotalFinal, o.UpdatedAt
	r.s.orders[o.ID] = &c
	return nil
}

func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		switch {
		case f.ID != "" && o.ID != f.ID,
			len(f.Statuses) > 0 && !inSet(f.Statuses, o.Status),
			inSet(f.ExcludeStatuses, o.Status),
			f.ClientIDs != nil && !inSet(f.ClientIDs, o.ClientID),
			f.From != nil && o.CreatedDate.Before(*f.From),
			f.To != nil && o.CreatedDate.After(*f.To),
			f.Search != "" && !containsFold(o.OrderNumber, f.Search) && !containsFold(o.ClientName, f.Search):
			continue
		}
		c := *o
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].CreatedDate.After(out[j].CreatedDate)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ── Líneas ───────────────────────────────────────────────────────────────────

// OrderLineRepo vista de líneas de pedido.
type OrderLineRepo struct {
	s    *Store
	inTx bool
}

func (r *OrderLineRepo) BulkCreate(ctx context.Context, lines []*entity.OrderLine) error {
	defer r.s.lockWrite(r.inTx)()
	if err := r.s.fail("line.create"); err != nil {
		return err
	}
	for _, l := range lines {
		c := *l
		r.s.seq++
		r.s.lines[l.ID] = &c
		r.s.lineSeq[l.ID] = r.s.seq
	}
	return nil
}

func (r *OrderLineRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderLine, error) {
	return r.ListByOrders(ctx, []string{orderID})
}

func (r *OrderLineRepo) ListByOrders(ctx context.Context, orderIDs []string) ([]*entity.OrderLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.OrderLine
	for _, l := range r.s.lines {
		if inSet(orderIDs, l.OrderID) {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.lineSeq[out[i].ID] < r.s.lineSeq[out[j].ID] })
	return out, nil
}

func (r *OrderLineRepo) UpdateFulfillment(ctx context.Context, lines []*entity.OrderLine) error {
	defer r.s.lockWrite(r.inTx)()
	if err := r.s.fail("line.update"); err != nil {
		return err
	}
	for _, l := range lines {
		cur, ok := r.s.lines[l.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := *cur
		c.QuantityFulfilled, c.FinalBilledQuantity, c.UpdatedAt = l.QuantityFulfilled, l.FinalBilledQuantity, l.UpdatedAt
		r.s.lines[l.ID] = &c
	}
	return nil
}
