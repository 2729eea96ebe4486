package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/memory"
)

func newOrder(status entity.OrderStatus) *entity.Order {
	return &entity.Order{
		ID:          uuid.NewString(),
		OrderNumber: "PED-TEST",
		ClientID:    uuid.NewString(),
		ClientName:  "Abarrotes",
		Status:      status,
		CreatedDate: time.Now(),
	}
}

// ── UpdateStatus ──────────────────────────────────────────────────────────────

func TestOrderRepo_UpdateStatus_EstadoLeidoDesactualizado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	o := newOrder(entity.StatusListoRevision)
	require.NoError(t, s.Orders().Create(ctx, o))

	approved := *o
	approved.Status = entity.StatusListoCaptura
	approved.TotalFinal = decimal.NewNullDecimal(decimal.NewFromInt(90))
	require.NoError(t, s.Orders().UpdateStatus(ctx, &approved, entity.StatusListoRevision))

	// Segunda escritura con el mismo estado leído: ya no aplica.
	cancelled := *o
	cancelled.Status = entity.StatusCancelado
	err := s.Orders().UpdateStatus(ctx, &cancelled, entity.StatusListoRevision)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := s.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusListoCaptura, got.Status)
	assert.True(t, got.TotalFinal.Decimal.Equal(decimal.NewFromInt(90)))
}

func TestOrderRepo_UpdateStatus_NoExiste(t *testing.T) {
	s := memory.NewStore()
	err := s.Orders().UpdateStatus(context.Background(), newOrder(entity.StatusEnSurtido), entity.StatusPendienteRevision)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Transacciones ─────────────────────────────────────────────────────────────

func TestRunOrders_FallaRevierteSoloLoPropio(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	o := newOrder(entity.StatusPendienteRevision)
	p := &entity.Product{ID: uuid.NewString(), SKU: "CRM-1", Name: "Crema", WholesalePrice: decimal.NewFromInt(50), IsActive: true}

	done := make(chan error, 1)
	err := s.RunOrders(ctx, func(orders repository.OrderRepository, _ repository.OrderLineRepository) error {
		// Alta de producto fuera de la transacción mientras ésta sigue abierta.
		go func() { done <- s.Products().Create(ctx, p) }()
		time.Sleep(20 * time.Millisecond)
		if err := orders.Create(ctx, o); err != nil {
			return err
		}
		return errors.New("conexión perdida")
	})
	require.Error(t, err)
	require.NoError(t, <-done)

	got, err := s.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "el pedido se revierte")

	kept, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, kept, "el producto escrito fuera de la transacción se conserva")
	assert.Equal(t, "CRM-1", kept.SKU)
}
