package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cremeria-api/internal/application/analytics"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/memory"
)

func TestGetSummary_Metricas(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: uuid.New().String(), BusinessName: "A", IsActive: true}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: uuid.New().String(), SKU: "P1", Name: "Queso", IsActive: true}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: uuid.New().String(), SKU: "P2", Name: "Viejo"}))

	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	statuses := []entity.OrderStatus{
		entity.StatusPendienteRevision, entity.StatusEnSurtido, entity.StatusListoCaptura,
		entity.StatusListoCaptura, entity.StatusCancelado, entity.StatusAjustado,
	}
	for i, st := range statuses {
		o := &entity.Order{
			ID:             uuid.New().String(), OrderNumber: "PED-" + string(rune('A'+i)), ClientID: "c", Status: st,
			TotalEstimated: decimal.NewFromInt(100), CreatedDate: base.Add(time.Duration(i) * time.Hour),
		}
		if i == 3 {
			o.TotalFinal = decimal.NewNullDecimal(decimal.RequireFromString("80.505"))
		}
		require.NoError(t, s.Orders().Create(ctx, o))
	}

	uc := analytics.NewDashboardUseCase(s.Orders(), s.Clients(), s.Products(), time.UTC)
	out, err := uc.GetSummary(ctx, entity.Actor{Role: entity.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, 6, out.TotalOrders)
	assert.Equal(t, 2, out.PendingOrders)
	assert.Equal(t, 2, out.ReadyOrders)
	assert.Equal(t, 1, out.TotalClients)
	assert.Equal(t, 1, out.ActiveProducts)
	assert.True(t, out.Revenue.Equal(decimal.RequireFromString("180.51")), out.Revenue.String())
	require.Len(t, out.RecentOrders, 5)
	assert.Equal(t, "PED-F", out.RecentOrders[0].OrderNumber)
	assert.NotEmpty(t, out.DateLabel)
}

func TestGetSummary_SoloAdmin(t *testing.T) {
	s := memory.NewStore()
	uc := analytics.NewDashboardUseCase(s.Orders(), s.Clients(), s.Products(), nil)

	_, err := uc.GetSummary(context.Background(), entity.Actor{Role: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
