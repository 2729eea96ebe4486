package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/cremeria-api/internal/application/analytics"
)

// DashboardHandler maneja el tablero del administrador.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del tablero
// @Description  Pedidos totales, pendientes y listos para captura, clientes, productos activos, ingresos y últimos 5 pedidos.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), GetActor(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
