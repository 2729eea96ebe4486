package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/orders"
)

// ExportHandler descarga de pedidos listos para Punto Zero.
type ExportHandler struct {
	uc *orders.ExportUseCase
}

func NewExportHandler(uc *orders.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar pedidos listos para captura (CSV)
// @Tags         admin
// @Security     Bearer
// @Produce      text/csv
// @Param        client_id  query  string  false  "Cliente o all"
// @Param        search     query  string  false  "Número de pedido o cliente"
// @Param        from       query  string  false  "Desde (aaaa-mm-dd)"
// @Param        to         query  string  false  "Hasta, inclusivo (aaaa-mm-dd)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/orders/export [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	var q dto.OrderFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return errInvalidBody
	}
	file, err := h.uc.Export(c.Context(), GetActor(c), q)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	c.Set("X-Export-Rows", strconv.Itoa(file.Rows))
	return c.Send(file.Content)
}
