package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/orders"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
)

// OrderHandler pedidos: alta, consulta, sugerencias, PDF y transiciones.
type OrderHandler struct {
	uc  *orders.OrderUseCase
	pdf *orders.PDFUseCase
}

// NewOrderHandler construye el handler. pdf puede ser nil si no hay generador.
func NewOrderHandler(uc *orders.OrderUseCase, pdf *orders.PDFUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Los precios se resuelven en el servidor con la lista del cliente y las ofertas vigentes.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Notas y carrito"
// @Success      201   {object}  dto.OrderDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos visibles para el usuario
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "Estado o all"
// @Param        client_id  query  string  false  "Cliente o all"
// @Param        search     query  string  false  "Número de pedido o cliente"
// @Param        from       query  string  false  "Desde (aaaa-mm-dd)"
// @Param        to         query  string  false  "Hasta, inclusivo (aaaa-mm-dd)"
// @Success      200  {array}   dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return errInvalidBody
	}
	list, err := h.uc.List(c.Context(), GetActor(c), q)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Detail godoc
// @Summary      Detalle del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Detail(c.Context(), GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Suggestions godoc
// @Summary      Sugerencias de venta
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        client_id  query  string  false  "Cliente (vendedor/admin)"
// @Param        cart       query  string  false  "IDs en el carrito separados por coma"
// @Success      200  {object}  dto.SuggestionsResponse
// @Router       /api/orders/suggestions [get]
func (h *OrderHandler) Suggestions(c *fiber.Ctx) error {
	var cart []string
	for _, id := range strings.Split(c.Query("cart"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cart = append(cart, id)
		}
	}
	out, err := h.uc.Suggestions(c.Context(), GetActor(c), c.Query("client_id"), cart)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Hoja de surtido / remisión en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return fiber.ErrNotFound
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	content, name, err := h.pdf.OrderPDF(c.Context(), GetActor(c), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	return c.Send(content)
}

// StartFulfillment godoc
// @Summary      Iniciar surtido
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/start [post]
func (h *OrderHandler) StartFulfillment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.StartFulfillment(c.Context(), GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CompleteFulfillment godoc
// @Summary      Terminar surtido
// @Description  Captura cantidades surtidas y medidas finales de las líneas de la bodega.
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.FulfillmentRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.OrderDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) CompleteFulfillment(c *fiber.Ctx) error {
	return h.withQuantities(c, h.uc.CompleteFulfillment)
}

// SaveAdjustments godoc
// @Summary      Guardar ajustes del vendedor
// @Tags         seller
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.FulfillmentRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.OrderDetailResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/adjust [post]
func (h *OrderHandler) SaveAdjustments(c *fiber.Ctx) error {
	return h.withQuantities(c, h.uc.SaveAdjustments)
}

// Approve godoc
// @Summary      Aprobar pedido para captura
// @Tags         seller
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID del pedido"
// @Param        body  body  dto.FulfillmentRequest  false  "Ajustes de último momento"
// @Success      200   {object}  dto.OrderDetailResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	return h.withQuantities(c, h.uc.Approve)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         seller
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Cancel(c.Context(), GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

type quantitiesFunc func(ctx context.Context, actor entity.Actor, id string, in dto.FulfillmentRequest) (*dto.OrderDetailResponse, error)

// withQuantities cuerpo opcional: sin cuerpo se aplica la transición sin cambios de cantidades.
func (h *OrderHandler) withQuantities(c *fiber.Ctx, fn quantitiesFunc) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.FulfillmentRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	}
	out, err := fn(c.Context(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
