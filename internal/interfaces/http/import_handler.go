package http

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

// importTimeout cubre la extracción con IA, la más lenta de las dos vías.
const importTimeout = 2 * time.Minute

// ImportHandler importación masiva de productos (admin).
type ImportHandler struct {
	uc  *catalog.ImportUseCase
	log *logger.Logger
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *catalog.ImportUseCase, log *logger.Logger) *ImportHandler {
	return &ImportHandler{uc: uc, log: log}
}

// Import godoc
// @Summary      Importar productos desde CSV
// @Description  mode=csv (por defecto) usa el parser determinista; mode=ai usa extracción guiada por esquema.
// @Description  Si algún lote falla responde 207 con el resumen "N de M".
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "Archivo .csv"
// @Param        mode  formData  string  false  "csv o ai"
// @Success      201   {object}  dto.ImportResult
// @Success      207   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/admin/products/import [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file", "Adjunta un archivo .csv")
	}
	f, err := fh.Open()
	if err != nil {
		return errInvalidBody
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return errInvalidBody
	}

	ctx, cancel := context.WithTimeout(c.Context(), importTimeout)
	defer cancel()

	res, err := h.uc.Import(ctx, fh.Filename, content, c.FormValue("mode"))
	var partial *domain.PartialBatchError
	if errors.As(err, &partial) && res != nil {
		for _, msg := range partial.Failures {
			h.log.Warn().Str("file", fh.Filename).Str("user_id", GetUserID(c)).Msg(msg)
		}
		return c.Status(fiber.StatusMultiStatus).JSON(res)
	}
	if err != nil {
		return err
	}
	h.log.Info().Str("file", fh.Filename).Str("mode", res.Mode).Int("created", res.Created).Msg("productos importados")
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Template godoc
// @Summary      Plantilla CSV de importación
// @Tags         products
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/admin/products/import/template [get]
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	content, name, err := h.uc.Template()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(content)
}
