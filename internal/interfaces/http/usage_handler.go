package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// UsageHandler usos (dispensaciones y ventas). Cada línea descuenta stock al crearse.
type UsageHandler struct {
	uc *inventory.UsageUseCase
}

// NewUsageHandler construye el handler.
func NewUsageHandler(uc *inventory.UsageUseCase) *UsageHandler {
	return &UsageHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar uso
// @Description  Si alguna línea excede el stock disponible no se persiste nada (409 INSUFFICIENT_STOCK).
// @Tags         usages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUsageRequest  true  "Tipo, notas y líneas"
// @Success      201   {object}  dto.UsageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usages [post]
func (h *UsageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateUsage(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Router /api/usages/{id} [get]
func (h *UsageHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetUsage(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Router /api/usages [get]
func (h *UsageHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListUsages(c.UserContext(), repository.UsageFilter{UsageType: c.Query("usage_type")}, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByDateRange godoc
// @Summary      Usos en un rango de fechas
// @Tags         usages
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200         {object}  dto.UsageListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/usages/by_date_range [get]
func (h *UsageHandler) ByDateRange(c *fiber.Ctx) error {
	from, err := queryDate(c, "start_date", false)
	if err != nil {
		return badQuery(c, "start_date inválida, use YYYY-MM-DD")
	}
	to, err := queryDate(c, "end_date", true)
	if err != nil {
		return badQuery(c, "end_date inválida, use YYYY-MM-DD")
	}
	filter := repository.UsageFilter{UsageType: c.Query("usage_type"), From: from, To: to}
	out, err := h.uc.ListUsages(c.UserContext(), filter, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar uso
// @Description  Devuelve al stock lo descontado por todas sus líneas.
// @Tags         usages
// @Security     Bearer
// @Param        id   path  string  true  "ID del uso"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usages/{id} [delete]
func (h *UsageHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteUsage(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Router /api/usages/{id}/lines [get]
func (h *UsageHandler) Lines(c *fiber.Ctx) error {
	out, err := h.uc.GetUsage(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	lines := out.Lines
	if lines == nil {
		lines = []dto.UsageLineResponse{}
	}
	return c.JSON(lines)
}

// AddLine godoc
// @Summary      Agregar línea al uso
// @Description  Sin unit_price se toma el precio de venta del producto.
// @Tags         usages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del uso"
// @Param        body  body  dto.UsageLineRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.UsageLineResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usages/{id}/lines [post]
func (h *UsageHandler) AddLine(c *fiber.Ctx) error {
	var in dto.UsageLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateUsageLine(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Router /api/usage-lines/{id} [put]
func (h *UsageHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateUsageLine(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Router /api/usage-lines/{id} [delete]
func (h *UsageHandler) DeleteLine(c *fiber.Ctx) error {
	if err := h.uc.DeleteUsageLine(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
