package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// AlertHandler consulta y reconocimiento de alertas.
type AlertHandler struct {
	engine *inventory.AlertEngine
}

// NewAlertHandler construye el handler.
func NewAlertHandler(engine *inventory.AlertEngine) *AlertHandler {
	return &AlertHandler{engine: engine}
}

// List godoc
// @Summary      Listar alertas
// @Description  Por defecto solo las no leídas; all=true incluye las leídas.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "LOW_STOCK o EXPIRY"
// @Param        product_id  query  string  false  "Producto"
// @Param        all         query  bool    false  "Incluir leídas"
// @Success      200         {object}  dto.AlertListResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	filter := repository.AlertFilter{Type: c.Query("type"), ProductID: c.Query("product_id")}
	if !queryBool(c, "all", false) {
		unread := true
		filter.Unread = &unread
	}
	out, err := h.engine.List(c.UserContext(), filter, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/mark_as_read [post]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	out, err := h.engine.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkAllRead godoc
// @Summary      Marcar todas las alertas como leídas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "Solo este tipo (LOW_STOCK o EXPIRY)"
// @Success      200   {object}  map[string]int64
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/alerts/mark_all_as_read [post]
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.engine.MarkAllRead(c.UserContext(), c.Query("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"marked": n})
}

// ScanExpired godoc
// @Summary      Barrido de productos vencidos
// @Description  Abre alertas EXPIRY para productos vencidos sin alerta abierta. Pensado para un scheduler externo.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/alerts/scan_expired [post]
func (h *AlertHandler) ScanExpired(c *fiber.Ctx) error {
	opened, err := h.engine.ScanExpired(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"opened": len(opened)})
}
