package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AbdiasMQ/Practico-final/internal/application/dto"
	"github.com/AbdiasMQ/Practico-final/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	uc *inventory.StockLedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockLedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida directa
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "Product ID"
// @Param        body  body  dto.RegisterMovementRequest  true  "tipo (entrada|salida), cantidad, motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.RegisterMovement(c.Context(), c.Params("id"), in, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AdjustStock godoc
// @Summary      Ajustar stock a una cantidad objetivo
// @Description  Lleva el stock al valor absoluto indicado registrando la
//               diferencia como entrada o salida. Con el mismo objetivo dos
//               veces, la segunda llamada no registra nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Product ID"
// @Param        body  body  dto.AdjustStockRequest  true  "nueva_cantidad, motivo (opcional)"
// @Success      200   {object}  dto.AdjustStockResponse
// @Router       /api/products/{id}/adjust [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.AdjustStock(c.Context(), c.Params("id"), in, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ListMovements godoc
// @Summary      Últimos movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        id     path   string  true   "Product ID"
// @Param        limit  query  int     false  "Cantidad de movimientos (default 10)"
// @Success      200    {array}  dto.MovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	resp, err := h.uc.RecentMovements(c.Context(), c.Params("id"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
