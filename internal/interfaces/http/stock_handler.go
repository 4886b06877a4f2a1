package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// StockHandler tabla de stock y búsqueda por escaneo de QR.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Stock de todos los productos por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Código o nombre"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.StockList(c.UserContext(), c.Query("search"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Scan godoc
// @Summary      Buscar producto por código escaneado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Contenido del QR (código del producto)"
// @Success      200  {object}  dto.ScanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/scan/{code} [get]
func (h *StockHandler) Scan(c *fiber.Ctx) error {
	out, err := h.uc.ScanLookup(c.UserContext(), c.Params("code"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
