package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ensamblaje-api/internal/application/dto"
	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
)

// ProductHandler consulta de la lista de materiales.
type ProductHandler struct {
	svc *inventory.AssemblyService
}

// NewProductHandler construye el handler.
func NewProductHandler(svc *inventory.AssemblyService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// GetBOM godoc
// @Summary      Lista de materiales
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {array}   dto.BOMItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/bom [get]
func (h *ProductHandler) GetBOM(c *fiber.Ctx) error {
	bom, err := h.svc.GetBOM(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BOMItemResponse, 0, len(bom))
	for _, it := range bom {
		out = append(out, dto.BOMItemResponse{ComponentID: it.ComponentID, QuantityRequired: it.QuantityRequired})
	}
	return c.JSON(out)
}
