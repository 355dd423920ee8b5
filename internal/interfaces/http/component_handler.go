package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ensamblaje-api/internal/application/dto"
	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// ComponentHandler lotes y stock de componentes.
type ComponentHandler struct {
	svc *inventory.AssemblyService
}

// NewComponentHandler construye el handler.
func NewComponentHandler(svc *inventory.AssemblyService) *ComponentHandler {
	return &ComponentHandler{svc: svc}
}

// ListBatches godoc
// @Summary      Lotes disponibles
// @Description  Lotes del componente con stock, del más antiguo al más reciente (FIFO).
// @Tags         components
// @Produce      json
// @Param        id   path      string  true  "ID del componente"
// @Success      200  {array}   dto.StockBatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{id}/batches [get]
func (h *ComponentHandler) ListBatches(c *fiber.Ctx) error {
	batches, err := h.svc.GetAvailableBatches(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockBatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return c.JSON(out)
}

// ReceiveBatch godoc
// @Summary      Recibir lote
// @Description  Registra un lote de proveedor; el número de lote se genera como SKU-0001, SKU-0002...
// @Tags         components
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del componente"
// @Param        body  body  dto.ReceiveBatchRequest  true  "vendor_id, quantity, unit_cost"
// @Success      201   {object}  dto.StockBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/components/{id}/batches [post]
func (h *ComponentHandler) ReceiveBatch(c *fiber.Ctx) error {
	var in dto.ReceiveBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	b, err := h.svc.ReceiveStockBatchFromRequest(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(b))
}

// GetStock godoc
// @Summary      Stock del componente
// @Tags         components
// @Produce      json
// @Param        id   path      string  true  "ID del componente"
// @Success      200  {object}  dto.ComponentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{id}/stock [get]
func (h *ComponentHandler) GetStock(c *fiber.Ctx) error {
	s, err := h.svc.GetComponentStock(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ComponentStockResponse{
		ComponentID:     s.ComponentID,
		OnHand:          s.OnHand,
		BatchCount:      s.BatchCount,
		BelowMinimum:    s.BelowMinimum,
		AverageUnitCost: s.AverageUnitCost,
	})
}

func toBatchResponse(b *entity.StockBatch) dto.StockBatchResponse {
	return dto.StockBatchResponse{
		ID:              b.ID,
		ComponentID:     b.ComponentID,
		VendorID:        b.VendorID,
		BatchNumber:     b.BatchNumber,
		InitialQuantity: b.InitialQuantity,
		CurrentQuantity: b.CurrentQuantity,
		UnitCost:        b.UnitCost,
		DateReceived:    b.DateReceived,
	}
}
