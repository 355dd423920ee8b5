package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ensamblaje-api/internal/application/dto"
	"github.com/jhoicas/Ensamblaje-api/internal/application/inventory"
	"github.com/jhoicas/Ensamblaje-api/internal/domain/entity"
)

// AssemblyHandler maneja las peticiones HTTP de ensambles.
type AssemblyHandler struct {
	svc *inventory.AssemblyService
}

// NewAssemblyHandler construye el handler.
func NewAssemblyHandler(svc *inventory.AssemblyService) *AssemblyHandler {
	return &AssemblyHandler{svc: svc}
}

// Create godoc
// @Summary      Crear ensambles
// @Description  Crea quantity ensambles del producto con los lotes seleccionados (total de todas las unidades).
//
//	Los registros de asignación y descuentos de stock se confirman en transacciones de a ASSEMBLY_CHUNK_SIZE.
//
// @Tags         assemblies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssembliesRequest  true  "product_id, quantity, serial_numbers, selected_batches"
// @Success      201   {object}  dto.CreateAssembliesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.PartialFailureResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/assemblies [post]
func (h *AssemblyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAssembliesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.svc.CreateAssembliesFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateAssembliesResponse{AssemblyIDs: res.AssemblyIDs})
}

// GetByID godoc
// @Summary      Obtener ensamble
// @Description  Ensamble con los lotes consumidos y el costo de materiales.
// @Tags         assemblies
// @Produce      json
// @Param        id   path      string  true  "ID del ensamble"
// @Success      200  {object}  dto.AssemblyDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assemblies/{id} [get]
func (h *AssemblyHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.svc.GetAssembly(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.AssemblyDetailResponse{
		AssemblyResponse: toAssemblyResponse(detail.Assembly),
		Allocations:      make([]dto.AllocationResponse, 0, len(detail.Allocations)),
		MaterialCost:     detail.MaterialCost,
	}
	for _, a := range detail.Allocations {
		out.Allocations = append(out.Allocations, dto.AllocationResponse{
			ComponentID:  a.ComponentID,
			StockBatchID: a.StockBatchID,
			QuantityUsed: a.QuantityUsed,
		})
	}
	return c.JSON(out)
}

// UpdateQC godoc
// @Summary      Cambiar estado de control de calidad
// @Description  IN_PROGRESS -> PASSED_QC/FAILED_QC enlaza lotes si el ensamble aún no los tiene.
//
//	Repetir la llamada con el mismo estado no vuelve a descontar stock.
//
// @Tags         assemblies
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del ensamble"
// @Param        body  body  dto.UpdateAssemblyQCRequest  true  "status, selected_batches (opcional)"
// @Success      200   {object}  dto.AssemblyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assemblies/{id}/qc [patch]
func (h *AssemblyHandler) UpdateQC(c *fiber.Ctx) error {
	var in dto.UpdateAssemblyQCRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	a, err := h.svc.FinalizeQCFromRequest(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAssemblyResponse(a))
}

// Delete godoc
// @Summary      Eliminar ensamble en curso
// @Description  Solo IN_PROGRESS; devuelve a cada lote lo consumido.
// @Tags         assemblies
// @Param        id   path  string  true  "ID del ensamble"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/assemblies/{id} [delete]
func (h *AssemblyHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteAssembly(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toAssemblyResponse(a *entity.Assembly) dto.AssemblyResponse {
	return dto.AssemblyResponse{
		ID:               a.ID,
		ProductID:        a.ProductID,
		SerialNumber:     a.SerialNumber,
		AssembledByID:    a.AssembledByID,
		Status:           a.Status,
		Notes:            a.Notes,
		StartTime:        a.StartTime,
		CompletionTime:   a.CompletionTime,
		BatchesProcessed: a.BatchesProcessed,
	}
}
