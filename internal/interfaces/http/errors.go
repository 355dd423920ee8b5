package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ensamblaje-api/internal/application/dto"
	"github.com/jhoicas/Ensamblaje-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var partial *domain.ChunkFailureError
	if errors.As(err, &partial) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.PartialFailureResponse{
			Code:        "PARTIAL_FAILURE",
			Message:     partial.Error(),
			Committed:   partial.Committed,
			Total:       partial.Total,
			AssemblyIDs: partial.AssemblyIDs,
		})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrAllocationRequired):
		status, code = fiber.StatusBadRequest, "ALLOCATION_REQUIRED"
	case errors.Is(err, domain.ErrUnknownComponent):
		status, code = fiber.StatusBadRequest, "UNKNOWN_COMPONENT"
	case errors.Is(err, domain.ErrQuantityMismatch):
		status, code = fiber.StatusBadRequest, "QUANTITY_MISMATCH"
	case errors.Is(err, domain.ErrWrongComponentForBatch):
		status, code = fiber.StatusBadRequest, "WRONG_COMPONENT_FOR_BATCH"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateSerialNumber):
		status, code = fiber.StatusConflict, "DUPLICATE_SERIAL"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrTransactionTimeout):
		status, code = fiber.StatusGatewayTimeout, "TRANSACTION_TIMEOUT"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
