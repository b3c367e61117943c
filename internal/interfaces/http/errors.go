package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/calzado-fabianne/almacen-api/internal/application/dto"
	"github.com/calzado-fabianne/almacen-api/internal/domain"
)

// writeError traduce un error de aplicación a la respuesta HTTP.
// Los errores no reconocidos se registran y se devuelven como 500 genérico.
func writeError(c *fiber.Ctx, err error) error {
	var (
		bodyErr   *bodyError
		fieldsErr *fieldsError
		valErr    *domain.ValidationError
		stockErr  *domain.StockError
		persErr   *domain.PersistenceError
	)
	switch {
	case errors.As(err, &bodyErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	case errors.As(err, &fieldsErr):
		return c.Status(fiber.StatusBadRequest).JSON(validationResponse(fieldsErr.fields))
	case errors.As(err, &valErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: valErr.Error(), Fields: map[string]string{valErr.Field: valErr.Reason},
		})
	case errors.As(err, &persErr):
		return internalError(c, err)
	case errors.As(err, &stockErr):
		if errors.Is(stockErr.Err, domain.ErrVariantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "VARIANT_NOT_FOUND", Message: stockErr.Error()})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stockErr.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrSupplierNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrVariantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	}
	return internalError(c, err)
}

func internalError(c *fiber.Ctx, err error) error {
	log.Error().
		Err(err).
		Str("request_id", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// ErrorHandler es el manejador global de Fiber: errores no atendidos por los handlers
// (404 de rutas, cuerpos demasiado grandes, pánicos recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusTooManyRequests:
			code = "TOO_MANY_REQUESTS"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
	}
	return writeError(c, err)
}
