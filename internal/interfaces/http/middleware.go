package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"
)

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return s
}

// RequestLogger registra cada petición con método, ruta, estado, latencia y request_id.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return nil
	}
}

// RequestObserver recibe la duración de cada petición (métricas).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestMetrics mide cada petición por patrón de ruta para no disparar la cardinalidad con IDs.
func RequestMetrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		obs.ObserveRequest(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
