package handler

import (
	"time"

	"internmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}
