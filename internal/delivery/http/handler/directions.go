package handler

import (
	"sync"

	"internmatch/internal/delivery/http/dto"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Directions is the HTTP-side Navigator and Notifier: the orchestrator
// records where each user should go and what they should be told, and the
// client polls it after a session event. Reading clears the entry.
type Directions struct {
	mu      sync.Mutex
	routes  map[uuid.UUID]string
	notices map[uuid.UUID][]string
}

func NewDirections() *Directions {
	return &Directions{
		routes:  make(map[uuid.UUID]string),
		notices: make(map[uuid.UUID][]string),
	}
}

func (d *Directions) Navigate(userID uuid.UUID, route string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[userID] = route
}

func (d *Directions) Notify(userID uuid.UUID, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices[userID] = append(d.notices[userID], message)
}

func (d *Directions) take(userID uuid.UUID) (string, []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	route := d.routes[userID]
	notices := d.notices[userID]
	delete(d.routes, userID)
	delete(d.notices, userID)
	return route, notices
}

type DirectionsHandler struct {
	directions *Directions
}

func NewDirectionsHandler(directions *Directions) *DirectionsHandler {
	return &DirectionsHandler{directions: directions}
}

func (h *DirectionsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/directions", h.Get)
}

func (h *DirectionsHandler) Get(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	route, notices := h.directions.take(userID)
	if notices == nil {
		notices = []string{}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.DirectionsResponse{
		Route:   route,
		Notices: notices,
	})
}
