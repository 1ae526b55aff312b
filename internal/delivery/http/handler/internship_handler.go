package handler

import (
	"context"
	"errors"
	"time"

	"internmatch/internal/delivery/http/dto"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/pkg/response"
	"internmatch/internal/repository"
	ucinternship "internmatch/internal/usecase/internship"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type InternshipHandler struct {
	uc *ucinternship.Service
}

type createInternshipRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	IsRemote    bool       `json:"is_remote"`
	Duration    string     `json:"duration"`
	Deadline    *time.Time `json:"deadline"`
}

func NewInternshipHandler(uc *ucinternship.Service) *InternshipHandler {
	return &InternshipHandler{uc: uc}
}

// RegisterPublicRoutes mounts browsing endpoints; no auth required.
func (h *InternshipHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

// RegisterProtectedRoutes mounts the company-side management endpoints.
func (h *InternshipHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)
	r.Post("/:id/close", h.Close)
	r.Delete("/:id", h.Delete)
}

func (h *InternshipHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createInternshipRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	it, err := h.uc.Create(c.Context(), userID, ucinternship.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		IsRemote:    req.IsRemote,
		Duration:    req.Duration,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return mapInternshipError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewInternshipResponse(it))
}

func (h *InternshipHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid internship id", nil, err)
	}

	it, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapInternshipError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInternshipResponse(it))
}

func (h *InternshipHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid offset", nil, err)
	}

	items, err := h.uc.List(c.Context(), repository.InternshipFilter{
		Query:      c.Query("q"),
		Location:   c.Query("location"),
		RemoteOnly: c.Query("remote") == "true",
		Status:     ucinternship.StatusOpen,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return mapInternshipError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInternshipResponses(items))
}

func (h *InternshipHandler) ListMine(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListMine(c.Context(), userID)
	if err != nil {
		return mapInternshipError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInternshipResponses(items))
}

func (h *InternshipHandler) Close(c fiber.Ctx) error {
	return h.mutate(c, h.uc.Close)
}

func (h *InternshipHandler) Delete(c fiber.Ctx) error {
	return h.mutate(c, h.uc.Delete)
}

func (h *InternshipHandler) mutate(c fiber.Ctx, op func(ctx context.Context, userID, id uuid.UUID) error) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid internship id", nil, err)
	}

	if err := op(c.Context(), userID, id); err != nil {
		return mapInternshipError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapInternshipError(err error) error {
	switch {
	case errors.Is(err, ucinternship.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Internship not found", nil, err)
	case errors.Is(err, ucinternship.ErrNotCompany):
		return middleware.NewAppError(fiber.StatusForbidden, "Company profile required", nil, err)
	case errors.Is(err, ucinternship.ErrNotOwner):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, ucinternship.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
