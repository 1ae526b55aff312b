package handler

import (
	"errors"

	"internmatch/internal/delivery/http/dto"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/pkg/response"
	ucapplication "internmatch/internal/usecase/application"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	uc *ucapplication.Service
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type updateApplicationStatusRequest struct {
	Status string `json:"status"`
}

func NewApplicationHandler(uc *ucapplication.Service) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/internships/:id/applications", h.Apply)
	r.Get("/internships/:id/applications", h.ListForInternship)
	r.Get("/applications/me", h.ListMine)
	r.Patch("/applications/:id/status", h.UpdateStatus)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	internshipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid internship id", nil, err)
	}

	var req applyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	app, err := h.uc.Apply(c.Context(), userID, internshipID, req.CoverLetter)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	apps, err := h.uc.ListForStudent(c.Context(), userID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponses(apps))
}

func (h *ApplicationHandler) ListForInternship(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	internshipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid internship id", nil, err)
	}

	apps, err := h.uc.ListForInternship(c.Context(), userID, internshipID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponses(apps))
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application id", nil, err)
	}

	var req updateApplicationStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.uc.UpdateStatus(c.Context(), userID, applicationID, req.Status); err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapApplicationError(err error) error {
	switch {
	case errors.Is(err, ucapplication.ErrNotFound), errors.Is(err, ucapplication.ErrInternshipGone):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, ucapplication.ErrNotStudent):
		return middleware.NewAppError(fiber.StatusForbidden, "Student profile required", nil, err)
	case errors.Is(err, ucapplication.ErrNotCompany), errors.Is(err, ucapplication.ErrNotOwner):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, ucapplication.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, "Already applied", nil, err)
	case errors.Is(err, ucapplication.ErrNotOpen):
		return middleware.NewAppError(fiber.StatusConflict, "Internship is not accepting applications", nil, err)
	case errors.Is(err, ucapplication.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application status", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
