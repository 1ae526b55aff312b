package handler

import (
	"errors"

	"internmatch/internal/delivery/http/dto"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/pkg/response"
	uccompany "internmatch/internal/usecase/company"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CompanyHandler struct {
	uc *uccompany.Service
}

type updateCompanyRequest struct {
	Name        *string `json:"name"`
	Industry    *string `json:"industry"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	Size        *string `json:"size"`
}

func NewCompanyHandler(uc *uccompany.Service) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

func (h *CompanyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Post("/me/logo", h.UploadLogo)
	r.Get("/:id", h.GetPublic)
}

func (h *CompanyHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	rec, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return mapCompanyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyResponse(rec))
}

func (h *CompanyHandler) GetPublic(c fiber.Ctx) error {
	companyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid company id", nil, err)
	}

	rec, err := h.uc.GetPublic(c.Context(), companyID)
	if err != nil {
		return mapCompanyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyResponse(rec))
}

func (h *CompanyHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateCompanyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.Name == nil && req.Industry == nil && req.Location == nil &&
		req.Description == nil && req.Website == nil && req.Size == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	rec, err := h.uc.Update(c.Context(), userID, uccompany.UpdateInput{
		Name:        req.Name,
		Industry:    req.Industry,
		Location:    req.Location,
		Description: req.Description,
		Website:     req.Website,
		Size:        req.Size,
	})
	if err != nil {
		return mapCompanyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCompanyResponse(rec))
}

func (h *CompanyHandler) UploadLogo(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer file.Close()

	url, err := h.uc.UploadLogo(c.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return mapCompanyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"logo_url": url})
}

func mapCompanyError(err error) error {
	if errors.Is(err, uccompany.ErrNoProfile) {
		return middleware.NewAppError(fiber.StatusNotFound, "Company profile not found", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
