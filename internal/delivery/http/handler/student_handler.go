package handler

import (
	"errors"

	"internmatch/internal/delivery/http/dto"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/domain/profile"
	"internmatch/internal/pkg/response"
	ucstudent "internmatch/internal/usecase/student"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type StudentHandler struct {
	uc *ucstudent.Service
}

type updateStudentRequest struct {
	FullName   *string  `json:"full_name"`
	University *string  `json:"university"`
	Department *string  `json:"department"`
	Bio        *string  `json:"bio"`
	Skills     []string `json:"skills"`
}

type replaceProjectsRequest struct {
	Projects []profile.Project `json:"projects"`
}

func NewStudentHandler(uc *ucstudent.Service) *StudentHandler {
	return &StudentHandler{uc: uc}
}

func (h *StudentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Put("/me/projects", h.ReplaceProjects)
	r.Post("/me/avatar", h.UploadAvatar)
	r.Get("/search", h.Search)
}

func (h *StudentHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	rec, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return mapStudentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentResponse(rec))
}

func (h *StudentHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateStudentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.FullName == nil && req.University == nil && req.Department == nil && req.Bio == nil && req.Skills == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	rec, err := h.uc.Update(c.Context(), userID, ucstudent.UpdateInput{
		FullName:   req.FullName,
		University: req.University,
		Department: req.Department,
		Bio:        req.Bio,
		Skills:     req.Skills,
	})
	if err != nil {
		return mapStudentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentResponse(rec))
}

func (h *StudentHandler) ReplaceProjects(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req replaceProjectsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	rec, err := h.uc.ReplaceProjects(c.Context(), userID, req.Projects)
	if err != nil {
		return mapStudentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentResponse(rec))
}

func (h *StudentHandler) UploadAvatar(c fiber.Ctx) error {
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

	url, err := h.uc.UploadAvatar(c.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return mapStudentError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"avatar_url": url})
}

func (h *StudentHandler) Search(c fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	recs, err := h.uc.Search(c.Context(), c.Query("q"), parseCSVQuery(c.Query("skills")), limit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStudentResponses(recs))
}

func mapStudentError(err error) error {
	if errors.Is(err, ucstudent.ErrNoProfile) {
		return middleware.NewAppError(fiber.StatusNotFound, "Student profile not found", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
