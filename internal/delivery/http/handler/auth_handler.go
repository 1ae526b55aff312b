package handler

import (
	"errors"

	"internmatch/internal/delivery/http/dto"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/infrastructure/oauth"
	"internmatch/internal/pkg/response"
	ucauth "internmatch/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AuthHandler struct {
	uc *ucauth.Service
}

type registerStudentRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	University string `json:"university"`
	Department string `json:"department"`
}

type registerCompanyRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

func NewAuthHandler(uc *ucauth.Service) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register/student", h.RegisterStudent)
	r.Post("/register/company", h.RegisterCompany)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/reset-password", h.ResetPassword)
	r.Get("/oauth/:provider", h.OAuthLogin)
	r.Get("/oauth/:provider/callback", h.OAuthCallback)
}

// RegisterProtectedRoutes mounts the endpoints that require a valid access
// token.
func (h *AuthHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/logout", h.Logout)
}

func (h *AuthHandler) RegisterStudent(c fiber.Ctx) error {
	var req registerStudentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	sess, err := h.uc.RegisterStudent(c.Context(), ucauth.RegisterStudentInput{
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		University: req.University,
		Department: req.Department,
	})
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewSessionResponse(sess))
}

func (h *AuthHandler) RegisterCompany(c fiber.Ctx) error {
	var req registerCompanyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	sess, err := h.uc.RegisterCompany(c.Context(), ucauth.RegisterCompanyInput{
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Location:    req.Location,
	})
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewSessionResponse(sess))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	sess, err := h.uc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(sess))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req refreshRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	sess, err := h.uc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(sess))
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.uc.Logout(c.Context(), userID); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.uc.ResetPassword(c.Context(), req.Email); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

// OAuthLogin redirects the client to the provider's authorization page.
func (h *AuthHandler) OAuthLogin(c fiber.Ctx) error {
	url, err := h.uc.LoginURL(c.Params("provider"), c.Query("state"))
	if err != nil {
		return mapAuthError(err)
	}
	return c.Redirect().Status(fiber.StatusTemporaryRedirect).To(url)
}

func (h *AuthHandler) OAuthCallback(c fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing authorization code", nil, nil)
	}

	sess, err := h.uc.OAuthCallback(c.Context(), c.Params("provider"), code)
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(sess))
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, ucauth.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, ucauth.ErrInvalidToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	case errors.Is(err, ucauth.ErrWeakPassword), errors.Is(err, ucauth.ErrInvalidEmail):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, oauth.ErrUnknownProvider):
		return middleware.NewAppError(fiber.StatusNotFound, "Unknown provider", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
