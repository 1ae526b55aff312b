package handler

import (
	"errors"

	"internmatch/internal/delivery/http/dto"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/pkg/response"
	ucmessage "internmatch/internal/usecase/message"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MessageHandler struct {
	uc *ucmessage.Service
}

type sendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
}

func NewMessageHandler(uc *ucmessage.Service) *MessageHandler {
	return &MessageHandler{uc: uc}
}

func (h *MessageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Send)
	r.Get("/unread-count", h.UnreadCount)
	r.Get("/with/:userID", h.Conversation)
}

func (h *MessageHandler) Send(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.RecipientID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing recipient", nil, nil)
	}

	m, err := h.uc.Send(c.Context(), userID, req.RecipientID, req.Content)
	if err != nil {
		return mapMessageError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewMessageResponse(m))
}

func (h *MessageHandler) Conversation(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	otherID, err := uuid.Parse(c.Params("userID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
	}
	limit, err := parseQueryInt(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	msgs, err := h.uc.Conversation(c.Context(), userID, otherID, limit)
	if err != nil {
		return mapMessageError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMessageResponses(msgs))
}

func (h *MessageHandler) UnreadCount(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	n, err := h.uc.UnreadCount(c.Context(), userID)
	if err != nil {
		return mapMessageError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int64{"unread": n})
}

func mapMessageError(err error) error {
	switch {
	case errors.Is(err, ucmessage.ErrEmptyContent), errors.Is(err, ucmessage.ErrSelfMessage):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
