package handler

import (
	"errors"
	"io"

	"resume-coach/internal/builder"
	"resume-coach/internal/delivery/http/dto"
	"resume-coach/internal/delivery/http/middleware"
	"resume-coach/internal/domain/resume"
	"resume-coach/internal/pkg/response"
	"resume-coach/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// 5 MB is plenty for a resume document.
const maxUploadBytes = 5 << 20

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

type saveConversationRequest struct {
	Conversation []resume.Turn `json:"conversation"`
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Post("/upload", h.Upload)
	r.Post("/builder", h.Builder)
	r.Put("/me/conversation", h.SaveConversation)
}

func (h *ResumeHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	rec, err := h.uc.GetActive(c.Context(), userID)
	if err != nil {
		return mapResumeError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResumeResponse(rec))
}

func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}
	if fh.Size > maxUploadBytes {
		return middleware.NewAppError(fiber.StatusBadRequest, "File too large", nil, nil)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}

	rec, err := h.uc.CreateFromUpload(c.Context(), userID, fh.Filename, data)
	if err != nil {
		return mapResumeError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewResumeResponse(rec))
}

func (h *ResumeHandler) Builder(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var form builder.Form
	if err := c.Bind().Body(&form); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	rec, err := h.uc.CreateFromBuilder(c.Context(), userID, form)
	if err != nil {
		return mapResumeError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewResumeResponse(rec))
}

func (h *ResumeHandler) SaveConversation(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req saveConversationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.uc.SaveConversation(c.Context(), userID, req.Conversation); err != nil {
		return mapResumeError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapResumeError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrEmptyDocument):
		return middleware.NewAppError(fiber.StatusBadRequest, "No text could be extracted from the document", nil, err)
	case errors.Is(err, usecase.ErrUnsupportedFile):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unsupported file type", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
