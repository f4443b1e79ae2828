package handler

import (
	"errors"

	"resume-coach/internal/delivery/http/dto"
	"resume-coach/internal/delivery/http/middleware"
	"resume-coach/internal/pkg/response"
	"resume-coach/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CoachHandler struct {
	uc usecase.CoachUsecase
}

type coachTurnRequest struct {
	Message string `json:"message"`
}

func NewCoachHandler(uc usecase.CoachUsecase) *CoachHandler {
	return &CoachHandler{uc: uc}
}

func (h *CoachHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/turn", h.Turn)
	r.Post("/finalize", h.Finalize)
}

func (h *CoachHandler) Turn(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req coachTurnRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	turn, err := h.uc.Turn(c.Context(), userID, req.Message)
	if err != nil {
		return mapCoachError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CoachTurnResponse{Response: turn.Content})
}

func (h *CoachHandler) Finalize(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	doc, err := h.uc.Finalize(c.Context(), userID)
	if err != nil {
		return mapCoachError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FinalizeResponse{Achievements: doc})
}

func mapCoachError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Message must not be empty", nil, err)
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrCoachingIncomplete):
		return middleware.NewAppError(fiber.StatusConflict, "Coaching is not complete yet", nil, err)
	case errors.Is(err, usecase.ErrMalformedExtraction):
		return middleware.NewAppError(fiber.StatusBadGateway, "Achievement extraction produced malformed data", nil, err)
	case errors.Is(err, usecase.ErrCollaborator):
		return middleware.NewAppError(fiber.StatusBadGateway, "Coaching model is unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
