package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sreedhar1227/llm-interview-api/internal/dto"
	"github.com/sreedhar1227/llm-interview-api/internal/service"
	"github.com/sreedhar1227/llm-interview-api/internal/utils"
	"github.com/sreedhar1227/llm-interview-api/pkg/llm"
)

// InterviewHandler exposes the interview lifecycle endpoints.
type InterviewHandler struct {
	service service.InterviewService
	logger  zerolog.Logger
}

// NewInterviewHandler constructs the handler.
func NewInterviewHandler(service service.InterviewService, logger zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *InterviewHandler) Register(router fiber.Router) {
	router.Post("/start", h.start)
	router.Post("/answer", h.answer)
	router.Post("/end", h.end)
}

func (h *InterviewHandler) start(c *fiber.Ctx) error {
	var payload dto.StartInterviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Start(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview started", response)
}

func (h *InterviewHandler) answer(c *fiber.Ctx) error {
	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Submit(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer processed", response)
}

func (h *InterviewHandler) end(c *fiber.Ctx) error {
	var payload dto.EndInterviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.End(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview ended", response)
}

func (h *InterviewHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err),
		errors.Is(err, llm.ErrUnknownProvider),
		errors.Is(err, service.ErrCustomInfoRequired):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTranscriptsNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("interview step failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "interview step failed")
	}
}
