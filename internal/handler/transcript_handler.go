package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sreedhar1227/llm-interview-api/internal/service"
	"github.com/sreedhar1227/llm-interview-api/internal/utils"
)

// TranscriptHandler lists the transcripts interviews can be based on.
type TranscriptHandler struct {
	service service.TranscriptService
	logger  zerolog.Logger
}

// NewTranscriptHandler constructs the handler.
func NewTranscriptHandler(service service.TranscriptService, logger zerolog.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		service: service,
		logger:  logger.With().Str("component", "transcript_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *TranscriptHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *TranscriptHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list transcripts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list transcripts")
	}
	return utils.SendSuccess(c, "transcripts retrieved", items)
}
