package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/sreedhar1227/llm-interview-api/internal/dto"
	"github.com/sreedhar1227/llm-interview-api/internal/middleware"
	"github.com/sreedhar1227/llm-interview-api/internal/service"
)

// Websocket message kinds accepted by the interview consumer.
const (
	wsStartInterview = "start_interview"
	wsSubmitAnswer   = "submit_answer"
	wsEndInterview   = "end_interview"
)

// wsRequest is one inbound frame of the interview websocket protocol.
type wsRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// wsReply is one outbound frame. Data carries the interview step outcome on
// success; Message explains the failure otherwise.
type wsReply struct {
	Status  string                 `json:"status"`
	Type    string                 `json:"type,omitempty"`
	Data    *dto.InterviewResponse `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// InterviewWSHandler drives interview sessions over a websocket, one step per
// inbound frame.
type InterviewWSHandler struct {
	service service.InterviewService
	logger  zerolog.Logger
}

// NewInterviewWSHandler constructs the websocket handler.
func NewInterviewWSHandler(service service.InterviewService, logger zerolog.Logger) *InterviewWSHandler {
	return &InterviewWSHandler{
		service: service,
		logger:  logger.With().Str("component", "interview_ws_handler").Logger(),
	}
}

// Register binds the websocket upgrade under the provided router group.
func (h *InterviewWSHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *InterviewWSHandler) handleConnection(conn *websocket.Conn) {
	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	h.logger.Info().Msg("interview websocket connected")
	defer h.logger.Info().Msg("interview websocket disconnected")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn().Err(err).Msg("interview websocket read failed")
			}
			return
		}

		reply := h.dispatch(baseCtx, raw)
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn().Err(err).Msg("interview websocket write failed")
			return
		}
	}
}

func (h *InterviewWSHandler) dispatch(ctx context.Context, raw []byte) wsReply {
	var request wsRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return wsReply{Status: "error", Message: "invalid message"}
	}

	var (
		response dto.InterviewResponse
		err      error
	)

	switch request.Type {
	case wsStartInterview:
		var payload dto.StartInterviewRequest
		if err := json.Unmarshal(request.Payload, &payload); err != nil {
			return wsReply{Status: "error", Type: request.Type, Message: "invalid payload"}
		}
		response, err = h.service.Start(ctx, payload)
	case wsSubmitAnswer:
		var payload dto.SubmitAnswerRequest
		if err := json.Unmarshal(request.Payload, &payload); err != nil {
			return wsReply{Status: "error", Type: request.Type, Message: "invalid payload"}
		}
		response, err = h.service.Submit(ctx, payload)
	case wsEndInterview:
		var payload dto.EndInterviewRequest
		if err := json.Unmarshal(request.Payload, &payload); err != nil {
			return wsReply{Status: "error", Type: request.Type, Message: "invalid payload"}
		}
		response, err = h.service.End(ctx, payload)
	default:
		return wsReply{Status: "error", Message: "unknown message type"}
	}

	if err != nil {
		h.logger.Error().Err(err).Str("message_type", request.Type).Msg("interview websocket step failed")
		return wsReply{Status: "error", Type: request.Type, Message: wsErrorMessage(err)}
	}
	return wsReply{Status: "success", Type: request.Type, Data: &response}
}

// wsErrorMessage keeps internal failure detail off the wire.
func wsErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrTranscriptsNotFound),
		errors.Is(err, service.ErrCustomInfoRequired):
		return err.Error()
	default:
		return "interview step failed"
	}
}
