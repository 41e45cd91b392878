package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hexcorp/hive-ai/internal/core/ports"
)

// MessageDispatcher is the interface the handler uses to enqueue inbound
// messages for the handler chain.
type MessageDispatcher interface {
	Enqueue(msg ports.InboundMessage)
}

// MessageHandler handles inbound chat message ingestion from the gateway.
type MessageHandler struct {
	dispatcher MessageDispatcher
}

// NewMessageHandler creates a MessageHandler backed by the given dispatcher.
func NewMessageHandler(dispatcher MessageDispatcher) *MessageHandler {
	return &MessageHandler{dispatcher: dispatcher}
}

// Receive handles POST /v1/gateway/messages: enqueues one message and
// answers 202.
//
// @Summary      Ingest an inbound chat message
// @Tags         gateway
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  acceptedResponse
// @Failure      400  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/gateway/messages [post]
func (h *MessageHandler) Receive(c echo.Context) error {
	var req inboundMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toInboundMessage(req))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "message accepted"})
}

// toInboundMessage maps the HTTP request to the core DTO.
func toInboundMessage(r inboundMessageRequest) ports.InboundMessage {
	msg := ports.InboundMessage{
		ID:      r.ID,
		Channel: r.Channel,
		Content: r.Content,
		Author:  toMemberRef(r.Author),
	}
	for _, m := range r.Mentions {
		msg.Mentions = append(msg.Mentions, toMemberRef(m))
	}
	return msg
}

func toMemberRef(r memberRefRequest) ports.MemberRef {
	return ports.MemberRef{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Mention:     r.Mention,
		Roles:       r.Roles,
	}
}
