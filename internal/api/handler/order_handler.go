package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hexcorp/hive-ai/internal/core/ports"
)

// OrderHandler handles pre-parsed protocol commands from the connector.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Report handles POST /v1/commands/order. The chat-visible outcome
// (acknowledgement or rejection) travels through the gateway; the HTTP
// response only says the command was processed.
//
// @Summary      Report a protocol order
// @Tags         commands
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  acceptedResponse
// @Failure      400  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/commands/order [post]
func (h *OrderHandler) Report(c echo.Context) error {
	var req orderCommandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.orders.ReportOrder(c.Request().Context(), ports.OrderInput{
		AuthorDisplayName: req.AuthorDisplayName,
		Channel:           req.Channel,
		ProtocolName:      req.ProtocolName,
		ProtocolTime:      req.ProtocolTime,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "order command processed"})
}
