package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hexcorp/hive-ai/internal/api/metrics"
	"github.com/hexcorp/hive-ai/internal/core/ports"
)

// HandlerFunc adapts a function to the MessageHandler interface.
type HandlerFunc func(ctx context.Context, msg ports.InboundMessage) (bool, error)

func (f HandlerFunc) Handle(ctx context.Context, msg ports.InboundMessage) (bool, error) {
	return f(ctx, msg)
}

// InChannel restricts a handler to one channel. Messages posted elsewhere
// are left unclaimed so the rest of the chain can see them.
func InChannel(channel string, h ports.MessageHandler) ports.MessageHandler {
	return HandlerFunc(func(ctx context.Context, msg ports.InboundMessage) (bool, error) {
		if msg.Channel != channel {
			return false, nil
		}
		return h.Handle(ctx, msg)
	})
}

// MessageRouter runs an inbound message through an ordered handler chain.
// The first handler that claims the message stops the chain; a handler
// error still honors the claim but is logged rather than propagated, so one
// bad message never takes the dispatch loop down.
type MessageRouter struct {
	handlers []ports.MessageHandler
	logger   zerolog.Logger
}

func NewMessageRouter(logger zerolog.Logger, handlers ...ports.MessageHandler) *MessageRouter {
	return &MessageRouter{handlers: handlers, logger: logger}
}

// Dispatch implements ports.MessageRouter.
func (r *MessageRouter) Dispatch(ctx context.Context, msg ports.InboundMessage) {
	for _, h := range r.handlers {
		claimed, err := h.Handle(ctx, msg)
		if err != nil {
			r.logger.Error().Err(err).
				Str("message_id", msg.ID).
				Str("channel", msg.Channel).
				Msg("message handler failed")
			metrics.MessagesDispatchedTotal.WithLabelValues("error").Inc()
		}
		if claimed {
			if err == nil {
				metrics.MessagesDispatchedTotal.WithLabelValues("claimed").Inc()
			}
			return
		}
	}
	metrics.MessagesDispatchedTotal.WithLabelValues("unclaimed").Inc()
}
