package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hexcorp/hive-ai/internal/core/ports"
)

func TestMessageRouter_FirstClaimStopsChain(t *testing.T) {
	var calls []string
	first := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		calls = append(calls, "first")
		return true, nil
	})
	second := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		calls = append(calls, "second")
		return true, nil
	})

	r := NewMessageRouter(zerolog.Nop(), first, second)
	r.Dispatch(context.Background(), ports.InboundMessage{ID: "m1"})

	if len(calls) != 1 || calls[0] != "first" {
		t.Fatalf("expected only first handler called, got %v", calls)
	}
}

func TestMessageRouter_UnclaimedFallsThrough(t *testing.T) {
	var calls []string
	pass := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		calls = append(calls, "pass")
		return false, nil
	})
	claim := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		calls = append(calls, "claim")
		return true, nil
	})

	r := NewMessageRouter(zerolog.Nop(), pass, claim)
	r.Dispatch(context.Background(), ports.InboundMessage{ID: "m1"})

	if len(calls) != 2 || calls[1] != "claim" {
		t.Fatalf("expected fall-through to second handler, got %v", calls)
	}
}

func TestMessageRouter_HandlerErrorDoesNotPanicChain(t *testing.T) {
	failing := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		return true, errors.New("gateway unavailable")
	})

	r := NewMessageRouter(zerolog.Nop(), failing)
	// must not panic or propagate; the dispatch loop owns the failure
	r.Dispatch(context.Background(), ports.InboundMessage{ID: "m1"})
}

func TestMessageRouter_ErrorWithoutClaimFallsThrough(t *testing.T) {
	var reached bool
	failing := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		return false, errors.New("lookup failed")
	})
	next := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		reached = true
		return true, nil
	})

	r := NewMessageRouter(zerolog.Nop(), failing, next)
	r.Dispatch(context.Background(), ports.InboundMessage{ID: "m1"})

	if !reached {
		t.Fatal("expected chain to continue past unclaiming handler error")
	}
}

func TestInChannel_FiltersOtherChannels(t *testing.T) {
	var called bool
	inner := HandlerFunc(func(_ context.Context, _ ports.InboundMessage) (bool, error) {
		called = true
		return true, nil
	})
	h := InChannel("storage-facility", inner)

	claimed, err := h.Handle(context.Background(), ports.InboundMessage{Channel: "hex-office"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed || called {
		t.Fatal("message in another channel must pass through unclaimed")
	}

	claimed, err = h.Handle(context.Background(), ports.InboundMessage{Channel: "storage-facility"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claimed || !called {
		t.Fatal("message in the handler's channel must reach it")
	}
}
