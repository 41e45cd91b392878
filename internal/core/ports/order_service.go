package ports

import "context"

// OrderInput carries a pre-parsed protocol command. The invocation syntax is
// owned by the command-routing connector; by the time it reaches the core
// the protocol name and duration are already separated out.
type OrderInput struct {
	AuthorDisplayName string
	Channel           string // channel to acknowledge in
	ProtocolName      string
	ProtocolTime      int // minutes
}

// OrderService manages the protocol order lifecycle.
type OrderService interface {
	// ReportOrder validates and activates a protocol order. Validation
	// failures are answered in-channel; none of them are returned as errors.
	ReportOrder(ctx context.Context, input OrderInput) error
	// SweepCompleted deactivates every order whose finish time has passed,
	// notifying the orders reporting channel. One sweep pass; the scheduler
	// drives the cadence.
	SweepCompleted(ctx context.Context) error
}
