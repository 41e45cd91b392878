package ports

import (
	"context"

	"github.com/hexcorp/hive-ai/internal/core/domain"
)

// Gateway is the Messaging & Membership Service the hive runs against. It is
// the only path to the chat platform: member/role listing, channel messages,
// and role mutation all go through it.
type Gateway interface {
	// Members lists all members of the community.
	Members(ctx context.Context) ([]domain.Member, error)
	// RoleNames lists the names of all roles currently defined in the
	// community. Used to decide whether a saved role still resolves.
	RoleNames(ctx context.Context) ([]string, error)
	// Send posts a text message to the named channel.
	Send(ctx context.Context, channel, content string) error
	// AddRoles grants the named roles to a member. A no-op for an empty list.
	AddRoles(ctx context.Context, memberID string, roleNames []string) error
	// RemoveRoles revokes the named roles from a member. A no-op for an
	// empty list.
	RemoveRoles(ctx context.Context, memberID string, roleNames []string) error
}

// DroneIDResolver derives a drone's 4-digit identifier from its display
// name. The exact parsing rule is owned by the gateway side; the core only
// needs "resolved or not".
type DroneIDResolver func(displayName string) (string, bool)
