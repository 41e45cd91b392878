package ports

import "context"

// MemberRef identifies a member referenced by an inbound message (the author
// or a mention), as delivered by the gateway webhook.
type MemberRef struct {
	ID          string
	DisplayName string
	Mention     string
	Roles       []string
}

// InboundMessage is a chat message pushed by the gateway connector.
type InboundMessage struct {
	ID       string
	Channel  string
	Content  string
	Author   MemberRef
	Mentions []MemberRef
}

// MessageHandler is one link in the ordered message-handling chain. Handle
// returns claimed=true when the handler recognized the message and no
// further handler should see it; a handler that does not recognize the
// message returns claimed=false and a nil error.
type MessageHandler interface {
	Handle(ctx context.Context, msg InboundMessage) (claimed bool, err error)
}

// MessageRouter dispatches an inbound message through the handler chain.
type MessageRouter interface {
	Dispatch(ctx context.Context, msg InboundMessage)
}
