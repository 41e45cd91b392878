package handler

// memberRefRequest identifies the author of, or a member mentioned in, an
// inbound message.
type memberRefRequest struct {
	ID          string   `json:"id"           validate:"required"`
	DisplayName string   `json:"display_name" validate:"required"`
	Mention     string   `json:"mention"`
	Roles       []string `json:"roles"`
}

// inboundMessageRequest is a chat message pushed by the gateway connector.
type inboundMessageRequest struct {
	ID       string             `json:"id"      validate:"required"`
	Channel  string             `json:"channel" validate:"required"`
	Content  string             `json:"content" validate:"required"`
	Author   memberRefRequest   `json:"author"  validate:"required"`
	Mentions []memberRefRequest `json:"mentions"`
}

// orderCommandRequest is a protocol command already split into its parts by
// the command-routing connector.
type orderCommandRequest struct {
	AuthorDisplayName string `json:"author_display_name" validate:"required"`
	Channel           string `json:"channel"             validate:"required"`
	ProtocolName      string `json:"protocol_name"       validate:"required"`
	ProtocolTime      int    `json:"protocol_time"       validate:"required"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}
