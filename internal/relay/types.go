package relay

// Event is one anonymized activity record streamed by the chat relay.
// Text is present only for message events and is used for command
// parsing; it is never persisted.
type Event struct {
	Type        string `json:"type"`
	CommunityID string `json:"community_id"`
	ChannelID   string `json:"channel_id"`
	UserID      string `json:"user_id"`
	Sender      string `json:"sender,omitempty"`
	Text        string `json:"text,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

const (
	EventMessage = "message"
	EventJoin    = "join"
	EventLeave   = "leave"
)

type ReplyRequest struct {
	Type        string `json:"type"`
	CommunityID string `json:"community_id"`
	ChannelID   string `json:"channel_id"`
	Data        string `json:"data"`
}

type WebSocketState string

const (
	WSStateConnecting   WebSocketState = "CONNECTING"
	WSStateConnected    WebSocketState = "CONNECTED"
	WSStateDisconnected WebSocketState = "DISCONNECTED"
	WSStateReconnecting WebSocketState = "RECONNECTING"
	WSStateFailed       WebSocketState = "FAILED"
)

func (s WebSocketState) String() string {
	return string(s)
}
