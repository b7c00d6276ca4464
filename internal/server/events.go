// Package server defines the hub's internal event variants and the JSON
// envelopes exchanged with clients over the wire.
package server

// Wire event names. Inbound names are sent by clients, outbound names by
// the server.
const (
	wireJoinRoom           = "joinRoom"
	wireTyping             = "typing"
	wireChatMessage        = "chatMessage"
	wireAssignName         = "assignName"
	wireSystemMessage      = "systemMessage"
	wireMentionSuggestions = "mentionSuggestions"
)

// clientEvent is the inbound envelope. Which fields are meaningful depends
// on Event; unused fields are left empty by well-behaved clients and
// ignored here.
type clientEvent struct {
	Event   string `json:"event"`
	Room    string `json:"room,omitempty"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

type assignNameEvent struct {
	Event string `json:"event"`
	Name  string `json:"name"`
}

type systemMessageEvent struct {
	Event string `json:"event"`
	Room  string `json:"room"`
	Text  string `json:"text"`
}

type mentionSuggestionsEvent struct {
	Event       string   `json:"event"`
	Suggestions []string `json:"suggestions"`
}

type chatMessageEvent struct {
	Event   string `json:"event"`
	Room    string `json:"room"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// eventKind tags the hub's internal event variant. Each connection's events
// are dispatched synchronously by the hub loop in arrival order, which is
// what serializes all registry and room mutations.
type eventKind int

const (
	eventConnect eventKind = iota
	eventJoinRoom
	eventTyping
	eventChatMessage
	eventDisconnect
	eventTransportError
)

func (k eventKind) String() string {
	switch k {
	case eventConnect:
		return "connect"
	case eventJoinRoom:
		return "joinRoom"
	case eventTyping:
		return "typing"
	case eventChatMessage:
		return "chatMessage"
	case eventDisconnect:
		return "disconnect"
	case eventTransportError:
		return "transportError"
	default:
		return "unknown"
	}
}

// hubEvent is one unit of work for the hub loop.
type hubEvent struct {
	kind   eventKind
	client *Client
	room   string
	text   string
	reason string
	err    error
}
