package server

// Inbound message types.
const (
	MsgRoomCreate = "room:create"
	MsgRoomJoin   = "room:join"
	MsgGameStart  = "game:start"
	MsgAction     = "action"
)

// Outbound message types.
const (
	MsgRoomCreated          = "room:created"
	MsgRoomJoined           = "room:joined"
	MsgRoomReady            = "room:ready"
	MsgRoomError            = "room:error"
	MsgRoomClosed           = "room:closed"
	MsgState                = "state"
	MsgOpponentDisconnected = "opponent_disconnected"
	MsgOpponentReconnected  = "opponent_reconnected"
	MsgError                = "error"
)

type ClientMessage struct {
	Type   string     `json:"type"`
	Code   string     `json:"code,omitempty"`
	Action *ActionDTO `json:"action,omitempty"`
}

type ServerMessage struct {
	Type        string     `json:"type"`
	Code        string     `json:"code,omitempty"`
	PlayerIndex *int       `json:"playerIndex,omitempty"`
	Message     string     `json:"message,omitempty"`
	State       *GameView  `json:"state,omitempty"`
	Events      []Event    `json:"events,omitempty"`
	Error       *ErrorView `json:"error,omitempty"`
}

// ErrorView reports a malformed message. Room-level refusals use room:error.
type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	errRoomNotFound = "Room not found."
	errRoomFull     = "Room is full."
	errNotInRoom    = "Not in a room."
	errNotHost      = "Only the host can start the game."
	errNoCode       = "Could not create a room, try again."

	closedExpired  = "Room expired."
	closedShutdown = "Server shutting down."
)
