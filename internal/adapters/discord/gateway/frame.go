package gateway

import "encoding/json"

const (
	OpDispatch       = 0
	OpHeartbeat      = 1
	OpIdentify       = 2
	OpPresenceUpdate = 3
	OpReconnect      = 7
	OpInvalidSession = 9
	OpHello          = 10
	OpHeartbeatAck   = 11
)

const (
	DefaultURL          = "wss://gateway.discord.gg/?v=9&encoding=json"
	DefaultCapabilities = 125
)

// Frame is one inbound gateway message.
type Frame struct {
	Op   int             `json:"op"`
	Data json.RawMessage `json:"d"`
	Seq  *int64          `json:"s,omitempty"`
	Type string          `json:"t,omitempty"`
}

type outboundFrame struct {
	Op   int `json:"op"`
	Data any `json:"d"`
}

type helloData struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type identifyData struct {
	Token        string `json:"token"`
	Capabilities int    `json:"capabilities"`
	Properties   any    `json:"properties"`
}
