package types

import "strings"

// TransportMode is the RPC connection type implied by an endpoint URL.
type TransportMode int

const (
	HTTPMode TransportMode = iota
	WebSocketMode
	IPCMode
)

// GetTransportMode returns the transport go-ethereum's rpc.DialContext will pick for rpcURL.
func GetTransportMode(rpcURL string) TransportMode {
	switch {
	case strings.HasPrefix(rpcURL, "wss://"), strings.HasPrefix(rpcURL, "ws://"):
		return WebSocketMode
	case strings.HasPrefix(rpcURL, "http://"), strings.HasPrefix(rpcURL, "https://"):
		return HTTPMode
	default:
		return IPCMode
	}
}

func (m TransportMode) String() string {
	switch m {
	case WebSocketMode:
		return "WebSocket"
	case HTTPMode:
		return "HTTP"
	case IPCMode:
		return "IPC"
	default:
		return "Unknown"
	}
}
