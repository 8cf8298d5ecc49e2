package enums

const (
	SOCKET_EVENT_AUTH         = "AUTH"
	SOCKET_EVENT_SEND_MESSAGE = "SEND_MESSAGE"
	SOCKET_EVENT_READY        = "READY"
	SOCKET_EVENT_ERROR        = "ERROR"
)

const (
	SOCKET_STATE_HANDSHAKING  = "handshaking"
	SOCKET_STATE_CONNECTED    = "connected"
	SOCKET_STATE_DISCONNECTED = "disconnected"
)
