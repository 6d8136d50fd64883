package session

const (
	stopReasonDisconnected = "client disconnected"
	stopReasonIdleTimeout  = "idle timeout"
	stopReasonMaxDuration  = "max session duration reached"
	stopReasonServerClosed = "server shutting down"
)
