package signal

const eventPong = "pong"

// handlePing answers a client keepalive; it never touches rooms or the registry.
func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, struct {
		Type string `json:"type"`
	}{Type: eventPong})
}
