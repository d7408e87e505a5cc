package chat

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const wsReadTimeout = 5 * time.Minute

// wsError is the error frame sent to websocket clients.
type wsError struct {
	Error string `json:"error"`
}

// handleWebsocket runs turns over a persistent socket: one JSON request in,
// one full turn result out. Not a token stream.
func (h *Handler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.log.Info().Str("remote", r.RemoteAddr).Msg("websocket chat connected")

	for {
		if err := conn.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			h.log.Warn().Err(err).Msg("setting websocket read deadline failed")
			return
		}

		var req TurnRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		result, _, errMsg := h.runTurn(r, req)
		if errMsg != "" {
			if err := conn.WriteJSON(wsError{Error: errMsg}); err != nil {
				h.log.Warn().Err(err).Msg("websocket write failed")
				return
			}
			continue
		}

		if err := conn.WriteJSON(result); err != nil {
			h.log.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}
