package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/caba-llero/pytellite/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsCommand is the client->server message shape (§6): {"command":
// "configure"|"pause"|"resume", "payload": {...}}.
type wsCommand struct {
	Command string                 `json:"command"`
	Payload map[string]interface{} `json:"payload"`
}

// handleWS implements the /ws session transport: a receiver goroutine reads
// commands off the socket and feeds them into a Session; the same
// goroutine also drains the Session's outcomes and writes them back,
// following §5's "receiver and worker joined, termination of either ends
// the session" rule — here realized as a single goroutine alternating
// between the two, since gorilla/websocket connections are not safe for
// concurrent writes from multiple goroutines without additional
// synchronization.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Log("level", "warn", "subsys", "server", "msg", "ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	sess := session.New(s.Defaults, s.Logger)
	go sess.Run()
	defer sess.Stop()

	outcomes := sess.Outcomes()

	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			s.Logger.Log("level", "debug", "subsys", "server", "msg", "ws peer disconnected", "err", err)
			return
		}
		if cmd.Command == "" {
			s.Logger.Log("level", "warn", "subsys", "server", "msg", "malformed ws message, discarding")
			continue
		}

		switch cmd.Command {
		case "configure":
			sess.Configure(cmd.Payload)
			outcome := <-outcomes
			if err := writeOutcome(conn, outcome); err != nil {
				return
			}
		case "pause":
			sess.Pause()
		case "resume":
			sess.Resume()
		default:
			s.Logger.Log("level", "warn", "subsys", "server", "msg", "unrecognized ws command", "command", cmd.Command)
		}
	}
}

func writeOutcome(conn *websocket.Conn, outcome session.Outcome) error {
	if outcome.Err != nil {
		return conn.WriteJSON(map[string]string{"error": outcome.Err.Error()})
	}
	return conn.WriteJSON(map[string]interface{}{
		"dataset": outcome.Result.Dataset,
		"metrics": outcome.Result.Metrics,
	})
}
