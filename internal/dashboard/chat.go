package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/kepler-college/campusbot/internal/session"
)

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "message"
	Content string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Role      string `json:"role,omitempty"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
}

// handleWebSocket runs turns for the session named by the handshake cookie,
// or a new session when there is none.
func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess := d.session(w, r)

	conn, err := d.upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			d.sendError(conn, sess, "invalid message format")
			continue
		}

		if req.Type != "message" {
			d.sendError(conn, sess, "unknown message type: "+req.Type)
			continue
		}

		if strings.TrimSpace(req.Content) == "" {
			d.sendError(conn, sess, "content is required")
			continue
		}

		reply, _ := d.bot.Turn(r.Context(), sess.ID, sess.Transcript, req.Content)
		d.send(conn, chatResponse{
			Type:      "response",
			SessionID: sess.ID,
			Role:      string(reply.Role),
			Content:   reply.Content,
			HTML:      string(d.renderMarkdown([]byte(reply.Content))),
		})
	}
}

func (d *Dashboard) send(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("dashboard: websocket write: %v", err)
	}
}

func (d *Dashboard) sendError(conn *websocket.Conn, sess *session.Session, message string) {
	d.send(conn, chatResponse{
		Type:      "error",
		SessionID: sess.ID,
		Content:   message,
	})
}
