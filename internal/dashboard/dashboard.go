// Package dashboard serves CampusBot's web UI: a sidebar with navigation, the
// chat page with its transcript, and the static about page.
package dashboard

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/yuin/goldmark"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/session"
)

// SessionCookie names the cookie that carries the session ID.
const SessionCookie = "campusbot_session"

// Dashboard provides the chat UI and its JSON/websocket endpoints.
type Dashboard struct {
	bot      *chat.Bot
	sessions *session.Store
	logoPath string
	md       goldmark.Markdown
	upgrader websocket.Upgrader
}

// New creates a new Dashboard. logoPath may be empty or point to a missing
// file, in which case no logo is shown. Websocket handshakes must come from
// the page's own origin unless allowAllOrigins is set.
func New(bot *chat.Bot, sessions *session.Store, logoPath string, allowAllOrigins bool) *Dashboard {
	d := &Dashboard{
		bot:      bot,
		sessions: sessions,
		logoPath: logoPath,
		md:       newMarkdown(),
	}
	// A nil CheckOrigin makes gorilla reject cross-origin handshakes.
	if allowAllOrigins {
		d.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return d
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.handlePage)
	r.Post("/chat", d.handleChat)
	r.Post("/nav", d.handleNav)
	r.Get("/static/logo", d.handleLogo)
	r.Get("/api/transcript", d.handleTranscript)
	r.Get("/ws/chat", d.handleWebSocket)
}

// session resolves the caller's session, creating one and setting the cookie
// when needed.
func (d *Dashboard) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, created := d.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// existingSession returns the caller's session without creating one.
func (d *Dashboard) existingSession(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return d.sessions.Get(c.Value)
}

func (d *Dashboard) hasLogo() bool {
	if d.logoPath == "" {
		return false
	}
	info, err := os.Stat(d.logoPath)
	return err == nil && !info.IsDir()
}

func (d *Dashboard) handleLogo(w http.ResponseWriter, r *http.Request) {
	if !d.hasLogo() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, d.logoPath)
}
