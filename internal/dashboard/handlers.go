package dashboard

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/session"
)

// handlePage renders the sidebar and the page selected by ?page=.
func (d *Dashboard) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := d.session(w, r)

	raw := r.URL.Query().Get("page")
	page, ok := session.ParsePage(raw)
	if !ok {
		log.Printf("dashboard: unknown page %q, showing chat", raw)
	}
	sess.SetPage(page)

	data := pageData{
		Title:   "Kepler CampusBot",
		Page:    page,
		HasLogo: d.hasLogo(),
	}
	switch page {
	case session.PageAbout:
		data.About = d.renderMarkdown(aboutMarkdown)
	default:
		data.Messages = d.messageViews(sess.Transcript.Messages())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Printf("dashboard: rendering page: %v", err)
	}
}

// handleChat runs one turn from the chat form and re-renders the chat page.
func (d *Dashboard) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := d.session(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	d.bot.Turn(r.Context(), sess.ID, sess.Transcript, r.PostForm.Get("question"))

	sess.SetPage(session.PageChat)
	http.Redirect(w, r, "/?page=chat", http.StatusSeeOther)
}

// handleNav is the target of the sidebar buttons.
func (d *Dashboard) handleNav(w http.ResponseWriter, r *http.Request) {
	sess := d.session(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	page, _ := session.ParsePage(r.PostForm.Get("page"))
	sess.SetPage(page)
	http.Redirect(w, r, "/?page="+string(page), http.StatusSeeOther)
}

// transcriptResponse is the JSON response for the transcript endpoint.
type transcriptResponse struct {
	SessionID string         `json:"session_id,omitempty"`
	Page      session.Page   `json:"page"`
	Messages  []chat.Message `json:"messages"`
}

func (d *Dashboard) handleTranscript(w http.ResponseWriter, r *http.Request) {
	resp := transcriptResponse{Page: session.PageChat, Messages: []chat.Message{}}
	if sess, ok := d.existingSession(r); ok {
		resp.SessionID = sess.ID
		resp.Page = sess.Page()
		resp.Messages = sess.Transcript.Messages()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
