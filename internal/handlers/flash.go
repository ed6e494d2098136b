package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	flashSession = "incordes_flash"
	flashError   = "error"
	flashSuccess = "success"

	// success banners disappear after this many milliseconds
	successDismiss = 3000
)

// NewCookieStore returns the store for flash cookies. secure marks the
// cookie HTTPS only.
func NewCookieStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (h *Handlers) flash(w http.ResponseWriter, r *http.Request, kind string, text string) {
	session, err := h.cookies.Get(r, flashSession)
	if err != nil {
		// a cookie signed with an old secret, start over
		h.sugar.Debug(err)
	}

	session.AddFlash(text, kind)
	if err := session.Save(r, w); err != nil {
		h.sugar.Error(err)
	}
}

// banners pops the pending flash messages into p.
func (h *Handlers) banners(w http.ResponseWriter, r *http.Request, p *page) {
	session, err := h.cookies.Get(r, flashSession)
	if err != nil {
		h.sugar.Debug(err)
	}

	errorFlashes := session.Flashes(flashError)
	successFlashes := session.Flashes(flashSuccess)
	if len(errorFlashes) == 0 && len(successFlashes) == 0 {
		return
	}

	if err := session.Save(r, w); err != nil {
		h.sugar.Error(err)
	}

	if text, ok := last(errorFlashes); ok {
		p.Error = text
	}
	if text, ok := last(successFlashes); ok {
		p.Success = text
		p.AutoDismiss = successDismiss
	}
}

func last(flashes []any) (string, bool) {
	if len(flashes) == 0 {
		return "", false
	}
	text, ok := flashes[len(flashes)-1].(string)
	return text, ok
}

// seeOther finishes a form post.
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
