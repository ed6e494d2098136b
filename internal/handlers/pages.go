package handlers

import "net/http"

// Loading is the interstitial shown while the stored session is restored.
// The guard has already written the status line.
func (h *Handlers) Loading(w http.ResponseWriter, r *http.Request) {
	h.render(w, 0, "loading", page{Title: "Loading..."})
}

func (h *Handlers) Privacy(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "privacy", page{Title: "Privacy Policy | Incordes"})
}

func (h *Handlers) Terms(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "terms", page{Title: "Terms of Service | Incordes"})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "notfound", page{Title: "Page not found | Incordes"})
}
