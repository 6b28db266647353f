package server

import (
	"net/http"

	"wavelib/logger"
)

// blueskyPost publishes a one-off post to the station's Bluesky account.
func (h *APIHandler) blueskyPost(w http.ResponseWriter, r *http.Request) {
	body := r.FormValue("body")
	if body == "" {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if err := h.social.Post(r.Context(), body); err != nil {
		logger.Error("Failed to publish post", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
