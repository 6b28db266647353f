package server

import (
	"net/http"

	"wavelib/logger"
)

// SessionMiddleware resolves the browser's session once per request and
// stores it in the request context. Requests without a valid session cookie
// proceed with a nil session.
func (h *APIHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Request", logger.String("method", r.Method), logger.String("path", r.URL.Path))

		session, err := h.sessions.FromRequest(r)
		if err != nil {
			logger.Error("Failed to resolve session", logger.ErrorField(err))
			// Treated as signed out; the store being down should not take
			// the sign-in page with it.
			session = nil
		}
		next.ServeHTTP(w, withSessionContext(r, session))
	})
}

// RequireStaff gates a handler behind the staff role. Anyone else, signed in
// or not, is bounced to the index which shows the sign-in or not-authorized
// view as appropriate.
func (h *APIHandler) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromContext(r.Context())
		if !session.IsStaff() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
