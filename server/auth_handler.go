package server

import (
	"net/http"

	"github.com/google/uuid"

	"wavelib/core/auth"
	"wavelib/logger"
)

// index is the landing page: sign-in prompt for anonymous browsers, a polite
// refusal for signed-in non-staff, and the library for staff.
func (h *APIHandler) index(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || sess.Role == "" {
		render(w, "sign_in", nil)
		return
	}
	if !sess.IsStaff() {
		render(w, "not_authorized", map[string]any{"Username": sess.DiscordUsername})
		return
	}
	http.Redirect(w, r, "/songs", http.StatusSeeOther)
}

// signIn starts the delegated sign-in flow. A fresh state nonce is stored in
// the session before the browser is sent to the provider.
func (h *APIHandler) signIn(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		sess = h.sessions.New()
	}
	sess.State = uuid.NewString()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		logger.Error("Failed to save session", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.sessions.IssueCookie(w, sess); err != nil {
		logger.Error("Failed to issue session cookie", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.discordClient(r).AuthCodeURL(sess.State), http.StatusTemporaryRedirect)
}

// authorize is the provider callback. The state nonce must match the one
// stored at sign-in; otherwise the code is treated as forged.
func (h *APIHandler) authorize(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || sess.State == "" || r.FormValue("state") != sess.State {
		logger.Warn("Sign-in callback with mismatched state")
		http.Error(w, "State mismatch", http.StatusUnauthorized)
		return
	}

	discord := h.discordClient(r)
	token, err := discord.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		logger.Error("Sign-in token exchange failed", logger.ErrorField(err))
		http.Error(w, "Sign-in failed", http.StatusBadGateway)
		return
	}
	member, err := discord.GuildMember(r.Context(), token)
	if err != nil {
		logger.Error("Guild member lookup failed", logger.ErrorField(err))
		http.Error(w, "Sign-in failed", http.StatusBadGateway)
		return
	}

	sess.State = ""
	sess.DiscordID = member.User.ID
	sess.DiscordUsername = member.User.Username
	sess.Role = discord.RoleFor(member)
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		logger.Error("Failed to save session", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	logger.Info("Sign-in completed",
		logger.String("username", sess.DiscordUsername),
		logger.String("role", sess.Role))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// signOut discards the session on both sides.
func (h *APIHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if sess := sessionFromContext(r.Context()); sess != nil {
		if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
			logger.Error("Failed to delete session", logger.ErrorField(err))
		}
	}
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// assumeMember downgrades the current staff session to a plain member, for
// checking what non-staff see. Signing in again restores the real role.
func (h *APIHandler) assumeMember(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.Role = auth.RoleMember
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		logger.Error("Failed to save session", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
