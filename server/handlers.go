package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"wavelib/config"
	"wavelib/core/auth"
	"wavelib/core/bsky"
	"wavelib/core/ocremix"
	"wavelib/repository"
)

// APIHandler carries every dependency the request handlers need. One value
// is built at startup and shared; per-request state travels in the request
// context instead of package globals.
type APIHandler struct {
	songRepo     repository.SongRepository
	albumRepo    repository.AlbumRepository
	listenerRepo repository.ListenerRepository
	electionRepo repository.ElectionRepository
	sessions     *auth.SessionStore
	catalog      *ocremix.Client
	social       *bsky.Client
	cfg          *config.Config
}

// NewAPIHandler creates a new request handler set.
func NewAPIHandler(
	songRepo repository.SongRepository,
	albumRepo repository.AlbumRepository,
	listenerRepo repository.ListenerRepository,
	electionRepo repository.ElectionRepository,
	sessions *auth.SessionStore,
	catalog *ocremix.Client,
	social *bsky.Client,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		songRepo:     songRepo,
		albumRepo:    albumRepo,
		listenerRepo: listenerRepo,
		electionRepo: electionRepo,
		sessions:     sessions,
		catalog:      catalog,
		social:       social,
		cfg:          cfg,
	}
}

type contextKey string

const sessionContextKey contextKey = "session"

// sessionFromContext returns the request's session, or nil when the browser
// has none.
func sessionFromContext(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return s
}

func withSessionContext(r *http.Request, s *auth.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey, s))
}

// formInt reads a form value as an int, falling back to def on anything that
// does not parse. Malformed numbers are a normalization case, not an error.
func formInt(r *http.Request, key string, def int) int {
	raw := r.FormValue(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// pageFromRequest resolves the requested page number. The load-more row puts
// the next page in the URL while hx-include resends the filter form's page
// field in the body; the URL must win or every request lands on page 1.
func pageFromRequest(r *http.Request) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return formInt(r, "page", 1)
}

// formChannels reads the repeated channels field, keeping only known channel
// IDs. Anything else is dropped silently.
func formChannels(r *http.Request) []int {
	var out []int
	for _, raw := range r.Form["channels"] {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// externalURL builds an externally visible absolute URL for a local path,
// honoring the preferred scheme.
func (h *APIHandler) externalURL(r *http.Request, path string) string {
	return fmt.Sprintf("%s://%s%s", h.cfg.Scheme, r.Host, path)
}

// discordClient builds the identity-provider client bound to this request's
// host, so the redirect URI always matches the host the browser is on.
func (h *APIHandler) discordClient(r *http.Request) *auth.Discord {
	return auth.NewDiscord(h.cfg, h.externalURL(r, "/authorize"))
}

// faviconSVG is the boombox-fill icon from Bootstrap Icons, in the station's
// orange.
const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" fill="#f47d37" class="bi bi-boombox-fill" viewBox="0 0 16 16">` +
	`<path d="M14 0a.5.5 0 0 1 .5.5V2h.5a1 1 0 0 1 1 1v2H0V3a1 1 0 0 1 1-1h12.5V.5A.5.5 0 0 1 14 0M2 3.5a.5.5 0 1 0 1 0 .5.5 0 0 0-1 0m2 0a.5.5 0 1 0 1 0 .5.5 0 0 0-1 0m7.5.5a.5.5 0 1 0 0-1 .5.5 0 0 0 0 1m1.5-.5a.5.5 0 1 0 1 0 .5.5 0 0 0-1 0M9.5 3h-3a.5.5 0 0 0 0 1h3a.5.5 0 0 0 0-1M6 10.5a1.5 1.5 0 1 1-3 0 1.5 1.5 0 0 1 3 0m-1.5.5a.5.5 0 1 0 0-1 .5.5 0 0 0 0 1m7 1a1.5 1.5 0 1 0 0-3 1.5 1.5 0 0 0 0 3m.5-1.5a.5.5 0 1 1-1 0 .5.5 0 0 1 1 0"/>` +
	`<path d="M0 6h16v8a1 1 0 0 1-1 1H1a1 1 0 0 1-1-1zm2 4.5a2.5 2.5 0 1 0 5 0 2.5 2.5 0 0 0-5 0m7 0a2.5 2.5 0 1 0 5 0 2.5 2.5 0 0 0-5 0"/>` +
	`</svg>`

func (h *APIHandler) favicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, faviconSVG)
}
