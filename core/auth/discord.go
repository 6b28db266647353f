package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"wavelib/config"
	"wavelib/logger"
)

// Discord performs the delegated sign-in: authorization-code exchange
// followed by a guild-membership lookup that decides the role.
type Discord struct {
	oauth       *oauth2.Config
	apiBase     string
	guildID     string
	staffRoleID string
	httpClient  *http.Client
}

// NewDiscord builds the provider client. redirectURL must be the externally
// visible /authorize URL.
func NewDiscord(cfg *config.Config, redirectURL string) *Discord {
	return &Discord{
		oauth: &oauth2.Config{
			ClientID:     cfg.OpenIDClientID,
			ClientSecret: cfg.OpenIDClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"guilds.members.read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.DiscordAPIBase + "/oauth2/authorize",
				TokenURL: cfg.DiscordAPIBase + "/api/v10/oauth2/token",
			},
		},
		apiBase:     cfg.DiscordAPIBase,
		guildID:     cfg.DiscordGuildID,
		staffRoleID: cfg.DiscordStaffRoleID,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the provider URL to redirect the browser to, bound to
// the session's state nonce.
func (d *Discord) AuthCodeURL(state string) string {
	return d.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
}

// Exchange trades the callback code for an access token.
func (d *Discord) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := d.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// GuildMember is the guild-scoped view of the signed-in user.
type GuildMember struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	Roles []string `json:"roles"`
}

// GuildMember fetches the signed-in user's membership in the configured
// guild.
func (d *Discord) GuildMember(ctx context.Context, token *oauth2.Token) (*GuildMember, error) {
	url := fmt.Sprintf("%s/api/v10/users/@me/guilds/%s/member", d.apiBase, d.guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build guild member request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guild member lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guild member lookup returned status %d", resp.StatusCode)
	}

	member := &GuildMember{}
	if err := json.NewDecoder(resp.Body).Decode(member); err != nil {
		return nil, fmt.Errorf("failed to decode guild member response: %w", err)
	}
	return member, nil
}

// RoleFor derives the application role from the member's guild roles.
func (d *Discord) RoleFor(member *GuildMember) string {
	for _, role := range member.Roles {
		if role == d.staffRoleID {
			logger.Debug("Sign-in resolved to staff", logger.String("username", member.User.Username))
			return RoleStaff
		}
	}
	logger.Debug("Sign-in resolved to member", logger.String("username", member.User.Username))
	return RoleMember
}
