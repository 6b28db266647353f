package model

import "time"

// Listener represents a registered listener account. The underlying tables
// belong to the station's forum software; the only field this application
// ever writes is DiscordUserID.
type Listener struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"` // radio alias when set, else base username
	GroupName     string     `json:"groupName"`
	RankID        int        `json:"rankId"`
	RankTitle     string     `json:"rankTitle"`
	DiscordUserID string     `json:"discordUserId,omitempty"` // empty when not linked
	LastActive    *time.Time `json:"lastActive,omitempty"`
	RatingCount   int        `json:"ratingCount"`
	Avatar        string     `json:"-"`
}

// IsDiscordUser reports whether the listener is linked to a Discord account.
func (l *Listener) IsDiscordUser() bool {
	return l.DiscordUserID != ""
}

// ListenerPage is one page of listener results.
type ListenerPage struct {
	Rows    []*Listener `json:"rows"`
	Page    int         `json:"page"`
	HasMore bool        `json:"hasMore"`
}

// Rank is a listener rank title, used to filter the listener table.
type Rank struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
