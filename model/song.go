package model

import (
	"fmt"
	"time"
)

// ChannelNames maps a channel ID to its display name. The station runs a
// fixed set of five channels.
var ChannelNames = map[int]string{
	1: "Game",
	2: "OC ReMix",
	3: "Covers",
	4: "Chiptune",
	5: "All",
}

// AllChannelIDs returns every known channel ID in ascending order.
func AllChannelIDs() []int {
	return []int{1, 2, 3, 4, 5}
}

// Song represents a verified song in the station library. Rows are created
// and mutated by the out-of-process library scanner; this application only
// reads them, except indirectly through tag edits on the underlying file.
type Song struct {
	ID           int64     `json:"id"`
	AlbumName    string    `json:"albumName"`
	Title        string    `json:"title"`
	ArtistTag    string    `json:"artistTag"`
	Groups       []string  `json:"groups"`
	Length       int       `json:"length"` // seconds
	AddedOn      time.Time `json:"addedOn"`
	Rating       float64   `json:"rating"`
	RatingCount  int       `json:"ratingCount"`
	FaveCount    int       `json:"faveCount"`
	RequestCount int       `json:"requestCount"`
	URL          string    `json:"url"`
	LinkText     string    `json:"linkText"`
	Filename     string    `json:"-"` // absolute path inside the library root
	Channels     []int     `json:"channels"`
}

// LengthDisplay renders the song length as m:ss.
func (s *Song) LengthDisplay() string {
	return fmt.Sprintf("%d:%02d", s.Length/60, s.Length%60)
}

// ChannelsDisplay renders the channel memberships as a comma separated list
// of channel names.
func (s *Song) ChannelsDisplay() string {
	out := ""
	for i, c := range s.Channels {
		if i > 0 {
			out += ", "
		}
		if name, ok := ChannelNames[c]; ok {
			out += name
		} else {
			out += fmt.Sprintf("Unknown (%d)", c)
		}
	}
	return out
}

// SongPage is one page of song results. Rows holds at most PageSize entries;
// HasMore reports whether another page exists.
type SongPage struct {
	Rows    []*Song `json:"rows"`
	Page    int     `json:"page"`
	HasMore bool    `json:"hasMore"`
}
