package model

import "strings"

// RemixArtist is one credited artist on a catalog entry.
type RemixArtist struct {
	Name string `json:"name"`
}

// Remix describes one entry in the public remix catalog.
type Remix struct {
	Title       string        `json:"title"`
	PrimaryGame string        `json:"primary_game"`
	Artists     []RemixArtist `json:"artists"`
	HasLyrics   bool          `json:"has_lyrics"`
	DownloadURL string        `json:"download_url"`
	URL         string        `json:"url"`
}

// ArtistsDisplay renders the credited artists as a comma separated list.
func (r *Remix) ArtistsDisplay() string {
	names := make([]string, len(r.Artists))
	for i, a := range r.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
