package model

// ElectionEntry is one song in a past election, in ballot order.
type ElectionEntry struct {
	EntryID  int64   `json:"entry_id"`
	Position int     `json:"entry_position"`
	SongID   int64   `json:"id"`
	Votes    int     `json:"entry_votes"`
	Title    string  `json:"title"`
	Album    string  `json:"album"`
	Artist   string  `json:"artist"`
	Rating   float64 `json:"rating"`
}

// Election is a past scheduling event for one channel. Read-only, reporting
// surface only.
type Election struct {
	ID          int64           `json:"id"`
	StartActual int64           `json:"start_actual"` // unix seconds
	Songs       []ElectionEntry `json:"songs"`
}
