package model

// Album represents an album in the station library. Albums are created by
// the library scanner and are immutable from this application's perspective.
type Album struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SongCount int    `json:"songCount"`
}

// AlbumPage is one page of album results.
type AlbumPage struct {
	Rows    []*Album `json:"rows"`
	Page    int      `json:"page"`
	HasMore bool     `json:"hasMore"`
}
