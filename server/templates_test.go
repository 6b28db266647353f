package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wavelib/model"
)

func sampleSong() *model.Song {
	return &model.Song{
		ID:          8160,
		AlbumName:   "Chrono Trigger",
		Title:       "Schala's Theme",
		ArtistTag:   "Some Remixer",
		Groups:      []string{"Chrono Trigger"},
		Length:      245,
		AddedOn:     time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC),
		Rating:      4.5,
		RatingCount: 120,
		URL:         "https://ocremix.org/remix/OCR01234",
		Filename:    "/srv/music/ocr-all/c/Chrono Trigger/SchalasTheme.mp3",
		Channels:    []int{2, 5},
	}
}

// Executes every page template against representative data so a template
// syntax or field mistake fails here instead of in a live request.
func TestTemplatesRender(t *testing.T) {
	song := sampleSong()
	tests := []struct {
		name string
		data any
		want string
	}{
		{"sign_in", nil, "Sign in with Discord"},
		{"not_authorized", map[string]any{"Username": "somebody"}, "somebody"},
		{"songs_index", map[string]any{
			"Channels":    model.ChannelNames,
			"SortColumns": songSortLabels,
		}, "Include unrated"},
		{"songs_rows", map[string]any{
			"Rows": []*model.Song{song}, "HasMore": true, "NextPage": 2,
		}, "page=2"},
		{"song_detail", map[string]any{"Song": song}, "Schala"},
		{"song_edit", map[string]any{"Song": song}, "link-text"},
		{"edit_result", map[string]any{"AlertClass": "alert-success", "Message": "done"}, "done"},
		{"song_play", map[string]any{"Song": song}, "/songs/8160/stream"},
		{"song_remove", map[string]any{"Song": song, "NewLocation": "/srv/music/removed/x.mp3"}, "removed"},
		{"albums_index", nil, "Search albums"},
		{"albums_rows", map[string]any{
			"Rows": []*model.Album{{ID: 12, Name: "Chrono Trigger", SongCount: 30}},
			"HasMore": false, "NextPage": 2,
		}, "Chrono Trigger"},
		{"listeners_index", map[string]any{
			"Ranks": []model.Rank{{ID: 3, Title: "Donor"}},
		}, "Donor"},
		{"listeners_rows", map[string]any{
			"Rows": []*model.Listener{{ID: 7, Name: "somebody", GroupName: "Admins"}},
			"HasMore": false, "NextPage": 2,
		}, "Admins"},
		{"listener_detail", map[string]any{
			"Listener": &model.Listener{ID: 7, Name: "somebody"},
		}, "somebody"},
		{"listener_edit", map[string]any{
			"Listener": &model.Listener{ID: 7, Name: "somebody", DiscordUserID: "123"},
		}, "discord-user-id"},
		{"ocremix_start", map[string]any{"NextRemix": 4567}, "4567"},
		{"ocremix_fetch", map[string]any{
			"DownloadURL": "https://files.example.com/OCR04567.mp3",
			"Album":       "A Game",
			"Title":       "A Mix",
			"Artist":      "a, b",
			"URL":         "https://remix.example.com/remix/OCR04567",
			"Categories":  "Chrono Trigger",
		}, "A Mix"},
		{"ocremix_download", map[string]any{"Path": "/srv/music/ocr-all/a/A Game/AMix.mp3"}, "AMix.mp3"},
		{"ocremix_download", map[string]any{"Error": "download failed"}, "download failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			render(w, tt.name, tt.data)
			body := w.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("template %s output missing %q:\n%s", tt.name, tt.want, body)
			}
		})
	}
}

// The intake form must stay editable so staff can fix up names the
// sanitizer rejects before download.
func TestOcremixFetchFormIsEditable(t *testing.T) {
	w := httptest.NewRecorder()
	render(w, "ocremix_fetch", map[string]any{
		"DownloadURL": "https://files.example.com/OCR04567.mp3",
		"Album":       "Søngs of Time",
		"Title":       "A Mix",
		"Artist":      "a, b",
		"URL":         "https://remix.example.com/remix/OCR04567",
		"Categories":  "Chrono Trigger",
	})
	body := w.Body.String()

	for _, field := range []string{
		`name="download-from"`, `name="album"`, `name="title"`,
		`name="artist"`, `name="url"`, `name="link-text"`, `name="categories"`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("intake form missing input %s", field)
		}
	}
	if !strings.Contains(body, "Get @ OCR") {
		t.Error("link-text input should default to Get @ OCR")
	}
	if !strings.Contains(body, `value="Søngs of Time"`) {
		t.Error("album input should be prefilled with the catalog value")
	}
}
