package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wavelib/config"
)

func TestOcremixTargetFile(t *testing.T) {
	h := &APIHandler{cfg: &config.Config{LibraryRoot: "/srv/music"}}

	post := func(t *testing.T, album, title string) string {
		t.Helper()
		values := url.Values{"album": {album}, "title": {title}}
		r := httptest.NewRequest(http.MethodPost, "/get-ocremix/target-file",
			strings.NewReader(values.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h.ocremixTargetFile(w, r)
		return w.Body.String()
	}

	t.Run("ResolvesFromSubmittedForm", func(t *testing.T) {
		got := post(t, "Chrono Trigger", "Schala's Theme")
		want := "/srv/music/ocr-all/c/ChronoTrigger/SchalasTheme.mp3"
		if got != want {
			t.Errorf("target = %q, want %q", got, want)
		}
	})

	t.Run("UnsupportedCharacterReported", func(t *testing.T) {
		got := post(t, "Søngs of Time", "A Mix")
		if !strings.Contains(got, "[248]") {
			t.Errorf("expected the offending character report, got %q", got)
		}
	})

	// The fetch prefill is only a default: staff edit the album field and
	// the path follows the edited value, which is how names the sanitizer
	// rejects get imported at all.
	t.Run("EditedAlbumChangesTarget", func(t *testing.T) {
		got := post(t, "Songs of Time", "A Mix")
		want := "/srv/music/ocr-all/s/SongsofTime/AMix.mp3"
		if got != want {
			t.Errorf("target = %q, want %q", got, want)
		}
	})
}
