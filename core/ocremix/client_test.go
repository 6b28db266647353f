package ocremix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/remix/OCR00042.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"title": "Beneath the Surface",
				"primary_game": "Ecco the Dolphin",
				"artists": [{"name": "somebody"}, {"name": "somebody else"}],
				"has_lyrics": true,
				"download_url": "https://files.example.com/OCR00042.mp3",
				"url": "https://remix.example.com/remix/OCR00042"
			}`))
		case "/remix/OCR00043.json":
			w.Write([]byte(`<html>not json</html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	t.Run("KnownRemix", func(t *testing.T) {
		remix, err := client.Fetch(context.Background(), 42)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if remix == nil {
			t.Fatal("expected a remix")
		}
		if remix.Title != "Beneath the Surface" || remix.PrimaryGame != "Ecco the Dolphin" {
			t.Errorf("unexpected remix: %+v", remix)
		}
		if !remix.HasLyrics {
			t.Error("expected has_lyrics to be true")
		}
		if got := remix.ArtistsDisplay(); got != "somebody, somebody else" {
			t.Errorf("ArtistsDisplay = %q", got)
		}
		if remix.DownloadURL != "https://files.example.com/OCR00042.mp3" {
			t.Errorf("DownloadURL = %q", remix.DownloadURL)
		}
	})

	t.Run("MalformedEntryIsNotAnError", func(t *testing.T) {
		remix, err := client.Fetch(context.Background(), 43)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if remix != nil {
			t.Errorf("expected nil remix for malformed entry, got %+v", remix)
		}
	})

	t.Run("UnknownRemixIsNotAnError", func(t *testing.T) {
		remix, err := client.Fetch(context.Background(), 99999)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if remix != nil {
			t.Errorf("expected nil remix for unknown ID, got %+v", remix)
		}
	})
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/song.mp3" {
			w.Write([]byte("mp3 bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	t.Run("OK", func(t *testing.T) {
		body, err := client.Download(context.Background(), srv.URL+"/files/song.mp3")
		if err != nil {
			t.Fatalf("Download failed: %v", err)
		}
		if string(body) != "mp3 bytes" {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("MissingFileIsAnError", func(t *testing.T) {
		if _, err := client.Download(context.Background(), srv.URL+"/files/missing.mp3"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
