package bsky

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"wavelib/config"
)

func TestPost(t *testing.T) {
	var sessions, records int
	var postedText string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/xrpc/com.atproto.server.createSession":
			sessions++
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if body["identifier"] != "radio.example.com" || body["password"] != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"accessJwt": "access-1"})
		case "/xrpc/com.atproto.repo.createRecord":
			if r.Header.Get("Authorization") != "Bearer access-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			records++
			var body struct {
				Collection string `json:"collection"`
				Repo       string `json:"repo"`
				Record     struct {
					Text      string `json:"text"`
					CreatedAt string `json:"createdAt"`
				} `json:"record"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if body.Collection != "app.bsky.feed.post" || body.Repo != "radio.example.com" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			postedText = body.Record.Text
			json.NewEncoder(w).Encode(map[string]string{"uri": "at://did:plc:x/app.bsky.feed.post/1"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(&config.Config{
		BskyHandle:   "radio.example.com",
		BskyPassword: "hunter2",
		BskyPDSHost:  srv.URL,
	})

	t.Run("PostCreatesSession", func(t *testing.T) {
		if err := client.Post(context.Background(), "New songs this week!"); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
		if sessions != 1 || records != 1 {
			t.Errorf("sessions=%d records=%d, want 1/1", sessions, records)
		}
		if postedText != "New songs this week!" {
			t.Errorf("posted text = %q", postedText)
		}
	})

	// Access tokens expire between posts, so every post must start its own
	// session rather than reuse a stale one.
	t.Run("EachPostCreatesFreshSession", func(t *testing.T) {
		if err := client.Post(context.Background(), "Another one"); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
		if sessions != 2 {
			t.Errorf("sessions=%d, want 2", sessions)
		}
		if records != 2 {
			t.Errorf("records=%d, want 2", records)
		}
	})
}

func TestPostConcurrent(t *testing.T) {
	var mu sync.Mutex
	var sessions, records int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/xrpc/com.atproto.server.createSession":
			sessions++
			json.NewEncoder(w).Encode(map[string]string{"accessJwt": "access-1"})
		case "/xrpc/com.atproto.repo.createRecord":
			records++
			json.NewEncoder(w).Encode(map[string]string{"uri": "at://did:plc:x/app.bsky.feed.post/1"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(&config.Config{
		BskyHandle:   "radio.example.com",
		BskyPassword: "hunter2",
		BskyPDSHost:  srv.URL,
	})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Post(context.Background(), "concurrent post")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("post %d failed: %v", i, err)
		}
	}
	if sessions != 2 || records != 2 {
		t.Errorf("sessions=%d records=%d, want 2/2", sessions, records)
	}
}

func TestPostBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(&config.Config{
		BskyHandle:   "radio.example.com",
		BskyPassword: "wrong",
		BskyPDSHost:  srv.URL,
	})
	if err := client.Post(context.Background(), "text"); err == nil {
		t.Error("expected error for rejected credentials")
	}
}
