package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wavelib/core/library"
	"wavelib/core/mp3"
	"wavelib/logger"
	"wavelib/model"
	"wavelib/repository"
)

// songFromRequest resolves the {id} route variable to a song row. A nil song
// with a nil error means the ID is well-formed but unknown.
func (h *APIHandler) songFromRequest(r *http.Request) (*model.Song, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return nil, nil
	}
	return h.songRepo.GetSongByID(id)
}

// songSortLabels lists the sortable columns offered by the UI. The
// repository's own whitelist is authoritative; this only drives the form.
var songSortLabels = map[string]string{
	"song_id":       "ID",
	"album_name":    "Album",
	"song_title":    "Title",
	"song_filename": "Filename",
	"song_length":   "Length",
	"song_rating":   "Rating",
	"song_url":      "URL",
}

func (h *APIHandler) songsIndex(w http.ResponseWriter, r *http.Request) {
	render(w, "songs_index", map[string]any{
		"Channels":    model.ChannelNames,
		"SortColumns": songSortLabels,
	})
}

// songQueryFromForm normalizes the filter form into a repository query. A
// missing or garbage page becomes page 1.
func songQueryFromForm(r *http.Request) repository.SongQuery {
	page := pageFromRequest(r)
	if page < 1 {
		page = 1
	}
	return repository.SongQuery{
		Search:         r.FormValue("q"),
		Page:           page,
		SortCol:        r.FormValue("sort-col"),
		SortDir:        r.FormValue("sort-dir"),
		Channels:       formChannels(r),
		IncludeUnrated: r.FormValue("include-unrated") != "",
	}
}

func (h *APIHandler) songsRows(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	q := songQueryFromForm(r)
	page, err := h.songRepo.GetSongs(q)
	if err != nil {
		logger.Error("Failed to query songs", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "songs_rows", map[string]any{
		"Rows":     page.Rows,
		"HasMore":  page.HasMore,
		"NextPage": page.Page + 1,
	})
}

func (h *APIHandler) songDetail(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}
	render(w, "song_detail", map[string]any{"Song": song})
}

func (h *APIHandler) songEdit(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}

	// The form is pre-filled from the file's own tags when they are
	// readable, falling back to the database row when not.
	data := map[string]any{"Song": song}
	if tags, err := mp3.ReadTags(song.Filename); err != nil {
		logger.Warn("Failed to read file tags",
			logger.String("filename", song.Filename), logger.ErrorField(err))
		data["FileTagError"] = err.Error()
	} else {
		fromFile := *song
		fromFile.AlbumName = tags.Album
		fromFile.Title = tags.Title
		fromFile.ArtistTag = tags.Artist
		if tags.Categories != "" {
			fromFile.Groups = []string{tags.Categories}
		}
		fromFile.LinkText = tags.LinkText
		if tags.URL != "" {
			fromFile.URL = tags.URL
		}
		data["Song"] = &fromFile
	}
	render(w, "song_edit", data)
}

func (h *APIHandler) songEditSave(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}

	tags := mp3.Tags{
		Album:      r.FormValue("album"),
		Title:      r.FormValue("title"),
		Artist:     r.FormValue("artist"),
		Categories: r.FormValue("categories"),
		URL:        r.FormValue("url"),
		LinkText:   r.FormValue("link-text"),
	}
	if err := mp3.SetTags(song.Filename, tags); err != nil {
		logger.Error("Failed to write file tags",
			logger.String("filename", song.Filename), logger.ErrorField(err))
		render(w, "edit_result", map[string]any{
			"AlertClass": "alert-danger",
			"Message":    fmt.Sprintf("Failed to update tags: %v", err),
		})
		return
	}
	logger.Info("Song tags updated",
		logger.Int64("songID", song.ID),
		logger.String("filename", song.Filename))
	render(w, "edit_result", map[string]any{
		"AlertClass": "alert-success",
		"Message":    "Song tags updated. The scanner will pick the change up shortly.",
	})
}

func (h *APIHandler) songPlay(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}
	render(w, "song_play", map[string]any{"Song": song})
}

func (h *APIHandler) songStream(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, song.Filename)
}

func (h *APIHandler) songDownload(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}
	name := mp3.MakeSafe(song.AlbumName+" "+song.Title) + ".mp3"
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, song.Filename)
}

func (h *APIHandler) songRemove(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}
	newLoc, err := library.RemovedLocation(h.cfg.LibraryRoot, song.Filename)
	if err != nil {
		logger.Error("Failed to compute removed location",
			logger.String("filename", song.Filename), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "song_remove", map[string]any{"Song": song, "NewLocation": newLoc})
}

func (h *APIHandler) songRemoveSave(w http.ResponseWriter, r *http.Request) {
	song, err := h.songFromRequest(r)
	if err != nil {
		logger.Error("Failed to load song", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if song == nil {
		http.NotFound(w, r)
		return
	}

	sess := sessionFromContext(r.Context())
	note := library.RemovalNote{
		SongID:    song.ID,
		RemovedBy: sess.DiscordUsername,
		RemoverID: sess.DiscordID,
		Reason:    r.FormValue("reason"),
	}
	if _, err := library.RemoveSong(h.cfg.LibraryRoot, song.Filename, note); err != nil {
		logger.Error("Failed to remove song",
			logger.Int64("songID", song.ID), logger.ErrorField(err))
		newLoc, _ := library.RemovedLocation(h.cfg.LibraryRoot, song.Filename)
		render(w, "song_remove", map[string]any{
			"Song":        song,
			"NewLocation": newLoc,
			"Error":       err.Error(),
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
