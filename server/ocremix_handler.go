package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"wavelib/core/library"
	"wavelib/core/mp3"
	"wavelib/logger"
	"wavelib/model"
)

func (h *APIHandler) ocremixStart(w http.ResponseWriter, r *http.Request) {
	maxRemix, err := h.songRepo.GetMaxRemixNumber()
	if err != nil {
		logger.Error("Failed to find highest remix number", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "ocremix_start", map[string]any{"NextRemix": maxRemix + 1})
}

// remixCategories resolves the default category tag for a remix: the most
// common category of songs already filed under the same game, falling back
// to the game name itself, with "Vocal" appended for lyrical remixes.
func (h *APIHandler) remixCategories(remix *model.Remix) (string, error) {
	category, err := h.songRepo.GetCategoryForAlbum(remix.PrimaryGame)
	if err != nil {
		return "", err
	}
	if category == "" {
		category = remix.PrimaryGame
	}
	if remix.HasLyrics {
		category = category + ", Vocal"
	}
	return category, nil
}

// ocremixFetch loads a catalog entry and renders the intake form, prefilled
// but fully editable. Everything downstream works from the submitted form,
// so staff can fix up names the sanitizer would reject.
func (h *APIHandler) ocremixFetch(w http.ResponseWriter, r *http.Request) {
	num := formInt(r, "ocr-id", 0)
	remix, err := h.catalog.Fetch(r.Context(), num)
	if err != nil {
		logger.Error("Catalog fetch failed", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if remix == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	categories, err := h.remixCategories(remix)
	if err != nil {
		logger.Error("Failed to resolve categories", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "ocremix_fetch", map[string]any{
		"DownloadURL": remix.DownloadURL,
		"Album":       remix.PrimaryGame,
		"Title":       remix.Title,
		"Artist":      remix.ArtistsDisplay(),
		"URL":         remix.URL,
		"Categories":  categories,
	})
}

// ocremixTargetFile answers with the path the submitted album/title resolve
// to, or a plain-text explanation of why they cannot. It recomputes live as
// staff edit the form.
func (h *APIHandler) ocremixTargetFile(w http.ResponseWriter, r *http.Request) {
	target, err := library.RemixTargetPath(h.cfg.LibraryRoot, r.FormValue("album"), r.FormValue("title"))
	if err != nil {
		fmt.Fprint(w, err.Error())
		return
	}
	fmt.Fprint(w, target)
}

func (h *APIHandler) ocremixDownload(w http.ResponseWriter, r *http.Request) {
	target, err := library.RemixTargetPath(h.cfg.LibraryRoot, r.FormValue("album"), r.FormValue("title"))
	if err != nil {
		render(w, "ocremix_download", map[string]any{"Error": err.Error()})
		return
	}

	downloadFrom := r.FormValue("download-from")
	body, err := h.catalog.Download(r.Context(), downloadFrom)
	if err != nil {
		logger.Error("Remix download failed",
			logger.String("url", downloadFrom), logger.ErrorField(err))
		render(w, "ocremix_download", map[string]any{"Error": err.Error()})
		return
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		logger.Error("Failed to create remix directory", logger.ErrorField(err))
		render(w, "ocremix_download", map[string]any{"Error": err.Error()})
		return
	}
	if err := os.WriteFile(target, body, 0644); err != nil {
		logger.Error("Failed to write remix file",
			logger.String("target", target), logger.ErrorField(err))
		render(w, "ocremix_download", map[string]any{"Error": err.Error()})
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
	if err := mp3.SetTagsAndStrip(target, tags); err != nil {
		logger.Error("Failed to tag remix file",
			logger.String("target", target), logger.ErrorField(err))
		render(w, "ocremix_download", map[string]any{"Error": err.Error()})
		return
	}
	logger.Info("Remix saved", logger.String("target", target))
	render(w, "ocremix_download", map[string]any{"Path": target})
}
