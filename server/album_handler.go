package server

import (
	"net/http"

	"wavelib/logger"
	"wavelib/repository"
)

func (h *APIHandler) albumsIndex(w http.ResponseWriter, r *http.Request) {
	render(w, "albums_index", nil)
}

func (h *APIHandler) albumsRows(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	page := pageFromRequest(r)
	if page < 1 {
		page = 1
	}
	q := repository.AlbumQuery{
		Search:  r.FormValue("q"),
		Page:    page,
		SortCol: r.FormValue("sort-col"),
		SortDir: r.FormValue("sort-dir"),
	}
	result, err := h.albumRepo.GetAlbums(q)
	if err != nil {
		logger.Error("Failed to query albums", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "albums_rows", map[string]any{
		"Rows":     result.Rows,
		"HasMore":  result.HasMore,
		"NextPage": result.Page + 1,
	})
}
