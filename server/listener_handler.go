package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wavelib/logger"
	"wavelib/model"
	"wavelib/repository"
)

func (h *APIHandler) listenerFromRequest(r *http.Request) (*model.Listener, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return nil, nil
	}
	return h.listenerRepo.GetListenerByID(id)
}

func (h *APIHandler) listenersIndex(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.listenerRepo.GetRanks()
	if err != nil {
		logger.Error("Failed to load ranks", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "listeners_index", map[string]any{"Ranks": ranks})
}

func (h *APIHandler) listenersRows(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	page := pageFromRequest(r)
	if page < 1 {
		page = 1
	}
	var ranks []int
	for _, raw := range r.Form["ranks"] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		ranks = append(ranks, n)
	}
	q := repository.ListenerQuery{
		Search: r.FormValue("q"),
		Page:   page,
		Ranks:  ranks,
	}
	result, err := h.listenerRepo.GetListeners(q)
	if err != nil {
		logger.Error("Failed to query listeners", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render(w, "listeners_rows", map[string]any{
		"Rows":     result.Rows,
		"HasMore":  result.HasMore,
		"NextPage": result.Page + 1,
	})
}

func (h *APIHandler) listenerDetail(w http.ResponseWriter, r *http.Request) {
	listener, err := h.listenerFromRequest(r)
	if err != nil {
		logger.Error("Failed to load listener", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if listener == nil {
		http.NotFound(w, r)
		return
	}
	render(w, "listener_detail", map[string]any{"Listener": listener})
}

func (h *APIHandler) listenerEdit(w http.ResponseWriter, r *http.Request) {
	listener, err := h.listenerFromRequest(r)
	if err != nil {
		logger.Error("Failed to load listener", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if listener == nil {
		http.NotFound(w, r)
		return
	}
	render(w, "listener_edit", map[string]any{"Listener": listener})
}

func (h *APIHandler) listenerEditSave(w http.ResponseWriter, r *http.Request) {
	listener, err := h.listenerFromRequest(r)
	if err != nil {
		logger.Error("Failed to load listener", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if listener == nil {
		http.NotFound(w, r)
		return
	}
	discordUserID := r.FormValue("discord-user-id")
	if err := h.listenerRepo.SetDiscordUserID(listener.ID, discordUserID); err != nil {
		logger.Error("Failed to update Discord user ID",
			logger.Int64("listenerID", listener.ID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	logger.Info("Listener Discord link updated",
		logger.Int64("listenerID", listener.ID),
		logger.String("discordUserID", discordUserID))
	http.Redirect(w, r, "/listeners/"+strconv.FormatInt(listener.ID, 10), http.StatusSeeOther)
}
