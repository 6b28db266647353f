package server

import (
	"encoding/json"
	"net/http"
	"time"

	"wavelib/logger"
)

// electionsJSON reports the elections a channel ran on a given UTC day. This
// is a read-only JSON surface for external reporting tools.
func (h *APIHandler) electionsJSON(w http.ResponseWriter, r *http.Request) {
	sid := formInt(r, "sid", 1)

	day, err := time.Parse("2006-01-02", r.FormValue("day"))
	if err != nil {
		day, _ = time.Parse("2006-01-02", "2024-01-01")
	}

	elections, err := h.electionRepo.GetElections(sid, day)
	if err != nil {
		logger.Error("Failed to query elections", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	payload := map[string]any{
		"sid":           sid,
		"day":           day.Format("2006-01-02"),
		"sched_history": elections,
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode elections response", logger.ErrorField(err))
	}
}
