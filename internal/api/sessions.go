package api

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/archive"
)

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	f := archive.Filter{ScenarioID: r.URL.Query().Get("scenario")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		f.Limit = n
	}

	recs, err := h.archive.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": recs})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if t := h.cache.Get(id); t != nil {
		writeJSON(w, http.StatusOK, t)
		return
	}

	t, err := h.archive.Transcript(r.Context(), id)
	if errors.Is(err, archive.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		h.logger.Error("load session failed", zap.String("session_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	h.cache.Put(id, t)
	writeJSON(w, http.StatusOK, t)
}
