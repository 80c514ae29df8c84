package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/metrics"
	"github.com/coachlab/coachlab/pkg/coach"
)

// coachResponse adds the archived session ID to a coaching response.
type coachResponse struct {
	coach.Response
	SessionID string `json:"sessionId,omitempty"`
}

// decodeRequest reads a coaching request. An empty body is an empty request.
func decodeRequest(w http.ResponseWriter, r *http.Request) (coach.Request, int, error) {
	var req coach.Request
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(&req)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return req, 0, nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		return req, http.StatusBadRequest, errors.New("invalid request body: " + err.Error())
	}
}

func (h *Handler) handleCoach(w http.ResponseWriter, r *http.Request) {
	req, status, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	resp := h.coach.Handle(r.Context(), req)
	metrics.RecordCoaching("coach", string(resp.Feedback.Badge), resp.Feedback.Score)

	out := coachResponse{Response: resp}
	rec, err := h.archive.Save(r.Context(), req, resp)
	if err != nil {
		h.logger.Warn("archive session failed", zap.Error(err))
	} else {
		out.SessionID = rec.ID
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	req, status, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	result := h.coach.Score(req.ManagerMessage)
	metrics.RecordCoaching("score", string(result.Badge), result.Score)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": coach.Scenarios()})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.archive.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  "session index unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
