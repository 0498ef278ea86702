package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/atlanticdynamic/lynxeval/internal/dispatch"
	"github.com/atlanticdynamic/lynxeval/internal/response"
	"github.com/gorilla/mux"
)

// evalRequest is the body of POST /eval/{session}/{lang}.
type evalRequest struct {
	Code *string `json:"code"`
}

// ErrInvalidBody is reported for evaluation requests that cannot be decoded.
var ErrInvalidBody = errors.New("invalid request body")

func (h *Handler) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.evaluator.NewSession(r.Context())
	if err != nil {
		h.logger.Error("Failed to create session", "error", err)
		h.writeResponse(w, http.StatusInternalServerError, response.FailureFromError(err))
		return
	}
	h.writeJSON(w, http.StatusOK, id)
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, language := vars["session"], vars["lang"]

	code, err := h.decodeCode(w, r)
	if err != nil {
		h.logger.Debug("Rejected evaluation request", "session", sessionID, "error", err)
		h.writeResponse(w, http.StatusBadRequest, response.FailureFromError(err))
		return
	}

	resp, err := h.evaluator.Evaluate(r.Context(), sessionID, language, code)
	h.writeResponse(w, statusFor(err), resp)
}

func (h *Handler) decodeCode(w http.ResponseWriter, r *http.Request) (string, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer func() { _ = body.Close() }()

	var req evalRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if req.Code == nil {
		return "", fmt.Errorf("%w: missing field `code`", ErrInvalidBody)
	}
	return *req.Code, nil
}

func (h *Handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.evaluator.Languages())
}

// handleSessionLogs writes the session's log history as JSON lines.
func (h *Handler) handleSessionLogs(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session"]

	// records are buffered so a missing session can still get a 404
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	if err := h.evaluator.PlaySessionLogs(sessionID, handler); err != nil {
		if dispatch.Classify(err) == dispatch.OutcomeSessionNotFound {
			h.writeResponse(w, http.StatusNotFound,
				response.Failure(fmt.Sprintf("session `%s` not found", sessionID)))
			return
		}
		h.logger.Error("Failed to replay session logs", "session", sessionID, "error", err)
		h.writeResponse(w, http.StatusInternalServerError, response.FailureFromError(err))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("Failed to write session logs", "error", err)
	}
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, http.StatusNotFound, response.Failure(fmt.Sprintf("no route for %s", r.URL.Path)))
}

func (h *Handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, http.StatusMethodNotAllowed,
		response.Failure(fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path)))
}

// statusFor maps an evaluation error to an HTTP status. Failures that
// happened inside the interpreter or serializer are still 200: the request
// itself was valid and the body says what went wrong.
func statusFor(err error) int {
	switch dispatch.Classify(err) {
	case dispatch.OutcomeSuccess,
		dispatch.OutcomeEvaluationError,
		dispatch.OutcomeLimitExceeded,
		dispatch.OutcomeSerializationError:
		return http.StatusOK
	case dispatch.OutcomeSessionNotFound:
		return http.StatusNotFound
	case dispatch.OutcomeUnsupportedLanguage:
		return http.StatusBadRequest
	case dispatch.OutcomeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeResponse(w http.ResponseWriter, status int, resp response.Response) {
	body, err := response.Marshal(resp)
	if err != nil {
		h.logger.Error("Failed to encode response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.write(w, status, body)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.write(w, status, body)
}

func (h *Handler) write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("Failed to write response", "error", err)
	}
}
