// Package api provides HTTP API handlers for the Glidetype decode service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/glidetype/internal/app"
	"github.com/ayusman/glidetype/internal/store"
)

// TraceHandler handles HTTP requests for trace resources.
type TraceHandler struct {
	app *app.App
}

// NewTraceHandler creates a new TraceHandler backed by the given app.
func NewTraceHandler(a *app.App) *TraceHandler {
	return &TraceHandler{app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods. Expected paths: /api/traces or /api/traces/{id}.
func (h *TraceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/traces")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createTraceRequest struct {
	Layout string             `json:"layout"`
	Mode   string             `json:"mode"`
	Codes  string             `json:"codes,omitempty"`
	Points []store.TracePoint `json:"points"`
}

type traceResponse struct {
	ID         string `json:"id"`
	Layout     string `json:"layout"`
	Mode       string `json:"mode"`
	PointCount int    `json:"point_count"`
	CreatedAt  string `json:"created_at"`
}

type decodeResponse struct {
	Trace       traceResponse `json:"trace"`
	Result      string        `json:"result"`
	Score       float64       `json:"score"`
	SampledSize int           `json:"sampled_size"`
}

type listTracesResponse struct {
	Traces []traceResponse `json:"traces"`
}

type getTraceResponse struct {
	Trace   traceResponse      `json:"trace"`
	Points  []store.TracePoint `json:"points"`
	Results []resultResponse   `json:"results"`
}

type resultResponse struct {
	Result    string  `json:"result"`
	Score     float64 `json:"score"`
	CreatedAt string  `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func toResponse(t *store.Trace) traceResponse {
	return traceResponse{
		ID:         t.ID,
		Layout:     t.Layout,
		Mode:       string(t.Mode),
		PointCount: t.PointCount,
		CreatedAt:  t.CreatedAt.Format(timeFormat),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// create handles POST /api/traces: record the trace, decode it, and store
// the decode result alongside.
func (h *TraceHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTraceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Points) == 0 {
		writeError(w, http.StatusBadRequest, "At least one point is required")
		return
	}

	mode := store.TraceMode(req.Mode)
	if mode != store.TraceModeGesture && mode != store.TraceModeTap {
		writeError(w, http.StatusBadRequest, "Mode must be 'gesture' or 'tap'")
		return
	}
	layout := req.Layout
	if layout == "" {
		layout = "qwerty"
	}

	result, err := h.app.DecodeTrace(layout, mode, []rune(req.Codes), req.Points)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trace := &store.Trace{
		ID:     uuid.NewString(),
		Layout: layout,
		Mode:   mode,
	}
	if st := h.app.Store(); st != nil {
		if err := st.Traces().Create(trace, req.Points); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save trace")
			return
		}
		decode := &store.Decode{
			TraceID: trace.ID,
			Result:  result.Result,
			Score:   result.Score,
		}
		if err := st.Decodes().Create(decode); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save decode result")
			return
		}
	}

	writeJSON(w, http.StatusCreated, decodeResponse{
		Trace:       toResponse(trace),
		Result:      result.Result,
		Score:       result.Score,
		SampledSize: result.SampledSize,
	})
}

// list handles GET /api/traces.
func (h *TraceHandler) list(w http.ResponseWriter, r *http.Request) {
	st := h.app.Store()
	if st == nil {
		writeJSON(w, http.StatusOK, listTracesResponse{Traces: []traceResponse{}})
		return
	}

	traces, err := st.Traces().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list traces")
		return
	}

	response := listTracesResponse{Traces: make([]traceResponse, 0, len(traces))}
	for i := range traces {
		response.Traces = append(response.Traces, toResponse(&traces[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/traces/{id}.
func (h *TraceHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	st := h.app.Store()
	if st == nil {
		writeError(w, http.StatusNotFound, "Trace not found")
		return
	}

	trace, err := st.Traces().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Trace not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get trace")
		return
	}

	points, err := st.Traces().Points(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get trace points")
		return
	}

	decodes, err := st.Decodes().GetByTraceID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get decode results")
		return
	}

	response := getTraceResponse{
		Trace:   toResponse(trace),
		Points:  points,
		Results: make([]resultResponse, 0, len(decodes)),
	}
	for _, d := range decodes {
		response.Results = append(response.Results, resultResponse{
			Result:    d.Result,
			Score:     d.Score,
			CreatedAt: d.CreatedAt.Format(timeFormat),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/traces/{id}.
func (h *TraceHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	st := h.app.Store()
	if st == nil {
		writeError(w, http.StatusNotFound, "Trace not found")
		return
	}

	if err := st.Traces().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Trace not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete trace")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
