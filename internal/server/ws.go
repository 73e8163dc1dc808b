// Package server provides the HTTP server for the Glidetype decode service.
package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/glidetype/internal/app"
	"github.com/ayusman/glidetype/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// DecodeHandler runs incremental decodes over a WebSocket connection. The
// client opens one connection per gesture, streams point batches, and
// receives the current best-guess string after each batch.
type DecodeHandler struct {
	app *app.App
}

// NewDecodeHandler creates a new DecodeHandler backed by the given app.
func NewDecodeHandler(a *app.App) *DecodeHandler {
	return &DecodeHandler{app: a}
}

// decodeRequest is one client message: the first message must carry the
// layout and mode, every message appends points. In tap mode each point is
// paired with the typed code point in codes.
type decodeRequest struct {
	Layout string             `json:"layout,omitempty"`
	Mode   string             `json:"mode,omitempty"`
	Codes  string             `json:"codes,omitempty"`
	Points []store.TracePoint `json:"points"`
}

// decodeResponse is sent after every processed batch.
type decodeResponse struct {
	Result      string  `json:"result"`
	Score       float64 `json:"score"`
	SampledSize int     `json:"sampled_size"`
	Error       string  `json:"error,omitempty"`
}

// ServeHTTP upgrades the connection and runs the per-gesture decode loop.
func (h *DecodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	var stream *app.Stream
	for {
		var req decodeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		if stream == nil {
			mode := store.TraceModeGesture
			if req.Mode == string(store.TraceModeTap) {
				mode = store.TraceModeTap
			}
			layout := req.Layout
			if layout == "" {
				layout = "qwerty"
			}
			stream, err = h.app.NewStream(layout, mode)
			if err != nil {
				conn.WriteJSON(decodeResponse{Error: err.Error()})
				return
			}
		}

		res := stream.Feed([]rune(req.Codes), req.Points)
		if err := conn.WriteJSON(decodeResponse{
			Result:      res.Result,
			Score:       res.Score,
			SampledSize: res.SampledSize,
		}); err != nil {
			return
		}
	}
}
