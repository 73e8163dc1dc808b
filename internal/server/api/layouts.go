package api

import (
	"net/http"

	"github.com/ayusman/glidetype/internal/app"
)

// LayoutHandler handles HTTP requests for the layout registry.
type LayoutHandler struct {
	app *app.App
}

// NewLayoutHandler creates a new LayoutHandler backed by the given app.
func NewLayoutHandler(a *app.App) *LayoutHandler {
	return &LayoutHandler{app: a}
}

type layoutResponse struct {
	Name     string `json:"name"`
	KeyCount int    `json:"key_count"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type listLayoutsResponse struct {
	Layouts []layoutResponse `json:"layouts"`
}

// ServeHTTP handles GET /api/layouts.
func (h *LayoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := listLayoutsResponse{Layouts: []layoutResponse{}}
	for _, name := range h.app.LayoutNames() {
		layout, err := h.app.Layout(name)
		if err != nil {
			continue
		}
		response.Layouts = append(response.Layouts, layoutResponse{
			Name:     layout.Name(),
			KeyCount: layout.KeyCount(),
			Width:    layout.KeyboardWidth(),
			Height:   layout.KeyboardHeight(),
		})
	}
	writeJSON(w, http.StatusOK, response)
}
