package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/taalam/internal/store"
)

// ScaleHandler handles HTTP requests for scale resources.
type ScaleHandler struct {
	store *store.Store
}

// NewScaleHandler creates a new ScaleHandler with the given store.
func NewScaleHandler(s *store.Store) *ScaleHandler {
	return &ScaleHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ScaleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/scales or /api/scales/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/scales")
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

	if r.Method == http.MethodDelete {
		h.delete(w, r, path)
		return
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

type scaleRequest struct {
	Name      string  `json:"name"`
	RootHz    float64 `json:"root_hz"`
	Intervals []int   `json:"intervals"`
}

type scaleResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	RootHz    float64 `json:"root_hz"`
	Intervals []int   `json:"intervals"`
}

type listScalesResponse struct {
	Scales []scaleResponse `json:"scales"`
}

func scaleToResponse(sc *store.Scale) scaleResponse {
	return scaleResponse{
		ID:        sc.ID,
		Name:      sc.Name,
		RootHz:    sc.RootHz,
		Intervals: sc.Intervals,
	}
}

// list handles GET /api/scales and returns all scales.
func (h *ScaleHandler) list(w http.ResponseWriter, r *http.Request) {
	scales, err := h.store.Scales().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scales")
		return
	}

	response := listScalesResponse{
		Scales: make([]scaleResponse, 0, len(scales)),
	}
	for _, sc := range scales {
		response.Scales = append(response.Scales, scaleToResponse(sc))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/scales and creates a new scale.
func (h *ScaleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if len(req.Intervals) == 0 {
		writeError(w, http.StatusBadRequest, "At least one interval is required")
		return
	}
	for _, v := range req.Intervals {
		if v < 0 || v > 11 {
			writeError(w, http.StatusBadRequest, "Intervals must be semitones in [0, 11]")
			return
		}
	}
	if req.RootHz == 0 {
		req.RootHz = 220
	}

	scale := &store.Scale{
		ID:        uuid.New().String(),
		Name:      req.Name,
		RootHz:    req.RootHz,
		Intervals: req.Intervals,
	}

	if err := h.store.Scales().Create(scale); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create scale")
		return
	}

	writeJSON(w, http.StatusCreated, scaleToResponse(scale))
}

// delete handles DELETE /api/scales/{id} and removes a scale.
func (h *ScaleHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Scales().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scale not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete scale")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
