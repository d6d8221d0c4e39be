// Package api provides HTTP API handlers for the Taalam instrument.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/taalam/internal/store"
)

// PresetHandler handles HTTP requests for preset resources.
type PresetHandler struct {
	store *store.Store
}

// NewPresetHandler creates a new PresetHandler with the given store.
func NewPresetHandler(s *store.Store) *PresetHandler {
	return &PresetHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PresetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/presets or /api/presets/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/presets")
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
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type knobPayload struct {
	KnobID   string  `json:"knob_id"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Param    string  `json:"param"`
	ParamMin float64 `json:"param_min"`
	ParamMax float64 `json:"param_max"`
	Value    float64 `json:"value"`
}

type padPayload struct {
	PadID  string  `json:"pad_id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Finger int     `json:"finger"`
	Sound  string  `json:"sound"`
}

type presetRequest struct {
	Name      string        `json:"name"`
	ScaleName string        `json:"scale_name"`
	Knobs     []knobPayload `json:"knobs"`
	Pads      []padPayload  `json:"pads"`
}

type presetResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	ScaleName string        `json:"scale_name"`
	Knobs     []knobPayload `json:"knobs"`
	Pads      []padPayload  `json:"pads"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

type listPresetsResponse struct {
	Presets []presetResponse `json:"presets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Preset to a presetResponse.
func toResponse(p *store.Preset) presetResponse {
	resp := presetResponse{
		ID:        p.ID,
		Name:      p.Name,
		ScaleName: p.ScaleName,
		Knobs:     make([]knobPayload, 0, len(p.Knobs)),
		Pads:      make([]padPayload, 0, len(p.Pads)),
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, k := range p.Knobs {
		resp.Knobs = append(resp.Knobs, knobPayload(k))
	}
	for _, pad := range p.Pads {
		resp.Pads = append(resp.Pads, padPayload(pad))
	}
	return resp
}

func fromRequest(req *presetRequest, p *store.Preset) {
	p.Name = req.Name
	p.ScaleName = req.ScaleName
	p.Knobs = p.Knobs[:0]
	p.Pads = p.Pads[:0]
	for _, k := range req.Knobs {
		p.Knobs = append(p.Knobs, store.PresetKnob(k))
	}
	for _, pad := range req.Pads {
		p.Pads = append(p.Pads, store.PresetPad(pad))
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/presets and returns all presets.
func (h *PresetHandler) list(w http.ResponseWriter, r *http.Request) {
	presets, err := h.store.Presets().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list presets")
		return
	}

	response := listPresetsResponse{
		Presets: make([]presetResponse, 0, len(presets)),
	}
	for _, p := range presets {
		response.Presets = append(response.Presets, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/presets/{id} and returns a single preset.
func (h *PresetHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	preset, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(preset))
}

// create handles POST /api/presets and creates a new preset.
func (h *PresetHandler) create(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.ScaleName == "" {
		req.ScaleName = "pentatonic"
	}

	preset := &store.Preset{ID: uuid.New().String()}
	fromRequest(&req, preset)

	if err := h.store.Presets().Create(preset); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create preset")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(preset))
}

// update handles PUT /api/presets/{id} and updates an existing preset.
func (h *PresetHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	preset, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return
	}

	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		req.Name = preset.Name
	}
	if req.ScaleName == "" {
		req.ScaleName = preset.ScaleName
	}
	fromRequest(&req, preset)

	if err := h.store.Presets().Update(preset); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update preset")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(preset))
}

// delete handles DELETE /api/presets/{id} and removes a preset.
func (h *PresetHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Presets().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete preset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
