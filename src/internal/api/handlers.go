package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ifweave/ifweave/src/internal/expr"
	"github.com/ifweave/ifweave/src/internal/extension"
	"github.com/ifweave/ifweave/src/internal/service"
)

// Handler manages all API endpoints.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new API handler backed by the given service.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// DataResponse wraps successful responses.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// CheckHealth reports liveness.
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, map[string]string{"status": "ok"})
}

// GetRequirements reports the requirement gates.
func (h *Handler) GetRequirements(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, h.svc.Statuses())
}

// GetEvents reports the current event counters.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, h.svc.Counter().Snapshot())
}

// extensionInfo is the wire form of a registered extension.
type extensionInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Family  string `json:"family"`
	PIDFile string `json:"pid_file,omitempty"`
}

// GetExtensions lists the registered extensions.
func (h *Handler) GetExtensions(w http.ResponseWriter, r *http.Request) {
	infos := make([]extensionInfo, 0, h.svc.Registry().Len())
	for _, ex := range h.svc.Registry().All() {
		infos = append(infos, extensionInfo{
			Name:    ex.Name,
			Type:    ex.Type,
			Family:  ex.Families.String(),
			PIDFile: ex.PIDFile,
		})
	}
	writeJSONData(w, infos)
}

// runExtensionRequest is the body of a manual extension run.
type runExtensionRequest struct {
	Interface string              `json:"interface"`
	Values    map[string][]string `json:"values,omitempty"`
}

// RunExtension runs a single extension operation on demand.
func (h *Handler) RunExtension(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var op extension.Op
	switch chi.URLParam(r, "op") {
	case "start":
		op = extension.OpStart
	case "stop":
		op = extension.OpStop
	default:
		WriteInvalidRequest(w, "operation must be start or stop")
		return
	}

	var req runExtensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteInvalidRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Interface == "" {
		WriteInvalidRequest(w, "interface is required")
		return
	}

	doc := expr.NewDocument()
	for key, values := range req.Values {
		for _, v := range values {
			doc.Append(key, v)
		}
	}

	result, err := h.svc.RunExtension(name, op, req.Interface, doc)
	if err != nil {
		WriteNotFound(w, "extension "+name)
		return
	}
	if !result.OK {
		WriteError(w, http.StatusBadGateway, NewAPIError(ErrCodeExtensionFailed, result.Detail))
		return
	}
	writeJSONData(w, result)
}
