package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"

	"davitframe/internal/codec"
	"davitframe/internal/domain"
	"davitframe/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// FormatInfo describes one downloadable export
type FormatInfo struct {
	Format    string `json:"format"`
	Extension string `json:"extension"`
	Path      string `json:"path"`
}

// CutListResponse is the fabrication view of the current frame
type CutListResponse struct {
	Items []domain.CutItem  `json:"items"`
	Notes []string          `json:"notes"`
	Parts domain.PartCounts `json:"parts"`
}

// PreviewHandler serves the current frame over HTTP. The frame is replaced
// wholesale by SetSpec; requests in flight keep the assembly they started with.
type PreviewHandler struct {
	gen *service.Generator

	mu    sync.RWMutex
	frame *domain.FrameAssembly
}

// NewPreviewHandler builds spec and serves it
func NewPreviewHandler(gen *service.Generator, spec domain.FrameSpec) (*PreviewHandler, error) {
	h := &PreviewHandler{gen: gen}
	if err := h.SetSpec(spec); err != nil {
		return nil, err
	}
	return h, nil
}

// SetSpec rebuilds the served frame. On error the previous frame stays live.
func (h *PreviewHandler) SetSpec(spec domain.FrameSpec) error {
	frame, err := h.gen.Build(spec)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.frame = frame
	h.mu.Unlock()
	return nil
}

// Frame returns the assembly currently being served
func (h *PreviewHandler) Frame() *domain.FrameAssembly {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame
}

// Register adds the preview routes to mux
func (h *PreviewHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/spec", h.GetSpec)
	mux.HandleFunc("GET /api/frame", h.GetFrame)
	mux.HandleFunc("GET /api/cutlist", h.GetCutList)
	mux.HandleFunc("GET /api/formats", h.ListFormats)
	mux.HandleFunc("GET /api/export/{format}", h.Export)
	mux.HandleFunc("GET /render.png", h.RenderPNG)
	mux.HandleFunc("GET /render.gif", h.RenderGIF)
}

// GetSpec returns the specification of the current frame
func (h *PreviewHandler) GetSpec(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.Frame().Spec, http.StatusOK)
}

// GetFrame returns the full assembly
func (h *PreviewHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.Frame(), http.StatusOK)
}

// GetCutList returns the cut list with fabrication notes
func (h *PreviewHandler) GetCutList(w http.ResponseWriter, r *http.Request) {
	frame := h.Frame()
	h.writeJSON(w, CutListResponse{
		Items: domain.CutList(frame),
		Notes: domain.FabricationNotes(frame.Spec),
		Parts: frame.Counts(),
	}, http.StatusOK)
}

// ListFormats lists every export format and its download path
func (h *PreviewHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	formats := make([]FormatInfo, 0, len(codec.Formats()))
	for _, name := range codec.Formats() {
		exporter, err := codec.Lookup(name)
		if err != nil {
			continue
		}
		formats = append(formats, FormatInfo{
			Format:    exporter.Format(),
			Extension: exporter.Extension(),
			Path:      "/api/export/" + exporter.Format(),
		})
	}
	h.writeJSON(w, formats, http.StatusOK)
}

// Export downloads the current frame in the requested format
func (h *PreviewHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	exporter, err := codec.Lookup(format)
	if err != nil {
		h.writeError(w, "Unknown format", err.Error(), http.StatusNotFound)
		return
	}

	// Buffer the export so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := exporter.Export(h.Frame(), &buf); err != nil {
		log.Printf("Failed to export %s: %v", exporter.Format(), err)
		h.writeError(w, "Export failed", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(exporter.Format()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=davit_frame%s", exporter.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write %s export: %v", exporter.Format(), err)
	}
}

// RenderPNG renders a still. The camera defaults to the renderer's options
// and may be overridden with ?azim= and ?elev= in degrees.
func (h *PreviewHandler) RenderPNG(w http.ResponseWriter, r *http.Request) {
	opts := h.gen.Renderer().Options()

	azimuth, err := floatParam(r, "azim", opts.Azimuth)
	if err != nil {
		h.writeError(w, "Invalid azimuth", err.Error(), http.StatusBadRequest)
		return
	}
	elevation, err := floatParam(r, "elev", opts.Elevation)
	if err != nil {
		h.writeError(w, "Invalid elevation", err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.gen.RenderPNG(h.Frame(), azimuth, elevation, &buf); err != nil {
		log.Printf("Failed to render still: %v", err)
		h.writeError(w, "Render failed", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write still: %v", err)
	}
}

// RenderGIF renders the rotating animation. Rendering stops if the client
// goes away.
func (h *PreviewHandler) RenderGIF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.gen.RenderGIF(r.Context(), h.Frame(), &buf); err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		log.Printf("Failed to render animation: %v", err)
		h.writeError(w, "Render failed", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write animation: %v", err)
	}
}

// Helper methods

func (h *PreviewHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *PreviewHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return v, nil
}

func contentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "yaml":
		return "application/x-yaml"
	case "dxf":
		return "image/vnd.dxf"
	case "step":
		return "model/step"
	case "obj":
		return "model/obj"
	default:
		return "application/octet-stream"
	}
}
