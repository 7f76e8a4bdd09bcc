package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/spinescan/spinescan/internal/pipeline"
)

const formatText = "text"

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ScanResponse wraps a successful scan.
type ScanResponse struct {
	Success bool                  `json:"success"`
	RunID   string                `json:"run_id,omitempty"`
	Result  *pipeline.SpineResult `json:"result"`
}

// RunsResponse lists recorded runs.
type RunsResponse struct {
	Runs  any `json:"runs"`
	Count int `json:"count"`
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding health response", "error", err)
	}
}

// scanHandler processes a single uploaded spine image.
func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	if s.pipeline == nil {
		s.writeErrorResponse(w, "Scan pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	res, err := s.pipeline.ProcessSpine(r.Context(), img)
	scanDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		scanRequestsTotal.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Scan failed: %v", err), http.StatusInternalServerError)
		return
	}
	scanRequestsTotal.WithLabelValues("ok").Inc()
	if best := res.Best(); best != nil {
		scanRegionsDetected.Observe(float64(len(best.Regions)))
	}

	runID := s.recordRun(header.Filename, res)

	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	if format == formatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if res.Title != "" {
			fmt.Fprintln(w, res.Title)
		}
		return
	}

	if format == "overlay" || r.FormValue("overlay") == "1" {
		s.handleOverlayOutput(w, img, res)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	obj := ScanResponse{Success: true, RunID: runID, Result: res}
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		slog.Error("encoding scan response", "error", err)
	}
}

// handleOverlayOutput renders the winning variant's layout over the
// input image as a PNG.
func (s *Server) handleOverlayOutput(w http.ResponseWriter, img image.Image, res *pipeline.SpineResult) {
	if !s.overlayEnabled {
		http.Error(w, "overlay output disabled", http.StatusForbidden)
		return
	}

	best := res.Best()
	if best == nil {
		http.Error(w, "no text found, nothing to overlay", http.StatusUnprocessableEntity)
		return
	}

	ov := pipeline.VisualizeLayout(img, best.Layout, pipeline.DefaultVisualizeOptions())
	w.Header().Set("Content-Type", "image/png")
	_ = png.Encode(w, ov)
}

// recordRun persists a single-spine scan as a run when a store is
// configured. Tracking failures are logged, never surfaced to clients.
func (s *Server) recordRun(filename string, res *pipeline.SpineResult) string {
	if s.store == nil {
		return ""
	}

	start := time.Now()
	runID, err := s.store.BeginRun(start)
	if err != nil {
		slog.Warn("run tracking failed", "error", err)
		return ""
	}

	detID, err := s.store.LogDetection(runID)
	if err == nil {
		for _, v := range res.Variants {
			vid, verr := s.store.LogVariant(detID, filename, v.BestTitle)
			if verr != nil {
				slog.Warn("run tracking failed", "error", verr)
				continue
			}
			if res.Book != nil && res.Best() != nil && v.Name == res.Best().Name {
				if _, lerr := s.store.LogLookup(vid, res.Source, res.Book); lerr != nil {
					slog.Warn("run tracking failed", "error", lerr)
				}
			}
		}
	} else {
		slog.Warn("run tracking failed", "error", err)
	}

	if err := s.store.FinishRun(runID, time.Now(), 1); err != nil {
		slog.Warn("run tracking failed", "error", err)
	}
	return runID
}

// runsHandler lists recorded runs, newest first.
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		s.writeErrorResponse(w, "Run tracking not configured", http.StatusNotFound)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeErrorResponse(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := s.store.Runs(limit)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Listing runs failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(RunsResponse{Runs: runs, Count: len(runs)}); err != nil {
		slog.Error("encoding runs response", "error", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message}); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}
