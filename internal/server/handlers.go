package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oplens/oplens/internal/models"
	"github.com/oplens/oplens/internal/processing"
)

const (
	// Multipart parse threshold; larger uploads spill to temp files.
	maxUploadMemory = 32 << 20

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// Analyzer runs the full screenshot analysis flow. A nil report with a nil
// error means nothing recognizable was found.
type Analyzer interface {
	Analyze(ctx context.Context, images []processing.ImageInput, searchKeyword string) (*models.AnalysisReport, error)
}

// Exporter renders a report as a spreadsheet.
type Exporter interface {
	Export(report *models.AnalysisReport) (*bytes.Buffer, error)
}

// Handler carries the HTTP surface: analysis, export and health endpoints.
type Handler struct {
	pipeline  Analyzer
	exporter  Exporter
	maxImages int
}

func NewHandler(pipeline Analyzer, exporter Exporter, maxImages int) *Handler {
	return &Handler{
		pipeline:  pipeline,
		exporter:  exporter,
		maxImages: maxImages,
	}
}

// Routes wires every endpoint onto a fresh mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/export/excel", h.handleExport)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /{$}", h.handleRoot)
	return mux
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error(), "INVALID_FORM")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) > h.maxImages {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("at most %d screenshots can be uploaded", h.maxImages), "TOO_MANY_IMAGES")
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "upload at least one screenshot", "NO_IMAGES")
		return
	}

	for _, header := range files {
		contentType := header.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("file %q has unsupported type %q; upload PNG, JPG or WebP images", header.Filename, contentType),
				"UNSUPPORTED_IMAGE_TYPE")
			return
		}
	}

	images := make([]processing.ImageInput, 0, len(files))
	for _, header := range files {
		data, err := readUpload(header)
		if err != nil {
			slog.Error("[Server] Failed to read upload",
				slog.String("filename", header.Filename),
				slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to read uploaded file: "+err.Error(), "ANALYSIS_FAILED")
			return
		}
		images = append(images, processing.ImageInput{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	searchKeyword := r.FormValue("search_keyword")

	report, err := h.pipeline.Analyze(r.Context(), images, searchKeyword)
	if err != nil {
		slog.Error("[Server] Analysis failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "analysis failed: "+err.Error(), "ANALYSIS_FAILED")
		return
	}

	if report == nil {
		writeJSON(w, http.StatusOK, models.AnalyzeResponse{
			Success: true,
			Message: "No recognizable posts were found in the screenshots",
		})
		return
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		Success: true,
		Message: fmt.Sprintf("Analysis complete: %d screenshots processed, %d posts identified", len(images), report.TotalPosts),
		Data:    report,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var report models.AnalysisReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeError(w, http.StatusBadRequest, "invalid report payload: "+err.Error(), "INVALID_REPORT")
		return
	}

	buf, err := h.exporter.Export(&report)
	if err != nil {
		slog.Error("[Server] Excel export failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "excel export failed: "+err.Error(), "EXPORT_FAILED")
		return
	}

	filename := fmt.Sprintf("opinion_analysis_report_%s.xlsx", time.Now().Format("20060102_150405"))

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("[Server] Failed to stream workbook", slog.String("error", err.Error()))
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "opinion-analysis",
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":        "OpLens",
		"version":     "1.0.0",
		"ai_provider": "Doubao (Volcengine Ark)",
		"api":         "/api",
	})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("[Server] Failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, models.ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: code,
	})
}
