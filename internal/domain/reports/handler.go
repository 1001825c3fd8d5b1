package reports

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"medication-manager/internal/middleware"
	"medication-manager/internal/platform/web"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Use(middleware.RequireClaims)

		rr.Post("/", uploadReportHandler(svc))
		rr.Get("/", listReportsHandler(svc))
		rr.Get("/stats", reportStatsHandler(svc))

		rr.Get("/{reportID}", getReportHandler(svc))
		rr.Get("/{reportID}/file", downloadReportHandler(svc))
		rr.Delete("/{reportID}", deleteReportHandler(svc))
	})
}

// ReportResponse no incluye el contenido; se baja por /file.
type ReportResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        Type     `json:"type"`
	UploadDate  string   `json:"upload_date"`
	Size        string   `json:"size"`
	SizeBytes   int64    `json:"size_bytes"`
	Category    Category `json:"category"`
	ContentType string   `json:"content_type"`
	HasFile     bool     `json:"has_file"`
}

// uploadReportHandler godoc
// @Summary Subir reporte
// @Description multipart/form-data con file, category (blood-test|scan|prescription|other) y name opcional.
// @Tags reports
// @Accept mpfd
// @Produce json
// @Param file formData file true "Archivo"
// @Param category formData string false "Categoría"
// @Param name formData string false "Nombre (default: nombre del archivo)"
// @Success 201 {object} ReportResponse
// @Failure 400 {string} string "invalid input"
// @Failure 413 {string} string "file too large"
// @Router /reports [post]
func uploadReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+(1<<20))
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			name = hdr.Filename
		}

		rep, err := svc.Upload(r.Context(), UploadInput{
			Name:        name,
			Category:    Category(strings.TrimSpace(r.FormValue("category"))),
			ContentType: hdr.Header.Get("Content-Type"),
			Body:        file,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toResponse(rep))
	}
}

func listReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Report
			err   error
		)
		if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
			items, err = svc.ListByCategory(r.Context(), Category(c))
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]ReportResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toResponse(it))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func reportStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.CountByCategory(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, counts)
	}
}

func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := reportID(r)
		if !ok {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		rep, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(rep))
	}
}

// downloadReportHandler godoc
// @Summary Descargar archivo del reporte
// @Tags reports
// @Produce octet-stream
// @Param reportID path string true "ID del reporte"
// @Success 200 {file} file
// @Failure 404 {string} string "report not found / report has no file"
// @Router /reports/{reportID}/file [get]
func downloadReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := reportID(r)
		if !ok {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		rep, rc, err := svc.Open(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", rep.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", FileName(rep)))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	}
}

func deleteReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := reportID(r)
		if !ok {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func reportID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "reportID"))
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func toResponse(r Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		UploadDate:  r.UploadDate,
		Size:        r.Size,
		SizeBytes:   r.SizeBytes,
		Category:    r.Category,
		ContentType: r.ContentType,
		HasFile:     r.HasFile(),
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTooLarge):
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "report not found", http.StatusNotFound)
	case errors.Is(err, ErrNoFile):
		http.Error(w, "report has no file", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
