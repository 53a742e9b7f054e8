package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zonetrack/apiserver/internal/services"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

type SummaryService interface {
	Summary(ctx context.Context) (types.SystemSummary, error)
}

type ReportService interface {
	ExportAssets(ctx context.Context, w io.Writer) error
	Archive(ctx context.Context) (string, error)
}

// ArchiveResponse names the stored report object.
type ArchiveResponse struct {
	Key string `json:"key"`
}

// ReportHandler serves the dashboard summary and asset reports.
type ReportHandler struct {
	summary SummaryService
	reports ReportService
	log     *zap.Logger
}

func NewReportHandler(summary SummaryService, reports ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{summary: summary, reports: reports, log: log}
}

// SummaryRouter registers GET /api/summary.
func SummaryRouter(r chi.Router, handler *ReportHandler) {
	r.Get("/", handler.Summary)
}

// ReportRouter registers the report routes.
func ReportRouter(r chi.Router, handler *ReportHandler) {
	r.Get("/assets", handler.ExportAssets)
	r.Post("/assets", handler.ArchiveAssets)
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summary.Summary(r.Context())
	if err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ExportAssets renders the workbook fully before writing any header so a
// failure still yields a JSON error.
func (h *ReportHandler) ExportAssets(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.reports.ExportAssets(r.Context(), &buf); err != nil {
		writeInternalError(w, r, h.log, err)
		return
	}

	filename := fmt.Sprintf("assets-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", services.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *ReportHandler) ArchiveAssets(w http.ResponseWriter, r *http.Request) {
	key, err := h.reports.Archive(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrStorageDisabled) {
			writeError(w, http.StatusServiceUnavailable, "report storage is not configured")
			return
		}
		writeInternalError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, ArchiveResponse{Key: key})
}
