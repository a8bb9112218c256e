package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/homelabops/inventory/internal/api/common"
	"github.com/homelabops/inventory/internal/export"
	"github.com/homelabops/inventory/internal/metrics"
)

// ExportHandler triggers export runs over HTTP.
type ExportHandler struct {
	deps *common.Dependencies
}

func NewExportHandler(deps *common.Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// exportResponse is the JSON body returned for write-mode runs.
type exportResponse struct {
	Status       string              `json:"status"`
	Message      string              `json:"message"`
	Path         string              `json:"path,omitempty"`
	FilesCreated int                 `json:"files_created"`
	Records      int                 `json:"records"`
	Skipped      int                 `json:"skipped"`
	Diagnostics  []export.Diagnostic `json:"diagnostics,omitempty"`
}

// Prometheus handles GET /export/prometheus?mode=write|download.
// Write mode materializes the target files under the configured export
// root and reports the run; download mode streams the zip archive.
func (h *ExportHandler) Prometheus(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = export.ModeWrite
	}
	if mode != export.ModeWrite && mode != export.ModeDownload {
		common.SendError(w, r, http.StatusBadRequest, "INVALID_MODE", "mode must be write or download", nil)
		return
	}

	start := time.Now()
	report, archive, err := h.deps.Exporter.Run(r.Context(), mode)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	if report != nil {
		metrics.ObserveExportRun(mode, outcome, time.Since(start), report.Records)
	}

	if err != nil {
		var fsErr *export.FilesystemError
		if errors.As(err, &fsErr) {
			common.SendJSON(w, http.StatusInternalServerError, exportResponse{
				Status:       "failed",
				Message:      fsErr.Error(),
				Path:         h.deps.Exporter.Root(),
				FilesCreated: report.FilesWritten,
				Records:      report.Records,
				Skipped:      report.Skipped,
				Diagnostics:  report.Diagnostics,
			})
			return
		}
		common.SendError(w, r, http.StatusInternalServerError, "EXPORT_FAILED", err.Error(), nil)
		return
	}

	if mode == export.ModeDownload {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.ZipFileName+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
		w.WriteHeader(http.StatusOK)
		w.Write(archive)
		return
	}

	common.SendJSON(w, http.StatusOK, exportResponse{
		Status:       "success",
		Message:      "export completed",
		Path:         h.deps.Exporter.Root(),
		FilesCreated: report.FilesWritten,
		Records:      report.Records,
		Skipped:      report.Skipped,
		Diagnostics:  report.Diagnostics,
	})
}
