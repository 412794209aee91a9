package handler

import (
	"fmt"
	"net/http"
	"time"

	"shopcheck/internal/service"
)

// ExportHandler handles report export endpoints
type ExportHandler struct {
	exportSvc *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportSvc *service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Download handles GET /v1/export/reports. Streams an XLSX workbook
// with every report flattened to one row.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	buf, err := h.exportSvc.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("reports_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
