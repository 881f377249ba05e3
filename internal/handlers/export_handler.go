package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/services"
)

const exportFilename = "bengali_text.pdf"

type ExportHandler struct {
	exporter  *services.PDFExporter
	analytics *services.Analytics
	logger    *zap.Logger
}

func NewExportHandler(exporter *services.PDFExporter, analytics *services.Analytics, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, analytics: analytics, logger: logger}
}

func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"text": "Text is required"}))
		return
	}

	doc, err := h.exporter.Render(req.Text, strings.TrimSpace(req.Title), strings.TrimSpace(req.Caption), req.Font)
	if err != nil {
		writeError(w, h.logger, err, "Failed to generate PDF")
		return
	}

	h.analytics.RecordExport(doc.Font)
	h.logger.Debug("pdf exported", zap.String("font", doc.Font), zap.Int("pages", doc.Pages), zap.Int("bytes", len(doc.Data)))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}
