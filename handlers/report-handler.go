package handlers

import (
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/sudip-bhr/Task-Management-System-backend/logging"
	"github.com/sudip-bhr/Task-Management-System-backend/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportTasksReport streams the task snapshot as a downloadable workbook.
// Admin only.
func (h *ReportHandler) ExportTasksReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportTasksReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	streamWorkbook(w, file, "tasks_report.xlsx")
}

// ExportUsersReport streams the per-user task counts as a downloadable
// workbook. Admin only.
func (h *ReportHandler) ExportUsersReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportUsersReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	streamWorkbook(w, file, "users_report.xlsx")
}

func streamWorkbook(w http.ResponseWriter, file *excelize.File, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := file.Write(w); err != nil {
		// Headers are already sent; nothing left to answer with.
		logging.Logger.Errorf("failed to stream %s: %v", filename, err)
	}
}
