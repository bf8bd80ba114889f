// internal/api/handlers/report_handler.go
package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"report-service/internal/api/responses"
	"report-service/internal/core/reports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler handles the clinic report upload endpoints.
type ReportHandler struct {
	service reports.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service reports.Service) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// openReportFile validates and opens the uploaded workbook from the
// "reportFile" form field. On failure it writes the error response itself.
func openReportFile(c *gin.Context) (multipart.File, bool) {
	fileHeader, err := c.FormFile("reportFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Report file (.xls, .xlsx) not found or invalid")
		return nil, false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xls" && ext != ".xlsx" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Unsupported report file extension: %s", ext))
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Could not open the report file")
		return nil, false
	}
	return file, true
}

// HandleDepositExpiry handles deposit report uploads. The optional
// "windowStart" form field (DD/MM/YYYY) defaults to today.
func (h *ReportHandler) HandleDepositExpiry(c *gin.Context) {
	file, ok := openReportFile(c)
	if !ok {
		return
	}
	defer file.Close()

	windowStart := time.Now()
	if raw := c.PostForm("windowStart"); raw != "" {
		parsed, err := time.Parse("02/01/2006", raw)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Invalid windowStart %q, expected DD/MM/YYYY", raw))
			return
		}
		windowStart = parsed
	}

	report, err := h.service.ProcessDepositReport(file, windowStart)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Failed to process the deposit report", err.Error())
		return
	}

	responses.Logger().Info("deposit expiry report processed",
		zap.Int("rows_read", report.RowsRead),
		zap.Int("retained", report.TotalRecords),
		zap.Int("in_window", len(report.Records)),
	)
	responses.Success(c, report, "Deposit expiry report processed")
}

// HandleRevenue handles revenue report uploads.
func (h *ReportHandler) HandleRevenue(c *gin.Context) {
	file, ok := openReportFile(c)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.service.ProcessRevenueReport(file)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Failed to process the revenue report", err.Error())
		return
	}

	fields := []zap.Field{
		zap.Int("rows_read", report.RowsRead),
		zap.Int("clinics", len(report.Clinics)),
	}
	if report.Checksum != nil {
		fields = append(fields, zap.String("checksum", string(report.Checksum.Status)))
	}
	responses.Logger().Info("revenue report processed", fields...)
	responses.Success(c, report, "Revenue report processed")
}

// HandleDepositPurchase handles deposit-purchase report uploads.
func (h *ReportHandler) HandleDepositPurchase(c *gin.Context) {
	file, ok := openReportFile(c)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.service.ProcessDepositPurchaseReport(file)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Failed to process the deposit-purchase report", err.Error())
		return
	}

	responses.Logger().Info("deposit-purchase report processed",
		zap.Int("rows_read", report.RowsRead),
		zap.Int("clinics", len(report.Clinics)),
	)
	responses.Success(c, report, "Deposit-purchase report processed")
}

// HandleCashIn handles cash-in report uploads.
func (h *ReportHandler) HandleCashIn(c *gin.Context) {
	file, ok := openReportFile(c)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.service.ProcessCashInReport(file)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Failed to process the cash-in report", err.Error())
		return
	}

	responses.Logger().Info("cash-in report processed",
		zap.Int("rows_read", report.RowsRead),
		zap.Int("clinics", len(report.Clinics)),
	)
	responses.Success(c, report, "Cash-in report processed")
}
