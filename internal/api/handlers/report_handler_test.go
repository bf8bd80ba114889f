package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"report-service/internal/api/responses"
	"report-service/internal/core/reports"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	responses.InitLogger()

	handler := NewReportHandler(reports.NewService())
	router := gin.New()
	router.POST("/api/v1/reports/deposit-expiry", handler.HandleDepositExpiry)
	return router
}

func depositWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Deposit Purchase Clinic Code", "User ID", "Omnicare Id", "Name", "Phone Number", "Treatment Display Name", "Deposit Expiration Time", "Remaining Quantity"},
		{"JKT01", "u-100", "om-1", "Siti", "0812000111", "Facial Glow", "20/02/2024", 2},
		{"JKT01", "u-200", "om-2", "Budi", "0812000222", "Laser", "20/02/2024", 0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("reportFile", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHandleDepositExpiry(t *testing.T) {
	router := setupRouter()
	body, contentType := multipartUpload(t, "deposit.xlsx", depositWorkbook(t), map[string]string{
		"windowStart": "15/01/2024",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/deposit-expiry", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			WindowEnd    string `json:"window_end"`
			TotalRecords int    `json:"total_records"`
			Records      []struct {
				UserID string `json:"user_id"`
			} `json:"records"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if envelope.Status != "success" {
		t.Errorf("status = %q", envelope.Status)
	}
	if !strings.HasPrefix(envelope.Data.WindowEnd, "2024-03-15") {
		t.Errorf("window end = %q, expected two calendar months after the start", envelope.Data.WindowEnd)
	}
	// the zero-remaining-quantity row is dropped during normalization
	if envelope.Data.TotalRecords != 1 || len(envelope.Data.Records) != 1 {
		t.Fatalf("records = %+v", envelope.Data)
	}
	if envelope.Data.Records[0].UserID != "u-100" {
		t.Errorf("record user id = %q", envelope.Data.Records[0].UserID)
	}
}

func TestHandleDepositExpiryRejectsUnsupportedExtension(t *testing.T) {
	router := setupRouter()
	body, contentType := multipartUpload(t, "deposit.csv", []byte("a,b"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/deposit-expiry", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func TestHandleDepositExpiryRejectsInvalidWindowStart(t *testing.T) {
	router := setupRouter()
	body, contentType := multipartUpload(t, "deposit.xlsx", depositWorkbook(t), map[string]string{
		"windowStart": "2024-01-15",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/deposit-expiry", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}
