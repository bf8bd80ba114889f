// package domain/models.go
package domain

import "time"

// ReportType identifies which upload pipeline produced a result.
type ReportType string

// Constants for report types.
const (
	TypeDepositExpiry   ReportType = "DEPOSIT_EXPIRY"
	TypeRevenue         ReportType = "REVENUE"
	TypeDepositPurchase ReportType = "DEPOSIT_PURCHASE"
	TypeCashIn          ReportType = "CASH_IN"
)

// ChecksumStatus is the outcome of the revenue cross-validation.
type ChecksumStatus string

// A checksum mismatch signals a data-quality problem in the uploaded export,
// not a pipeline failure, so it is carried as data rather than an error.
const (
	ChecksumPass ChecksumStatus = "PASS"
	ChecksumFail ChecksumStatus = "FAIL"
)

// Unknown is the sentinel grouping label for blank clinic codes and blank
// payment methods.
const Unknown = "Unknown"

// --- Deposit expiry ---

// DepositRecord is one prepaid treatment credit retained from the deposit
// report. Every retained record has a non-empty UserID and a valid
// ExpirationDate; rows missing either are dropped during normalization.
type DepositRecord struct {
	ClinicCode     string    `json:"clinic_code"`
	UserID         string    `json:"user_id"`
	OmnicareID     string    `json:"omnicare_id"`
	UserName       string    `json:"user_name"`
	PhoneNumber    string    `json:"phone_number"`
	TreatmentName  string    `json:"treatment_name"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// DepositExpiryReport lists the retained deposits expiring inside the
// caller-chosen window, ordered by clinic code then expiration date.
type DepositExpiryReport struct {
	WindowStart  time.Time       `json:"window_start"`
	WindowEnd    time.Time       `json:"window_end"`
	Records      []DepositRecord `json:"records"`
	TotalRecords int             `json:"total_records"`
	RowsRead     int             `json:"rows_read"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// --- Revenue ---

// RevenueClinicSummary accumulates the revenue report's subtotal fields for a
// single clinic. Total is the running sum of the final-price column and is
// independent of the category subtotals; the subtotal combination is only used
// as a cross-validation checksum.
type RevenueClinicSummary struct {
	ClinicCode            string  `json:"clinic_code"`
	TreatmentRetailPrice  float64 `json:"treatment_retail_price"`
	TreatmentSellingPrice float64 `json:"treatment_selling_price"`
	TreatmentDiscount     float64 `json:"treatment_discount"`
	ProductRetailPrice    float64 `json:"product_retail_price"`
	ProductSellingPrice   float64 `json:"product_selling_price"`
	ProductDiscount       float64 `json:"product_discount"`
	Total                 float64 `json:"total"`
}

// RevenueTotals is the field-wise sum across all clinics.
type RevenueTotals struct {
	TreatmentRetailPrice  float64 `json:"treatment_retail_price"`
	TreatmentSellingPrice float64 `json:"treatment_selling_price"`
	TreatmentDiscount     float64 `json:"treatment_discount"`
	ProductRetailPrice    float64 `json:"product_retail_price"`
	ProductSellingPrice   float64 `json:"product_selling_price"`
	ProductDiscount       float64 `json:"product_discount"`
	Total                 float64 `json:"total"`
	TotalDisplay          string  `json:"total_display"`
}

// RevenueChecksum cross-validates the accumulated grand total against a total
// derived from the selling and discount subtotals.
type RevenueChecksum struct {
	DerivedTotal     float64        `json:"derived_total"`
	AccumulatedTotal float64        `json:"accumulated_total"`
	Status           ChecksumStatus `json:"status"`
}

// RevenueReport is the result of one revenue upload. Totals and Checksum are
// nil when the upload contained no rows, so the caller can distinguish "no
// data" from "all amounts are zero".
type RevenueReport struct {
	Clinics  []RevenueClinicSummary `json:"clinics"`
	Totals   *RevenueTotals         `json:"totals,omitempty"`
	Checksum *RevenueChecksum       `json:"checksum,omitempty"`
	RowsRead int                    `json:"rows_read"`
	Warnings []string               `json:"warnings,omitempty"`
}

// --- Deposit purchase ---

// DepositPurchaseClinicSummary accumulates the deposit-purchase report's
// numeric fields for a single clinic. No categorical split applies.
type DepositPurchaseClinicSummary struct {
	ClinicCode   string  `json:"clinic_code"`
	RetailPrice  float64 `json:"retail_price"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// DepositPurchaseTotals is the field-wise sum across all clinics.
type DepositPurchaseTotals struct {
	RetailPrice  float64 `json:"retail_price"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
}

// DepositPurchaseReport is the result of one deposit-purchase upload.
type DepositPurchaseReport struct {
	Clinics  []DepositPurchaseClinicSummary `json:"clinics"`
	Totals   *DepositPurchaseTotals         `json:"totals,omitempty"`
	RowsRead int                            `json:"rows_read"`
	Warnings []string                       `json:"warnings,omitempty"`
}

// --- Cash in ---

// CashInClinicSummary holds per-payment-method amounts for a single clinic.
// Deposit, Voucher and NonDepositVoucher are derived from Methods and Total
// after accumulation completes; NonDepositVoucher is always
// Total - Deposit - Voucher, never accumulated incrementally.
type CashInClinicSummary struct {
	ClinicCode        string             `json:"clinic_code"`
	Methods           map[string]float64 `json:"methods"`
	Deposit           float64            `json:"deposit"`
	Voucher           float64            `json:"voucher"`
	NonDepositVoucher float64            `json:"non_deposit_voucher"`
	Total             float64            `json:"total"`
}

// CashInTotals is the field-wise sum across all clinics, including the merged
// per-method amounts.
type CashInTotals struct {
	Methods           map[string]float64 `json:"methods"`
	Deposit           float64            `json:"deposit"`
	Voucher           float64            `json:"voucher"`
	NonDepositVoucher float64            `json:"non_deposit_voucher"`
	Total             float64            `json:"total"`
	TotalDisplay      string             `json:"total_display"`
}

// CashInReport is the result of one cash-in upload.
type CashInReport struct {
	Clinics  []CashInClinicSummary `json:"clinics"`
	Totals   *CashInTotals         `json:"totals,omitempty"`
	RowsRead int                   `json:"rows_read"`
	Warnings []string              `json:"warnings,omitempty"`
}
