package reports

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"report-service/internal/core/spreadsheet"
	"report-service/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// EPSILON is the absolute tolerance for the revenue cross-validation; it
// absorbs floating-point summation drift without hiding real mismatches.
const EPSILON = 0.01

// Service defines the interface for the clinic report pipelines. Each call
// processes one uploaded workbook as a complete batch and returns a fresh
// result; runs share no state.
type Service interface {
	ProcessDepositReport(file io.Reader, windowStart time.Time) (*domain.DepositExpiryReport, error)
	ProcessRevenueReport(file io.Reader) (*domain.RevenueReport, error)
	ProcessDepositPurchaseReport(file io.Reader) (*domain.DepositPurchaseReport, error)
	ProcessCashInReport(file io.Reader) (*domain.CashInReport, error)
}

type service struct{}

// NewService creates a new report service.
func NewService() Service {
	return &service{}
}

// ---------------------- common utilities ----------------------

// clinicKey resolves a row's grouping key, falling back to the Unknown
// sentinel for blank clinic codes. The first casing/spelling encountered for
// a clinic becomes the canonical map key; inconsistent inputs are accepted
// as-is rather than normalized.
func clinicKey(c spreadsheet.Cell) string {
	code := strings.TrimSpace(StringFrom(c))
	if code == "" {
		return domain.Unknown
	}
	return code
}

// newClinicCollator orders clinic codes the way the id-ID front office sorts
// them. Collators are not safe for concurrent use, so each sort gets its own.
func newClinicCollator() *collate.Collator {
	return collate.New(language.Indonesian)
}

// foldRows groups rows by clinic code into summary records, lazily creating a
// zero summary the first time a clinic appears. Keys are never deleted during
// a run; the whole map is discarded when the next upload replaces it.
func foldRows[S any](rows []spreadsheet.Row, clinicCol string, newSummary func(code string) *S, add func(*S, spreadsheet.Row)) map[string]*S {
	clinics := make(map[string]*S)
	for _, row := range rows {
		code := clinicKey(row[clinicCol])
		summary, ok := clinics[code]
		if !ok {
			summary = newSummary(code)
			clinics[code] = summary
		}
		add(summary, row)
	}
	return clinics
}

// sortedClinicCodes materializes the map keys in collated order; the same
// ordering rule applies to all three aggregator pipelines.
func sortedClinicCodes[S any](clinics map[string]*S) []string {
	codes := make([]string, 0, len(clinics))
	for code := range clinics {
		codes = append(codes, code)
	}
	cl := newClinicCollator()
	sort.SliceStable(codes, func(i, j int) bool {
		return cl.CompareString(codes[i], codes[j]) < 0
	})
	return codes
}

// atMidnight normalizes a caller-supplied date to UTC midnight. ParseDate
// yields UTC calendar dates, so window bounds must live in the same location
// or the instant comparison shifts the inclusive boundaries.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ---------------------- deposit expiry pipeline ----------------------

// ProcessDepositReport normalizes the deposit report and restricts it to the
// two-calendar-month window starting at windowStart.
func (svc *service) ProcessDepositReport(file io.Reader, windowStart time.Time) (*domain.DepositExpiryReport, error) {
	sheet, err := spreadsheet.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode deposit report: %w", err)
	}

	records := normalizeDepositRows(sheet.Rows)

	start := atMidnight(windowStart)
	return &domain.DepositExpiryReport{
		WindowStart:  start,
		WindowEnd:    start.AddDate(0, 2, 0),
		Records:      FilterExpiring(records, start),
		TotalRecords: len(records),
		RowsRead:     len(sheet.Rows),
		Warnings:     headerWarnings(sheet, depositColumns(sheet)),
	}, nil
}

func normalizeDepositRows(rows []spreadsheet.Row) []domain.DepositRecord {
	var records []domain.DepositRecord
	for _, row := range rows {
		if record, ok := normalizeDepositRow(row); ok {
			records = append(records, record)
		}
	}
	return records
}

// normalizeDepositRow maps one raw row to a candidate record. Rows with no
// remaining quantity are out of scope; rows missing the user id or a
// parseable expiration date are dropped silently, per the permissive
// row-level policy. Every other field may be blank.
func normalizeDepositRow(row spreadsheet.Row) (domain.DepositRecord, bool) {
	if NumberFrom(row[colRemainingQuantity]) <= 0 {
		return domain.DepositRecord{}, false
	}

	userID := StringFrom(row[colUserID])
	if userID == "" {
		return domain.DepositRecord{}, false
	}

	expiration, ok := ParseDate(row[colDepositExpiration])
	if !ok {
		return domain.DepositRecord{}, false
	}

	omnicareID := StringFrom(row[colOmnicareID])
	if omnicareID == "" {
		omnicareID = StringFrom(row[colOmnicareIDAlt])
	}

	return domain.DepositRecord{
		ClinicCode:     clinicKey(row[colDepositClinicCode]),
		UserID:         userID,
		OmnicareID:     omnicareID,
		UserName:       StringFrom(row[colUserName]),
		PhoneNumber:    StringFrom(row[colPhoneNumber]),
		TreatmentName:  StringFrom(row[colTreatmentName]),
		ExpirationDate: expiration,
	}, true
}

// FilterExpiring returns the records whose expiration date falls inside
// [start, start+2 calendar months], both ends inclusive, ordered by clinic
// code (collated) and then by expiration date ascending. The input slice is
// never mutated, so the window can be re-evaluated at will.
func FilterExpiring(records []domain.DepositRecord, start time.Time) []domain.DepositRecord {
	start = atMidnight(start)
	end := start.AddDate(0, 2, 0)

	out := make([]domain.DepositRecord, 0, len(records))
	for _, r := range records {
		if r.ExpirationDate.Before(start) || r.ExpirationDate.After(end) {
			continue
		}
		out = append(out, r)
	}

	cl := newClinicCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if c := cl.CompareString(out[i].ClinicCode, out[j].ClinicCode); c != 0 {
			return c < 0
		}
		return out[i].ExpirationDate.Before(out[j].ExpirationDate)
	})
	return out
}

// ---------------------- revenue pipeline ----------------------

// ProcessRevenueReport aggregates the revenue report per clinic and
// cross-validates the grand total against the subtotal-derived checksum.
func (svc *service) ProcessRevenueReport(file io.Reader) (*domain.RevenueReport, error) {
	sheet, err := spreadsheet.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode revenue report: %w", err)
	}
	return buildRevenueReport(sheet), nil
}

func buildRevenueReport(sheet *spreadsheet.Sheet) *domain.RevenueReport {
	clinics := foldRows(sheet.Rows, colClinicCode,
		func(code string) *domain.RevenueClinicSummary {
			return &domain.RevenueClinicSummary{ClinicCode: code}
		},
		accumulateRevenueRow,
	)

	report := &domain.RevenueReport{
		RowsRead: len(sheet.Rows),
		Warnings: headerWarnings(sheet, revenueColumns),
	}
	for _, code := range sortedClinicCodes(clinics) {
		report.Clinics = append(report.Clinics, *clinics[code])
	}
	if totals := reduceRevenueTotals(clinics); totals != nil {
		totals.TotalDisplay = FormatIDR(totals.Total)
		report.Totals = totals
		report.Checksum = revenueChecksum(totals)
	}
	return report
}

// accumulateRevenueRow classifies the row by its item type. Unrecognized
// types still feed the clinic's grand total but neither subtotal bucket, so
// the grand total stays complete even for unclassified rows; the checksum can
// then legitimately diverge by exactly the unclassified amount.
func accumulateRevenueRow(summary *domain.RevenueClinicSummary, row spreadsheet.Row) {
	retail := NumberFrom(row[colRetailPrice])
	selling := NumberFrom(row[colSellingPrice])
	discount := NumberFrom(row[colDiscount])

	switch LowerStringFrom(row[colItemType]) {
	case "treatment":
		summary.TreatmentRetailPrice += retail
		summary.TreatmentSellingPrice += selling
		summary.TreatmentDiscount += discount
	case "product":
		summary.ProductRetailPrice += retail
		summary.ProductSellingPrice += selling
		summary.ProductDiscount += discount
	}

	summary.Total += NumberFrom(row[colFinalPrice])
}

func reduceRevenueTotals(clinics map[string]*domain.RevenueClinicSummary) *domain.RevenueTotals {
	if len(clinics) == 0 {
		return nil
	}
	totals := &domain.RevenueTotals{}
	for _, s := range clinics {
		totals.TreatmentRetailPrice += s.TreatmentRetailPrice
		totals.TreatmentSellingPrice += s.TreatmentSellingPrice
		totals.TreatmentDiscount += s.TreatmentDiscount
		totals.ProductRetailPrice += s.ProductRetailPrice
		totals.ProductSellingPrice += s.ProductSellingPrice
		totals.ProductDiscount += s.ProductDiscount
		totals.Total += s.Total
	}
	return totals
}

// revenueChecksum recomputes an independent total from the selling and
// discount subtotals and compares it with the accumulated grand total. A
// consistent export makes the two equal; a mismatch flags the upstream
// report, so it is surfaced as PASS/FAIL data rather than an error.
func revenueChecksum(totals *domain.RevenueTotals) *domain.RevenueChecksum {
	derived := (totals.TreatmentSellingPrice + totals.ProductSellingPrice) -
		(totals.TreatmentDiscount + totals.ProductDiscount)

	status := domain.ChecksumPass
	if math.Abs(derived-totals.Total) > EPSILON {
		status = domain.ChecksumFail
	}
	return &domain.RevenueChecksum{
		DerivedTotal:     derived,
		AccumulatedTotal: totals.Total,
		Status:           status,
	}
}

// ---------------------- deposit-purchase pipeline ----------------------

// ProcessDepositPurchaseReport aggregates the deposit-purchase report per
// clinic. Every row is included; no categorical split applies.
func (svc *service) ProcessDepositPurchaseReport(file io.Reader) (*domain.DepositPurchaseReport, error) {
	sheet, err := spreadsheet.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode deposit-purchase report: %w", err)
	}
	return buildDepositPurchaseReport(sheet), nil
}

func buildDepositPurchaseReport(sheet *spreadsheet.Sheet) *domain.DepositPurchaseReport {
	clinics := foldRows(sheet.Rows, colClinicCode,
		func(code string) *domain.DepositPurchaseClinicSummary {
			return &domain.DepositPurchaseClinicSummary{ClinicCode: code}
		},
		func(summary *domain.DepositPurchaseClinicSummary, row spreadsheet.Row) {
			summary.RetailPrice += NumberFrom(row[colRetailPrice])
			summary.SellingPrice += NumberFrom(row[colSellingPrice])
			summary.Discount += NumberFrom(row[colDiscount])
			summary.Total += NumberFrom(row[colFinalPrice])
		},
	)

	report := &domain.DepositPurchaseReport{
		RowsRead: len(sheet.Rows),
		Warnings: headerWarnings(sheet, depositPurchaseColumns),
	}
	for _, code := range sortedClinicCodes(clinics) {
		report.Clinics = append(report.Clinics, *clinics[code])
	}
	if len(clinics) > 0 {
		totals := &domain.DepositPurchaseTotals{}
		for _, s := range clinics {
			totals.RetailPrice += s.RetailPrice
			totals.SellingPrice += s.SellingPrice
			totals.Discount += s.Discount
			totals.Total += s.Total
		}
		totals.TotalDisplay = FormatIDR(totals.Total)
		report.Totals = totals
	}
	return report
}

// ---------------------- cash-in pipeline ----------------------

// ProcessCashInReport aggregates the cash-in report per clinic and payment
// method. Amounts use the currency-specific coercion because source exports
// may carry currency formatting.
func (svc *service) ProcessCashInReport(file io.Reader) (*domain.CashInReport, error) {
	sheet, err := spreadsheet.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cash-in report: %w", err)
	}
	return buildCashInReport(sheet), nil
}

func buildCashInReport(sheet *spreadsheet.Sheet) *domain.CashInReport {
	clinics := foldRows(sheet.Rows, colClinicCode,
		func(code string) *domain.CashInClinicSummary {
			return &domain.CashInClinicSummary{
				ClinicCode: code,
				Methods:    make(map[string]float64),
			}
		},
		accumulateCashInRow,
	)

	report := &domain.CashInReport{
		RowsRead: len(sheet.Rows),
		Warnings: headerWarnings(sheet, cashInColumns),
	}
	for _, code := range sortedClinicCodes(clinics) {
		summary := clinics[code]
		finalizeCashIn(summary)
		report.Clinics = append(report.Clinics, *summary)
	}
	if len(clinics) > 0 {
		totals := &domain.CashInTotals{Methods: make(map[string]float64)}
		for _, s := range clinics {
			for method, amount := range s.Methods {
				totals.Methods[method] += amount
			}
			totals.Deposit += s.Deposit
			totals.Voucher += s.Voucher
			totals.NonDepositVoucher += s.NonDepositVoucher
			totals.Total += s.Total
		}
		totals.TotalDisplay = FormatIDR(totals.Total)
		report.Totals = totals
	}
	return report
}

func accumulateCashInRow(summary *domain.CashInClinicSummary, row spreadsheet.Row) {
	method := strings.TrimSpace(StringFrom(row[colPaymentMethod]))
	if method == "" {
		method = domain.Unknown
	}
	amount := AmountFrom(row[colAmount])
	summary.Methods[method] += amount
	summary.Total += amount
}

// finalizeCashIn derives the deposit, voucher and non-deposit/voucher fields
// once accumulation is done. A method label counts toward deposit when its
// folded form contains "deposit", otherwise toward voucher when it contains
// "voucher"; everything else lands in NonDepositVoucher via the subtraction.
func finalizeCashIn(summary *domain.CashInClinicSummary) {
	summary.Deposit = 0
	summary.Voucher = 0
	for label, amount := range summary.Methods {
		folded := strings.ToLower(label)
		switch {
		case strings.Contains(folded, "deposit"):
			summary.Deposit += amount
		case strings.Contains(folded, "voucher"):
			summary.Voucher += amount
		}
	}
	summary.NonDepositVoucher = summary.Total - summary.Deposit - summary.Voucher
}
