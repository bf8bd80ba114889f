package reports

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"report-service/internal/core/spreadsheet"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Exact, case-sensitive column headers the normalizers look up, per the
// operations platform's export format.
const (
	colDepositClinicCode = "Deposit Purchase Clinic Code"
	colUserID            = "User ID"
	colOmnicareID        = "Omnicare Id"
	colOmnicareIDAlt     = "Omnicare ID"
	colUserName          = "Name"
	colPhoneNumber       = "Phone Number"
	colTreatmentName     = "Treatment Display Name"
	colDepositExpiration = "Deposit Expiration Time"
	colRemainingQuantity = "Remaining Quantity"

	colClinicCode   = "Clinic Code"
	colItemType     = "Purchase Item Type"
	colRetailPrice  = "Total Retail Price"
	colSellingPrice = "Total Selling Price"
	colDiscount     = "Total Discount"
	colFinalPrice   = "Total Final Price"

	colPaymentMethod = "Payment Method"
	colAmount        = "Amount"
)

var (
	revenueColumns         = []string{colClinicCode, colItemType, colRetailPrice, colSellingPrice, colDiscount, colFinalPrice}
	depositPurchaseColumns = []string{colClinicCode, colRetailPrice, colSellingPrice, colDiscount, colFinalPrice}
	cashInColumns          = []string{colClinicCode, colPaymentMethod, colAmount}
)

// depositColumns accepts either spelling of the omnicare id header; the
// primary one is only reported missing when the alternate is absent too.
func depositColumns(sheet *spreadsheet.Sheet) []string {
	cols := []string{
		colDepositClinicCode, colUserID, colUserName, colPhoneNumber,
		colTreatmentName, colDepositExpiration, colRemainingQuantity,
	}
	if !sheetHasHeader(sheet, colOmnicareIDAlt) {
		cols = append(cols, colOmnicareID)
	}
	return cols
}

func sheetHasHeader(sheet *spreadsheet.Sheet, header string) bool {
	for _, h := range sheet.Headers {
		if h == header {
			return true
		}
	}
	return false
}

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

func normalizeHeader(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// headerWarnings reports expected headers missing from the decoded sheet,
// suggesting the closest header actually present. Column lookup itself stays
// exact and case-sensitive; this only surfaces likely export-format drift as
// data on the result.
func headerWarnings(sheet *spreadsheet.Sheet, expected []string) []string {
	present := make(map[string]bool, len(sheet.Headers))
	for _, h := range sheet.Headers {
		present[h] = true
	}

	var missing []string
	for _, col := range expected {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	byNorm := make(map[string]string)
	var keys []string
	for _, h := range sheet.Headers {
		n := normalizeHeader(h)
		if n == "" {
			continue
		}
		if _, ok := byNorm[n]; !ok {
			byNorm[n] = h
			keys = append(keys, n)
		}
	}

	var cm *closestmatch.ClosestMatch
	if len(keys) > 0 {
		cm = closestmatch.New(keys, []int{2, 3})
	}

	var warnings []string
	for _, col := range missing {
		msg := fmt.Sprintf("column %q not found in sheet", col)
		if cm != nil {
			if match := cm.Closest(normalizeHeader(col)); match != "" {
				msg = fmt.Sprintf("column %q not found in sheet; closest header is %q", col, byNorm[match])
			}
		}
		warnings = append(warnings, msg)
	}
	return warnings
}
