package reports

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount the way the id-ID exports do: "Rp310.000",
// grouped thousands, no fractional digits. This is the round-trip companion
// of AmountFrom.
func FormatIDR(amount float64) string {
	return idPrinter.Sprintf("Rp%v", number.Decimal(math.Round(amount), number.MaxFractionDigits(0)))
}
