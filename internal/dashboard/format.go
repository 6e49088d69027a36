package dashboard

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gbp = message.NewPrinter(language.BritishEnglish)

// FormatPounds renders an amount as whole pounds with grouped thousands,
// e.g. £1,234,567.
func FormatPounds(amount float64) string {
	return gbp.Sprintf("£%d", int64(math.Round(amount)))
}
