package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func GenerateSessionID() string {
	return uuid.New().String()
}

// InvoiceID derives the invoice identifier from the session id by
// stripping the dashes, so receipts stay traceable to their session.
func InvoiceID(sessionID string) string {
	return strings.ReplaceAll(sessionID, "-", "")
}

// ParseAmount converts free-form counter input into a money amount.
// Unparseable or empty input is treated as zero rather than rejected;
// the server validates totals.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ValidPrice reports whether v is usable as an hourly price: finite and
// strictly greater than zero.
func ValidPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func FormatCurrency(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
