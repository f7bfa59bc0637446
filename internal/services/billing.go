package services

import (
	"math"
	"time"

	"gamecafe-pos/internal/models"
)

// LoyaltyRate is the share of the gaming-time cost credited back to the
// wallet. Food cost never earns loyalty.
const LoyaltyRate = 0.10

// FallbackPricePerHour is billed when a session references a game that
// has since disappeared from the catalog.
const FallbackPricePerHour = 100

const invoiceDateFormat = "2006-01-02 15:04:05"

// DurationHours converts a session span into billable hours: whole
// hours, plus a half hour once the remainder passes 15 minutes.
func DurationHours(start, end time.Time) float64 {
	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		minutes = 0
	}
	hours := math.Floor(minutes / 60)
	remainder := minutes - hours*60
	if remainder > 15 {
		return hours + 0.5
	}
	return hours
}

// ComputeInvoice prices a finished session. game may be nil when the
// catalog entry no longer exists. walletBalance is the user's balance
// before the transaction; the returned invoice carries the balance
// after debit and loyalty accrual. The controller count is recorded on
// the invoice but gaming time is billed purely as duration times the
// hourly price. TotalDue is the bill total before the wallet debit;
// the debit shows up in WalletUsed and RemainingWallet.
func ComputeInvoice(sess models.Session, game *models.Game, walletBalance, foodCost float64, useWallet bool, end time.Time) models.Invoice {
	duration := DurationHours(sess.StartTime, end)

	price := float64(FallbackPricePerHour)
	if game != nil {
		price = game.PricePerHour
	}

	baseCost := duration * price
	totalDue := baseCost + foodCost

	walletUsed := 0.0
	if useWallet && walletBalance > 0 {
		walletUsed = math.Min(walletBalance, totalDue)
	}

	loyaltyEarned := LoyaltyRate * baseCost
	remainingWallet := round2(walletBalance - walletUsed + loyaltyEarned)

	return models.Invoice{
		Date:            end.Format(invoiceDateFormat),
		Mobile:          sess.Mobile,
		Station:         sess.Station,
		Game:            sess.Game,
		Controllers:     sess.Controllers,
		DurationHours:   duration,
		BaseCost:        baseCost,
		FoodCost:        foodCost,
		WalletUsed:      walletUsed,
		TotalDue:        totalDue,
		LoyaltyEarned:   loyaltyEarned,
		RemainingWallet: remainingWallet,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
