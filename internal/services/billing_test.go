package services_test

import (
	"math"
	"testing"
	"time"

	"gamecafe-pos/internal/models"
	"gamecafe-pos/internal/services"
)

func TestDurationHours(t *testing.T) {
	start := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		minutes int
		want    float64
	}{
		{0, 0},
		{10, 0},    // under the 15 minute grace
		{15, 0},    // exactly 15 is still free
		{16, 0.5},  // past the grace rounds up to a half hour
		{30, 0.5},
		{60, 1},
		{70, 1},
		{80, 1.5},
		{130, 2.5},
		{-20, 0}, // clock skew floors at zero
	}
	for _, tc := range cases {
		end := start.Add(time.Duration(tc.minutes) * time.Minute)
		if got := services.DurationHours(start, end); got != tc.want {
			t.Errorf("DurationHours(%d min) = %v, want %v", tc.minutes, got, tc.want)
		}
	}
}

func TestComputeInvoiceScenario(t *testing.T) {
	// wallet 500, PS5 at 100/hr with 2 controllers, 30 minutes, food 50
	start := time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	sess := models.Session{
		SessionID:   "sess-1",
		Mobile:      "9998887776",
		Station:     "A",
		Game:        "PS5",
		Controllers: 2,
		StartTime:   start,
	}
	game := &models.Game{Name: "PS5", PricePerHour: 100, RequiresControllers: true}

	inv := services.ComputeInvoice(sess, game, 500, 50, true, end)

	if inv.BaseCost != 50 {
		t.Errorf("base cost = %v, want 50", inv.BaseCost)
	}
	if inv.FoodCost != 50 {
		t.Errorf("food cost = %v, want 50", inv.FoodCost)
	}
	if inv.TotalDue != 100 {
		t.Errorf("total due = %v, want 100", inv.TotalDue)
	}
	if inv.WalletUsed != 100 {
		t.Errorf("wallet used = %v, want 100", inv.WalletUsed)
	}
	if inv.LoyaltyEarned != 5 {
		t.Errorf("loyalty = %v, want 5 (10%% of gaming time only)", inv.LoyaltyEarned)
	}
	if inv.RemainingWallet != 405 {
		t.Errorf("remaining wallet = %v, want 405", inv.RemainingWallet)
	}
	if inv.Controllers != 2 {
		t.Errorf("controllers should be recorded on the invoice, got %d", inv.Controllers)
	}
}

func TestComputeInvoiceWithoutWallet(t *testing.T) {
	start := time.Now().Add(-90 * time.Minute)
	sess := models.Session{Mobile: "1", Game: "Chess", StartTime: start}
	game := &models.Game{Name: "Chess", PricePerHour: 60}

	inv := services.ComputeInvoice(sess, game, 200, 0, false, time.Now())

	if inv.WalletUsed != 0 {
		t.Errorf("wallet must stay untouched when use_wallet is false, used %v", inv.WalletUsed)
	}
	if inv.BaseCost != 90 { // 1.5h at 60
		t.Errorf("base cost = %v, want 90", inv.BaseCost)
	}
	if inv.RemainingWallet != 209 { // 200 + 10% of 90
		t.Errorf("remaining wallet = %v, want 209", inv.RemainingWallet)
	}
}

func TestComputeInvoicePartialWallet(t *testing.T) {
	start := time.Now().Add(-2 * time.Hour)
	sess := models.Session{Mobile: "1", Game: "Chess", StartTime: start}
	game := &models.Game{Name: "Chess", PricePerHour: 60}

	inv := services.ComputeInvoice(sess, game, 30, 20, true, time.Now())

	if inv.TotalDue != 140 {
		t.Errorf("total due = %v, want 140", inv.TotalDue)
	}
	if inv.WalletUsed != 30 {
		t.Errorf("wallet used = %v, want the full 30 available", inv.WalletUsed)
	}
	if inv.RemainingWallet != 12 { // 30 - 30 + 10% of 120
		t.Errorf("remaining wallet = %v, want 12", inv.RemainingWallet)
	}
}

func TestComputeInvoiceUnknownGameFallsBack(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	sess := models.Session{Mobile: "1", Game: "Removed", StartTime: start}

	inv := services.ComputeInvoice(sess, nil, 0, 0, true, time.Now())

	if math.Abs(inv.BaseCost-services.FallbackPricePerHour) > 1e-9 {
		t.Errorf("base cost = %v, want fallback %v", inv.BaseCost, services.FallbackPricePerHour)
	}
}
