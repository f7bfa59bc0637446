package models

// Invoice is the one-time billing summary returned when a session ends.
// Every monetary field is computed server-side; the client displays it
// verbatim and discards it.
type Invoice struct {
	Date            string  `json:"date"`
	Mobile          string  `json:"mobile"`
	Station         string  `json:"station"`
	Game            string  `json:"game"`
	Controllers     int     `json:"controllers"`
	DurationHours   float64 `json:"duration_hours"`
	BaseCost        float64 `json:"base_cost"`
	FoodCost        float64 `json:"food_cost"`
	WalletUsed      float64 `json:"wallet_used"`
	TotalDue        float64 `json:"total_due"`
	LoyaltyEarned   float64 `json:"loyalty_earned"`
	RemainingWallet float64 `json:"remaining_wallet"`
}

// EndSessionResult pairs the invoice with an optional link to the
// generated receipt document.
type EndSessionResult struct {
	Invoice    Invoice `json:"invoice"`
	ReceiptURL string  `json:"pdf,omitempty"`
}

// InvoiceRecord is the server-side journal entry kept per invoice.
type InvoiceRecord struct {
	InvoiceID       string  `json:"invoice_id"`
	Date            string  `json:"date"`
	Mobile          string  `json:"mobile"`
	AmountDue       float64 `json:"amount_due"`
	Game            string  `json:"game"`
	Station         string  `json:"station"`
	Controllers     int     `json:"controllers"`
	BaseCost        float64 `json:"base_cost"`
	FoodCost        float64 `json:"food_cost"`
	WalletUsed      float64 `json:"wallet_used"`
	LoyaltyEarned   float64 `json:"loyalty_earned"`
	RemainingWallet float64 `json:"remaining_wallet"`
}

// Payment is the server-side journal entry for the amount actually due
// at the counter after wallet deduction.
type Payment struct {
	Mobile string  `json:"mobile"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}
