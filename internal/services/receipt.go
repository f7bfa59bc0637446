package services

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"gamecafe-pos/internal/models"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.ID}}</title>
<style>
body { font-family: sans-serif; padding: 20px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 8px; border: 1px solid #ccc; text-align: left; }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h2>Invoice {{.ID}}</h2>
<table>
{{range .Rows}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type receiptRow struct {
	Label string
	Value string
}

type receiptData struct {
	ID   string
	Rows []receiptRow
}

// WriteReceipt renders the invoice as an HTML document under dir and
// returns the URL path it is served at.
func WriteReceipt(dir, invoiceID string, inv models.Invoice) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice directory: %w", err)
	}

	data := receiptData{
		ID: invoiceID,
		Rows: []receiptRow{
			{"Invoice ID", invoiceID},
			{"Date", inv.Date},
			{"Mobile", inv.Mobile},
			{"Station", inv.Station},
			{"Game", inv.Game},
			{"Controllers", fmt.Sprintf("%d", inv.Controllers)},
			{"Duration (hrs)", fmt.Sprintf("%.2f", inv.DurationHours)},
			{"Base Cost", models.FormatCurrency(inv.BaseCost)},
			{"Food Cost", models.FormatCurrency(inv.FoodCost)},
			{"Wallet Used", models.FormatCurrency(inv.WalletUsed)},
			{"Total Due", models.FormatCurrency(inv.TotalDue)},
			{"Loyalty Earned", models.FormatCurrency(inv.LoyaltyEarned)},
			{"Remaining Wallet", models.FormatCurrency(inv.RemainingWallet)},
		},
	}

	path := filepath.Join(dir, invoiceID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file: %w", err)
	}
	defer f.Close()

	if err := receiptTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}

	return "/invoices/" + invoiceID + ".html", nil
}
