package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gamecafe-pos/internal/models"
	"gamecafe-pos/internal/workflow"
)

// terminalUI renders workflow state to stdout.
type terminalUI struct {
	serverURL string
}

func newTerminalUI(serverURL string) *terminalUI {
	return &terminalUI{serverURL: strings.TrimRight(serverURL, "/")}
}

func (u *terminalUI) Notify(msg string) {
	fmt.Println("--", msg)
}

func (u *terminalUI) ShowError(msg string) {
	fmt.Println("!!", msg)
}

func (u *terminalUI) RenderCatalog(games []models.Game) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tPRICE/HR\tCONTROLLERS")
	for _, g := range games {
		controllers := "-"
		if g.RequiresControllers {
			controllers = fmt.Sprintf("%d-%d", models.MinControllers, models.MaxControllers)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", g.Name, models.FormatCurrency(g.PricePerHour), controllers)
	}
	w.Flush()
}

func (u *terminalUI) RenderStations(board []workflow.StationEntry) {
	var free, occupied []string
	for _, entry := range board {
		if entry.Occupied {
			occupied = append(occupied, entry.Letter)
		} else {
			free = append(free, entry.Letter)
		}
	}
	fmt.Printf("Stations  free: %s  occupied: %s\n",
		joinOrNone(free), joinOrNone(occupied))
}

func (u *terminalUI) RenderSessions(sessions []models.Session) {
	if len(sessions) == 0 {
		fmt.Println("No active sessions")
		return
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATION\tMOBILE\tGAME\tCTRL\tELAPSED\tSESSION")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.Station, s.Mobile, s.Game, s.Controllers,
			s.Elapsed(now).Round(time.Minute), shortID(s.SessionID))
	}
	w.Flush()
}

func (u *terminalUI) ShowInvoice(result *models.EndSessionResult) {
	inv := result.Invoice
	fmt.Println("---- INVOICE ----")
	fmt.Printf("Mobile:           %s\n", inv.Mobile)
	fmt.Printf("Station/Game:     %s / %s\n", inv.Station, inv.Game)
	fmt.Printf("Duration (hrs):   %.2f\n", inv.DurationHours)
	fmt.Printf("Base cost:        %s\n", models.FormatCurrency(inv.BaseCost))
	fmt.Printf("Food cost:        %s\n", models.FormatCurrency(inv.FoodCost))
	fmt.Printf("Wallet used:      %s\n", models.FormatCurrency(inv.WalletUsed))
	fmt.Printf("Total due:        %s\n", models.FormatCurrency(inv.TotalDue))
	fmt.Printf("Loyalty earned:   %s\n", models.FormatCurrency(inv.LoyaltyEarned))
	fmt.Printf("Remaining wallet: %s\n", models.FormatCurrency(inv.RemainingWallet))
	if result.ReceiptURL != "" {
		fmt.Printf("Receipt:          %s%s\n", u.serverURL, result.ReceiptURL)
	}
	fmt.Println("-----------------")
}

func joinOrNone(letters []string) string {
	if len(letters) == 0 {
		return "none"
	}
	return strings.Join(letters, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
