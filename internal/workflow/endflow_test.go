package workflow_test

import (
	"context"
	"testing"

	"gamecafe-pos/internal/client"
	"gamecafe-pos/internal/models"
	"gamecafe-pos/internal/workflow"
)

func endReady(t *testing.T) (*fakeAPI, *recorderUI, *workflow.Workflow) {
	t.Helper()
	api := newFake()
	api.endResult = &models.EndSessionResult{
		Invoice: models.Invoice{
			Mobile:          "9998887776",
			Station:         "A",
			Game:            "PS5",
			BaseCost:        50,
			FoodCost:        50,
			TotalDue:        100,
			LoyaltyEarned:   5,
			RemainingWallet: 405,
		},
		ReceiptURL: "/invoices/abc.html",
	}
	ui := &recorderUI{}
	wf := workflow.New(api, ui)
	ctx := context.Background()

	if err := wf.LookupUser(ctx, "9998887776"); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if err := wf.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return api, ui, wf
}

func TestOpenEndDialogUnknownIDIsNoop(t *testing.T) {
	_, _, wf := endReady(t)

	if wf.OpenEndDialog("no-such-session") {
		t.Error("opening a dialog for an unknown session must be a no-op")
	}
	if _, open := wf.SelectedSession(); open {
		t.Error("no dialog should be open")
	}
}

func TestCancelReturnsToIdle(t *testing.T) {
	_, _, wf := endReady(t)

	if !wf.OpenEndDialog("sess-a") {
		t.Fatal("dialog should open for a known session")
	}
	wf.CancelEndDialog()
	if _, open := wf.SelectedSession(); open {
		t.Error("cancel should close the dialog")
	}
}

func TestConfirmWithoutDialogIsRejected(t *testing.T) {
	api, _, wf := endReady(t)
	api.calls = nil

	if err := wf.ConfirmEndSession(context.Background(), "0", true); err == nil {
		t.Fatal("confirm without an open dialog should fail")
	}
	if len(api.calls) != 0 {
		t.Errorf("no request should be sent, got %v", api.calls)
	}
}

func TestConfirmStaleSessionRejectedLocally(t *testing.T) {
	api, _, wf := endReady(t)
	ctx := context.Background()

	if !wf.OpenEndDialog("sess-a") {
		t.Fatal("dialog should open")
	}

	// a refresh while the dialog was open removed the session
	api.sessions = nil
	api.stations = map[string]models.StationStatus{}
	if err := wf.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	api.calls = nil

	if err := wf.ConfirmEndSession(ctx, "0", true); err == nil {
		t.Fatal("stale session id must be rejected before any request")
	}
	if api.lastEnd != nil {
		t.Error("no end request should reach the server for a stale id")
	}
	if _, open := wf.SelectedSession(); open {
		t.Error("the stale dialog should be closed")
	}
}

func TestConfirmSendsLenientFoodCost(t *testing.T) {
	api, _, wf := endReady(t)
	ctx := context.Background()

	wf.OpenEndDialog("sess-a")
	if err := wf.ConfirmEndSession(ctx, "not-a-number", true); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if api.lastEnd == nil {
		t.Fatal("end request was never sent")
	}
	if api.lastEnd.FoodCost != 0 {
		t.Errorf("unparseable food cost should default to zero, got %v", api.lastEnd.FoodCost)
	}
	if !api.lastEnd.UseWallet {
		t.Error("use_wallet flag should be forwarded")
	}
}

func TestEndSessionUpdatesWalletOnlyForMatchingMobile(t *testing.T) {
	_, _, wf := endReady(t)
	ctx := context.Background()

	wf.OpenEndDialog("sess-a")
	if err := wf.ConfirmEndSession(ctx, "50", true); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	user := wf.CurrentUser()
	if user == nil || user.Wallet != 405 {
		t.Errorf("wallet should reflect the server's post-transaction value, got %+v", user)
	}
}

func TestEndSessionLeavesOtherWalletsAlone(t *testing.T) {
	_, _, wf := endReady(t)
	ctx := context.Background()

	// the loaded user is not the one the session belongs to
	if err := wf.LookupUser(ctx, "1112223334"); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	wf.OpenEndDialog("sess-a")
	if err := wf.ConfirmEndSession(ctx, "50", true); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	user := wf.CurrentUser()
	if user == nil || user.Wallet != 0 {
		t.Errorf("an invoice for a different mobile must not touch the current wallet, got %+v", user)
	}
}

func TestEndSessionServerErrorKeepsDialogOpen(t *testing.T) {
	api, ui, wf := endReady(t)
	ctx := context.Background()

	api.endErr = &client.APIError{Message: "Invalid session id"}
	wf.OpenEndDialog("sess-a")

	if err := wf.ConfirmEndSession(ctx, "50", true); err == nil {
		t.Fatal("confirm should fail")
	}
	if ui.errors[len(ui.errors)-1] != "Invalid session id" {
		t.Errorf("server error should be verbatim, got %v", ui.errors)
	}

	id, open := wf.SelectedSession()
	if !open || id != "sess-a" {
		t.Error("the dialog must survive a server failure so the operator can retry")
	}

	// retry succeeds once the server recovers
	api.endErr = nil
	if err := wf.ConfirmEndSession(ctx, "50", true); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if _, open := wf.SelectedSession(); open {
		t.Error("dialog should be closed after a successful retry")
	}
}

func TestEndSessionShowsInvoiceAndResyncs(t *testing.T) {
	api, ui, wf := endReady(t)
	ctx := context.Background()

	wf.OpenEndDialog("sess-a")
	api.calls = nil
	if err := wf.ConfirmEndSession(ctx, "50", true); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if len(ui.invoices) != 1 {
		t.Fatalf("expected one invoice render, got %d", len(ui.invoices))
	}
	if ui.invoices[0].ReceiptURL != "/invoices/abc.html" {
		t.Errorf("receipt link should be passed through, got %q", ui.invoices[0].ReceiptURL)
	}

	sawResync := false
	for i := 0; i+1 < len(api.calls); i++ {
		if api.calls[i] == "stations" && api.calls[i+1] == "sessions" {
			sawResync = true
		}
	}
	if !sawResync {
		t.Errorf("a successful end must trigger a full re-sync, got %v", api.calls)
	}
}
