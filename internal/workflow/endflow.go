package workflow

import (
	"context"
	"fmt"

	"gamecafe-pos/internal/models"
)

// The end-session flow is a small state machine:
//
//	Idle -> DialogOpen(sessionID) -> Submitting -> Idle      on success
//	                              -> Submitting -> DialogOpen on failure
//	                              -> Idle                     on cancel
//
// DialogOpen always carries the session id it was opened for, and the
// id is re-checked against the last-synced list before submitting in
// case a refresh removed it while the dialog was open.
type dialogState int

const (
	dialogIdle dialogState = iota
	dialogOpen
	dialogSubmitting
)

// OpenEndDialog selects a session for ending. Ids not present in the
// last-synced session list are a no-op and leave the flow idle.
func (w *Workflow) OpenEndDialog(sessionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dialog == dialogSubmitting {
		return false
	}
	if !containsSession(w.sessions, sessionID) {
		return false
	}
	w.dialog = dialogOpen
	w.dialogID = sessionID
	return true
}

func (w *Workflow) CancelEndDialog() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dialog == dialogOpen {
		w.dialog = dialogIdle
		w.dialogID = ""
	}
}

// SelectedSession returns the session id the open dialog refers to.
func (w *Workflow) SelectedSession() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dialog == dialogIdle {
		return "", false
	}
	return w.dialogID, true
}

// ConfirmEndSession submits the open end-session dialog. foodCost is
// the raw counter input; unparseable input bills zero food. On success
// the freed station is observed via a full re-sync and the invoice is
// shown once; on a server-reported failure the dialog and its entered
// values survive so the operator can correct and resubmit.
func (w *Workflow) ConfirmEndSession(ctx context.Context, foodCost string, useWallet bool) error {
	w.mu.Lock()
	if w.dialog != dialogOpen {
		w.mu.Unlock()
		w.ui.ShowError("No session selected")
		return fmt.Errorf("no end-session dialog open")
	}
	id := w.dialogID
	if !containsSession(w.sessions, id) {
		// the list was refreshed underneath the open dialog
		w.dialog = dialogIdle
		w.dialogID = ""
		w.mu.Unlock()
		w.ui.ShowError("Session no longer exists, refresh and retry")
		return fmt.Errorf("session %s is not in the current session list", id)
	}
	w.dialog = dialogSubmitting
	w.mu.Unlock()

	req := models.EndSessionRequest{
		SessionID: id,
		FoodCost:  models.ParseAmount(foodCost),
		UseWallet: useWallet,
	}

	result, err := w.api.EndSession(ctx, req)
	if err != nil {
		w.mu.Lock()
		w.dialog = dialogOpen
		w.mu.Unlock()
		w.reportError("end session", err)
		return err
	}

	w.mu.Lock()
	if w.currentUser != nil && w.currentUser.Mobile == result.Invoice.Mobile {
		// the server's authoritative post-transaction balance; never
		// computed locally, and never applied to an unrelated user
		w.currentUser.Wallet = result.Invoice.RemainingWallet
	}
	w.dialog = dialogIdle
	w.dialogID = ""
	w.mu.Unlock()

	w.Refresh(ctx)
	w.ui.ShowInvoice(result)
	return nil
}

func containsSession(sessions []models.Session, id string) bool {
	for _, s := range sessions {
		if s.SessionID == id {
			return true
		}
	}
	return false
}
