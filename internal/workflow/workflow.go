package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gamecafe-pos/internal/client"
	"gamecafe-pos/internal/models"
)

// API is the slice of the POS server this workflow talks to.
// *client.Client satisfies it; tests substitute a fake.
type API interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	ListStations(ctx context.Context) (map[string]models.StationStatus, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	GetUser(ctx context.Context, mobile string) (*models.User, error)
	StartSession(ctx context.Context, req models.StartSessionRequest) error
	EndSession(ctx context.Context, req models.EndSessionRequest) (*models.EndSessionResult, error)
	UpdateGamePrice(ctx context.Context, name string, pricePerHour float64) error
}

// UI receives render and notification callbacks. The workflow never
// talks to a terminal or page directly.
type UI interface {
	Notify(msg string)
	ShowError(msg string)
	RenderCatalog(games []models.Game)
	RenderStations(board []StationEntry)
	RenderSessions(sessions []models.Session)
	ShowInvoice(result *models.EndSessionResult)
}

// StationEntry is one row of the station board. The board always has
// exactly the seven fixed stations, occupied ones unselectable.
type StationEntry struct {
	Letter    string
	Occupied  bool
	SessionID string
}

// Workflow owns the client-side projections of server state: current
// user, catalog, sessions and station occupancy. Projections are only
// ever replaced wholesale after a successful fetch, never patched to
// anticipate a server-side outcome. The single sanctioned exception is
// the current user's wallet after an invoice, which the server returns
// explicitly for that purpose.
type Workflow struct {
	api API
	ui  UI

	mu            sync.Mutex
	currentUser   *models.User
	games         []models.Game
	sessions      []models.Session
	stations      map[string]models.StationStatus
	dialog        dialogState
	dialogID      string
	startInFlight bool

	refreshSeq uint64
}

func New(api API, ui UI) *Workflow {
	return &Workflow{
		api:      api,
		ui:       ui,
		stations: make(map[string]models.StationStatus),
	}
}

// LoadCatalog replaces the in-memory game list. On failure the prior
// catalog is left untouched.
func (w *Workflow) LoadCatalog(ctx context.Context) error {
	games, err := w.api.ListGames(ctx)
	if err != nil {
		w.reportError("load catalog", err)
		return err
	}

	w.mu.Lock()
	w.games = games
	w.mu.Unlock()

	w.ui.RenderCatalog(games)
	return nil
}

// Refresh re-syncs station occupancy and the active session list. The
// stations fetch completes before the sessions fetch is issued, and a
// response that has been superseded by a newer refresh is discarded
// instead of overwriting fresher state.
func (w *Workflow) Refresh(ctx context.Context) error {
	seq := atomic.AddUint64(&w.refreshSeq, 1)

	stations, err := w.api.ListStations(ctx)
	if err != nil {
		w.reportError("refresh", err)
		return err
	}

	sessions, err := w.api.ListSessions(ctx)
	if err != nil {
		w.reportError("refresh", err)
		return err
	}

	w.mu.Lock()
	if seq != atomic.LoadUint64(&w.refreshSeq) {
		w.mu.Unlock()
		return nil
	}
	w.stations = stations
	w.sessions = sessions
	board := stationBoard(stations)
	rendered := append([]models.Session(nil), sessions...)
	w.mu.Unlock()

	w.ui.RenderStations(board)
	w.ui.RenderSessions(rendered)
	return nil
}

// LookupUser resolves a mobile number to the current user. An empty
// number is rejected locally without a network call.
func (w *Workflow) LookupUser(ctx context.Context, mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		w.ui.ShowError("Enter a mobile number")
		return fmt.Errorf("mobile number is required")
	}

	user, err := w.api.GetUser(ctx, mobile)
	if err != nil {
		w.mu.Lock()
		w.currentUser = nil
		w.mu.Unlock()
		w.reportError("user lookup", err)
		return err
	}

	w.mu.Lock()
	w.currentUser = user
	w.mu.Unlock()

	w.ui.Notify(fmt.Sprintf("Loaded user %s, wallet %s", user.Mobile, models.FormatCurrency(user.Wallet)))
	return nil
}

// StartSession reserves a station for the current user. The controller
// count is sent only when the selected game requires controllers. On
// success the new occupancy is observed through a full re-sync; the
// response itself carries no state the client may apply.
func (w *Workflow) StartSession(ctx context.Context, station, game string, controllers int) error {
	w.mu.Lock()
	if w.startInFlight {
		w.mu.Unlock()
		w.ui.ShowError("A session start is already in progress")
		return fmt.Errorf("start already in flight")
	}
	user := w.currentUser
	occupied := w.stations[station].Occupied
	requires := false
	for _, g := range w.games {
		if g.Name == game {
			requires = g.RequiresControllers
			break
		}
	}
	if user == nil {
		w.mu.Unlock()
		w.ui.ShowError("No user loaded")
		return fmt.Errorf("no user loaded")
	}
	if occupied {
		// advisory only; the server re-validates on its own state
		w.mu.Unlock()
		w.ui.ShowError(fmt.Sprintf("Station %s is occupied", station))
		return fmt.Errorf("station %s is occupied", station)
	}
	w.startInFlight = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.startInFlight = false
		w.mu.Unlock()
	}()

	if !requires {
		controllers = 0
	}

	req := models.StartSessionRequest{
		Mobile:      user.Mobile,
		Station:     station,
		Game:        game,
		Controllers: controllers,
	}
	if err := w.api.StartSession(ctx, req); err != nil {
		w.reportError("start session", err)
		return err
	}

	return w.Refresh(ctx)
}

// UpdateGamePrice changes a game's hourly price. A non-positive or
// non-finite price is rejected before any request is sent; on success
// the whole catalog is reloaded rather than patching one row.
func (w *Workflow) UpdateGamePrice(ctx context.Context, name string, pricePerHour float64) error {
	if !models.ValidPrice(pricePerHour) {
		w.ui.ShowError("Price must be a positive number")
		return fmt.Errorf("invalid price %v", pricePerHour)
	}

	if err := w.api.UpdateGamePrice(ctx, name, pricePerHour); err != nil {
		w.reportError("price update", err)
		return err
	}

	return w.LoadCatalog(ctx)
}

// StationBoard returns the render-ready board: one entry per station in
// the fixed A..G set, regardless of what the last sync returned.
func (w *Workflow) StationBoard() []StationEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return stationBoard(w.stations)
}

func stationBoard(stations map[string]models.StationStatus) []StationEntry {
	board := make([]StationEntry, 0, len(models.StationLetters))
	for _, letter := range models.StationLetters {
		st := stations[letter]
		board = append(board, StationEntry{
			Letter:    letter,
			Occupied:  st.Occupied,
			SessionID: st.SessionID,
		})
	}
	return board
}

func (w *Workflow) CurrentUser() *models.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentUser == nil {
		return nil
	}
	u := *w.currentUser
	return &u
}

func (w *Workflow) Games() []models.Game {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Game(nil), w.games...)
}

func (w *Workflow) Sessions() []models.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Session(nil), w.sessions...)
}

// StartRenderTicker re-renders the cached session list once per
// interval so elapsed durations stay current on screen. It performs no
// network I/O and works off whatever the last sync produced, so it is
// safe alongside an in-flight refresh. Cancel ctx to stop it.
func (w *Workflow) StartRenderTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.ui.RenderSessions(w.Sessions())
			}
		}
	}()
}

// reportError maps the two error classes to their user-facing form:
// domain failures verbatim, everything else as a generic notification
// with the detail kept in the log.
func (w *Workflow) reportError(op string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		w.ui.ShowError(apiErr.Message)
		return
	}
	log.Printf("%s failed: %v", op, err)
	w.ui.ShowError("Operation failed, please try again")
}
