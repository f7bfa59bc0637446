package store

import "gamecafe-pos/internal/models"

// Store is the POS server's persistence boundary. The file store is the
// default; a Redis store can be selected through configuration.
type Store interface {
	Games() ([]models.Game, error)
	SaveGames(games []models.Game) error

	// User returns nil when no user exists for the mobile number.
	User(mobile string) (*models.User, error)
	SaveUser(user models.User) error

	Sessions() (map[string]models.Session, error)
	SaveSession(sess models.Session) error
	// DeleteSession removes and returns a session; nil when absent.
	DeleteSession(sessionID string) (*models.Session, error)

	AppendInvoiceRecord(rec models.InvoiceRecord) error
	AppendPayment(p models.Payment) error
}

// DefaultGames seeds an empty catalog so a fresh install is usable.
func DefaultGames() []models.Game {
	return []models.Game{
		{Name: "Game A", RequiresControllers: true, PricePerHour: 100},
		{Name: "Game B", RequiresControllers: false, PricePerHour: 120},
		{Name: "Game C", RequiresControllers: true, PricePerHour: 80},
	}
}
