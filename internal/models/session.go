package models

import (
	"fmt"
	"strings"
	"time"
)

// Session is an active occupancy of one station by one user. It exists
// from the start call until the end call converts it into an invoice.
type Session struct {
	SessionID   string    `json:"session_id" redis:"session_id"`
	Mobile      string    `json:"mobile" redis:"mobile"`
	Station     string    `json:"station" redis:"station"`
	Game        string    `json:"game" redis:"game"`
	Controllers int       `json:"controllers" redis:"controllers"`
	StartTime   time.Time `json:"start_time" redis:"start_time"`
}

// Elapsed reports how long the session has been running at the given
// instant, floored at zero for clock skew between client and server.
func (s *Session) Elapsed(now time.Time) time.Duration {
	d := now.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

type StartSessionRequest struct {
	Mobile      string `json:"mobile"`
	Station     string `json:"station"`
	Game        string `json:"game"`
	Controllers int    `json:"controllers"`
}

func (r *StartSessionRequest) Validate() error {
	if strings.TrimSpace(r.Mobile) == "" {
		return fmt.Errorf("mobile number is required")
	}
	if !IsValidStation(r.Station) {
		return fmt.Errorf("invalid station: %q", r.Station)
	}
	if strings.TrimSpace(r.Game) == "" {
		return fmt.Errorf("game is required")
	}
	if r.Controllers < 0 {
		return fmt.Errorf("controllers must not be negative")
	}
	return nil
}

type EndSessionRequest struct {
	SessionID string  `json:"session_id"`
	FoodCost  float64 `json:"food_cost"`
	UseWallet bool    `json:"use_wallet"`
}

type UpdatePriceRequest struct {
	Name         string  `json:"name"`
	PricePerHour float64 `json:"price_per_hour"`
}
