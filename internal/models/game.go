package models

// Game is a catalog entry. The name is the identifier; there is no
// separate game id anywhere in the API.
type Game struct {
	Name                string  `json:"name" redis:"name"`
	PricePerHour        float64 `json:"price_per_hour" redis:"price_per_hour"`
	RequiresControllers bool    `json:"requires_controllers" redis:"requires_controllers"`
}

// StationLetters is the fixed set of physical stations. The board always
// renders exactly these seven, whatever the server returns.
var StationLetters = []string{"A", "B", "C", "D", "E", "F", "G"}

type StationStatus struct {
	Occupied  bool   `json:"occupied"`
	SessionID string `json:"session_id,omitempty"`
}

// MinControllers and MaxControllers bound the controller-count selector
// for games that require controllers.
const (
	MinControllers = 1
	MaxControllers = 4
)

func IsValidStation(letter string) bool {
	for _, l := range StationLetters {
		if l == letter {
			return true
		}
	}
	return false
}
