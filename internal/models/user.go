package models

// User is a customer identified by mobile number. The wallet balance is
// owned by the server; the client only ever displays the value the
// server last returned.
type User struct {
	Mobile string  `json:"mobile" redis:"mobile"`
	Wallet float64 `json:"wallet" redis:"wallet"`
}
