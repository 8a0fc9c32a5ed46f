package models

// Account is an operator login.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
	IsAdmin      bool   `json:"is_admin"`
}
