package domain

import "time"

type AccountID string

type Account struct {
	ID      AccountID
	Name    string
	Auth    Auth
	Session *SessionSnapshot
}

// SessionSnapshot records what the gateway reported on the last successful login.
type SessionSnapshot struct {
	UserID      string
	UserTag     string
	SessionID   string
	GuildCount  int
	LastLoginAt time.Time
}

func (a Account) HasToken() bool {
	return a.Auth.SecretRef != ""
}
