package model

import (
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not exposed
	Roster       Roster    `json:"roster"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers never share the stored roster slice.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roster = u.Roster.Clone()
	return &c
}

// PublicUser is the identity projection returned by login and /auth/me.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
