package models

import "slices"

type UserRecord struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name,omitempty"`
	Roles    []string `json:"roles"`
}

func (u *UserRecord) IsAdmin() bool {
	return u != nil && slices.Contains(u.Roles, "admin")
}

// Session is the observable state of one browser session.
type Session struct {
	Token      *string     `json:"-"`
	User       *UserRecord `json:"user"`
	IsLoggedIn bool        `json:"isLoggedIn"`
	Pending    bool        `json:"pending"`
	State      string      `json:"state"`
	Error      string      `json:"error,omitempty"`
}
