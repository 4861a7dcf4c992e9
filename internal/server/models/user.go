package models

import "time"

// User is the stored credential record. PasswordHash never leaves the
// services package; everything handed to callers goes through View.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Profile      map[string]any
	CreatedAt    time.Time
}

// UserView is the public projection of a User.
type UserView struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Profile   map[string]any `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// View drops the password hash.
func (u *User) View() *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}

// Views projects a slice of users.
func Views(users []*User) []*UserView {
	out := make([]*UserView, 0, len(users))
	for _, u := range users {
		out = append(out, u.View())
	}
	return out
}
