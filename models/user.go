package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	LastViewedTasks []int64   `db:"last_viewed_tasks" json:"lastViewedTasks"`
	CreatedAt       time.Time `db:"created_at" json:"-"`
}

// UserProfile is the public view of a user returned after registration.
type UserProfile struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// LoginProfile adds the recently viewed task ids returned on login.
type LoginProfile struct {
	UserProfile
	LastViewedTasks []int64 `json:"lastViewedTasks"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (u *User) LoginProfile() LoginProfile {
	viewed := u.LastViewedTasks
	if viewed == nil {
		viewed = []int64{}
	}
	return LoginProfile{UserProfile: u.Profile(), LastViewedTasks: viewed}
}
