package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"jdoe"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-09-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-09-02T15:30:00Z"`
}

// Admin is the administrator role record, keyed by user id
type Admin struct {
	UserID int64 `json:"userId" db:"user_id"`
	User   *User `json:"user,omitempty"`
}

// Teacher is the teacher role record, keyed by user id
type Teacher struct {
	UserID     int64  `json:"userId" db:"user_id" example:"3"`
	Department string `json:"department" db:"department" example:"Mathematics"`
	User       *User  `json:"user,omitempty"`
}
