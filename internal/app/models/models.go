package models

// Role is the role a user acts under, decided by which role record exists
type Role string

const (
	RoleAdmin   Role = "ADMINISTRATOR"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}
