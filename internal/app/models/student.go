package models

// Student is the student role record, keyed by user id
type Student struct {
	UserID  int64  `json:"userId" db:"user_id" example:"5"`
	GroupID *int64 `json:"groupId,omitempty" db:"group_id" example:"2"` // NULL once the group is deleted

	User  *User  `json:"user,omitempty"`
	Group *Group `json:"group,omitempty"`
}
