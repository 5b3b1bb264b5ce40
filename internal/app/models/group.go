package models

import "time"

// Group is a student cohort identified by its derived code
type Group struct {
	ID              int64     `json:"id" db:"id" example:"1"`
	GroupCode       string    `json:"groupCode" db:"group_code" example:"PI24E"`
	ProgramInitials string    `json:"programInitials" db:"program_initials" example:"PI"`
	StartYear       int       `json:"startYear" db:"start_year" example:"24"`
	LanguageCode    *string   `json:"languageCode,omitempty" db:"language_code" example:"E"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Language returns the language code or "" when absent
func (g *Group) Language() string {
	if g.LanguageCode == nil {
		return ""
	}
	return *g.LanguageCode
}

// GroupFilter narrows group listings
type GroupFilter struct {
	ProgramInitials string
	StartYear       *int
	// HasStudents selects groups with (true) or without (false) students
	HasStudents *bool
}
