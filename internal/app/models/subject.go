package models

// Subject is a course unit with a unique code
type Subject struct {
	ID      int64  `json:"id" db:"id" example:"1"`
	Code    string `json:"code" db:"code" example:"MATH101"`
	Credits *int   `json:"credits,omitempty" db:"credits" example:"6"`
}

// SubjectFilter narrows subject listings
type SubjectFilter struct {
	CodeContains string
	MinCredits   *int
	MaxCredits   *int
	// Semester keeps subjects some group studies in that academic semester
	Semester string
}
