package models

import "time"

// Grade is a single mark of a student in a subject. A student may hold several per subject.
type Grade struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	StudentID  int64     `json:"studentId" db:"student_id" example:"5"`
	SubjectID  int64     `json:"subjectId" db:"subject_id" example:"2"`
	GradeValue float64   `json:"gradeValue" db:"grade_value" example:"87.5"`
	Comment    *string   `json:"comment,omitempty" db:"comment"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`

	StudentUsername string `json:"studentUsername,omitempty"`
	SubjectCode     string `json:"subjectCode,omitempty"`
}

// GradeFilter narrows grade listings. Zero values mean "no constraint".
type GradeFilter struct {
	StudentID    *int64
	SubjectID    *int64
	GroupID      *int64
	TeacherID    *int64 // subjects the teacher actively teaches
	MinValue     *float64
	MaxValue     *float64
	Below        *float64 // strictly below, for failing grades
	UpdatedFrom  *time.Time
	UpdatedTo    *time.Time
	WithComments bool
	// OrderByValueDesc sorts best grades first instead of newest first
	OrderByValueDesc bool
	Limit            uint64
}

// GradeAggregate is the raw reduction computed by the store
type GradeAggregate struct {
	Count   int64
	Average float64
	Min     float64
	Max     float64
}
