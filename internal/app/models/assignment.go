package models

import "time"

// TeacherSubject is a teaching assignment. Only active assignments allow grade changes.
type TeacherSubject struct {
	ID         int64     `json:"id" db:"id"`
	TeacherID  int64     `json:"teacherId" db:"teacher_id"`
	SubjectID  int64     `json:"subjectId" db:"subject_id"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	AssignedAt time.Time `json:"assignedAt" db:"assigned_at"`

	TeacherUsername string `json:"teacherUsername,omitempty"`
	SubjectCode     string `json:"subjectCode,omitempty"`
}

// GroupSubject is a curriculum assignment of a subject to a group
type GroupSubject struct {
	ID               int64  `json:"id" db:"id"`
	GroupID          int64  `json:"groupId" db:"group_id"`
	SubjectID        int64  `json:"subjectId" db:"subject_id"`
	AcademicSemester string `json:"academicSemester" db:"academic_semester" example:"2024/25 Fall"`

	GroupCode   string `json:"groupCode,omitempty"`
	SubjectCode string `json:"subjectCode,omitempty"`
}
