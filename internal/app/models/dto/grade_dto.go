package dto

import "github.com/yigit/ais/internal/domain"

// CreateGradeRequest records a grade
type CreateGradeRequest struct {
	StudentID  int64    `json:"studentId" binding:"required,min=1" example:"5"`
	SubjectID  int64    `json:"subjectId" binding:"required,min=1" example:"4"`
	GradeValue *float64 `json:"gradeValue" binding:"required" example:"87.5"`
	Comment    *string  `json:"comment,omitempty" example:"Good work"`
}

// UpdateGradeRequest changes the value and/or the comment. An empty comment clears it.
type UpdateGradeRequest struct {
	GradeValue *float64 `json:"gradeValue,omitempty" example:"90"`
	Comment    *string  `json:"comment,omitempty" example:"Re-evaluated"`
}

// GradeListQuery filters grade listings
type GradeListQuery struct {
	StudentID *int64   `form:"studentId" binding:"omitempty,min=1"`
	SubjectID *int64   `form:"subjectId" binding:"omitempty,min=1"`
	GroupID   *int64   `form:"groupId" binding:"omitempty,min=1"`
	MinValue  *float64 `form:"minValue" binding:"omitempty,min=0,max=100"`
	MaxValue  *float64 `form:"maxValue" binding:"omitempty,min=0,max=100"`
	// Since and Until are RFC 3339 timestamps
	Since        string `form:"since"`
	Until        string `form:"until"`
	WithComments bool   `form:"withComments"`
	FailingOnly  bool   `form:"failingOnly"`
}

// GradeStatsResponse is a rounded aggregate over a set of grades
type GradeStatsResponse = domain.GradeSummary

// AverageResponse carries a rounded average
type AverageResponse struct {
	Average float64 `json:"average" example:"90"`
	Count   int64   `json:"count" example:"2"`
}

// SubjectReport is the per-subject line of a student report
type SubjectReport struct {
	SubjectID   int64               `json:"subjectId" example:"4"`
	SubjectCode string              `json:"subjectCode" example:"MATH101"`
	Summary     domain.GradeSummary `json:"summary"`
}

// StudentReportResponse is a student's grade report
type StudentReportResponse struct {
	StudentID int64               `json:"studentId" example:"5"`
	Username  string              `json:"username" example:"jdoe"`
	GroupCode string              `json:"groupCode,omitempty" example:"PI24E"`
	Overall   domain.GradeSummary `json:"overall"`
	Subjects  []SubjectReport     `json:"subjects"`
}

// TeacherDashboardResponse summarizes what a teacher teaches
type TeacherDashboardResponse struct {
	TeacherID    int64  `json:"teacherId" example:"3"`
	Username     string `json:"username" example:"mcurie"`
	Department   string `json:"department" example:"Physics"`
	SubjectCount int    `json:"subjectCount" example:"3"`
	GroupCount   int    `json:"groupCount" example:"4"`
	StudentCount int64  `json:"studentCount" example:"96"`
	GradeCount   int64  `json:"gradeCount" example:"310"`
}

// StudentProfileResponse is the student's own view of their account
type StudentProfileResponse struct {
	ID        int64   `json:"id" example:"5"`
	Username  string  `json:"username" example:"jdoe"`
	GroupID   *int64  `json:"groupId,omitempty" example:"2"`
	GroupCode *string `json:"groupCode,omitempty" example:"PI24E"`
}
