package dto

// AssignTeacherRequest assigns a subject to a teacher
type AssignTeacherRequest struct {
	TeacherID int64 `json:"teacherId" binding:"required,min=1" example:"3"`
	SubjectID int64 `json:"subjectId" binding:"required,min=1" example:"4"`
}

// AssignmentListQuery selects assignments by teacher or by subject
type AssignmentListQuery struct {
	TeacherID *int64 `form:"teacherId" binding:"omitempty,min=1"`
	SubjectID *int64 `form:"subjectId" binding:"omitempty,min=1"`
}
