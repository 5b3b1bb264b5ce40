package dto

// CreateGroupRequest carries the parts a group code is derived from
type CreateGroupRequest struct {
	ProgramInitials string `json:"programInitials" binding:"required,initials" example:"PI"`
	StartYear       *int   `json:"startYear" binding:"required,min=0,max=99" example:"24"`
	LanguageCode    string `json:"languageCode,omitempty" binding:"langcode" example:"E"`
}

// UpdateGroupRequest changes any code part; the code is derived again
type UpdateGroupRequest struct {
	ProgramInitials *string `json:"programInitials,omitempty" binding:"omitempty,initials" example:"PI"`
	StartYear       *int    `json:"startYear,omitempty" binding:"omitempty,min=0,max=99" example:"25"`
	// An empty string removes the language code
	LanguageCode *string `json:"languageCode,omitempty" binding:"omitempty,langcode" example:"E"`
}

// GroupListQuery filters group listings
type GroupListQuery struct {
	ProgramInitials string `form:"programInitials" binding:"omitempty,initials"`
	StartYear       *int   `form:"startYear" binding:"omitempty,min=0,max=99"`
	HasStudents     *bool  `form:"hasStudents"`
}

// AssignSubjectRequest adds a subject to a group's curriculum
type AssignSubjectRequest struct {
	SubjectID        int64  `json:"subjectId" binding:"required,min=1" example:"4"`
	AcademicSemester string `json:"academicSemester" binding:"max=50" example:"2024/25 Fall"`
}

// GroupStatus tells whether a group has any students
type GroupStatus string

const (
	GroupStatusActive GroupStatus = "Active"
	GroupStatusEmpty  GroupStatus = "Empty"
)

// GroupInfoResponse summarizes a group's usage
type GroupInfoResponse struct {
	ID           int64       `json:"id" example:"1"`
	GroupCode    string      `json:"groupCode" example:"PI24E"`
	StudentCount int64       `json:"studentCount" example:"25"`
	SubjectCount int64       `json:"subjectCount" example:"8"`
	CanBeDeleted bool        `json:"canBeDeleted" example:"false"`
	Status       GroupStatus `json:"status" example:"Active" enums:"Active,Empty"`
}
