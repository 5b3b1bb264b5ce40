package dto

// CreateSubjectRequest creates a subject
type CreateSubjectRequest struct {
	Code    string `json:"code" binding:"required,notblank,max=20" example:"MATH101"`
	Credits *int   `json:"credits,omitempty" binding:"omitempty,min=1" example:"6"`
}

// UpdateSubjectRequest changes code and/or credits
type UpdateSubjectRequest struct {
	Code    *string `json:"code,omitempty" binding:"omitempty,notblank,max=20" example:"MATH102"`
	Credits *int    `json:"credits,omitempty" binding:"omitempty,min=1" example:"5"`
}

// SubjectListQuery filters subject listings
type SubjectListQuery struct {
	Code       string `form:"code"`
	MinCredits *int   `form:"minCredits" binding:"omitempty,min=1"`
	MaxCredits *int   `form:"maxCredits" binding:"omitempty,min=1"`
	Semester   string `form:"semester" binding:"omitempty,max=50"`
}

// SubjectInfoResponse summarizes a subject's usage
type SubjectInfoResponse struct {
	ID                 int64  `json:"id" example:"4"`
	Code               string `json:"code" example:"MATH101"`
	Credits            *int   `json:"credits,omitempty" example:"6"`
	ActiveTeacherCount int64  `json:"activeTeacherCount" example:"2"`
	GroupCount         int64  `json:"groupCount" example:"3"`
	CanBeDeleted       bool   `json:"canBeDeleted" example:"false"`
}
