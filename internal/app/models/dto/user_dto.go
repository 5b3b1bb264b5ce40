package dto

import (
	"time"

	"github.com/yigit/ais/internal/app/models"
)

// CreateStudentRequest creates a user with a student record
type CreateStudentRequest struct {
	Username string `json:"username" binding:"required,notblank,max=100" example:"jdoe"`
	Password string `json:"password" binding:"required,min=3" example:"s3cret"`
	GroupID  *int64 `json:"groupId,omitempty" binding:"omitempty,min=1" example:"2"`
}

// UpdateStudentRequest changes any of username, password and group
type UpdateStudentRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,notblank,max=100" example:"jdoe"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=3"`
	GroupID  *int64  `json:"groupId,omitempty" binding:"omitempty,min=1" example:"2"`
}

// AssignGroupRequest moves a student into a group
type AssignGroupRequest struct {
	GroupID int64 `json:"groupId" binding:"required,min=1" example:"2"`
}

// CreateTeacherRequest creates a user with a teacher record
type CreateTeacherRequest struct {
	Username   string `json:"username" binding:"required,notblank,max=100" example:"mcurie"`
	Password   string `json:"password" binding:"required,min=3"`
	Department string `json:"department" binding:"max=100" example:"Physics"`
}

// UpdateTeacherRequest changes any of username, password and department
type UpdateTeacherRequest struct {
	Username   *string `json:"username,omitempty" binding:"omitempty,notblank,max=100"`
	Password   *string `json:"password,omitempty" binding:"omitempty,min=3"`
	Department *string `json:"department,omitempty" binding:"omitempty,max=100"`
}

// StudentResponse is a student with its group code
type StudentResponse struct {
	ID        int64     `json:"id" example:"5"`
	Username  string    `json:"username" example:"jdoe"`
	GroupID   *int64    `json:"groupId,omitempty" example:"2"`
	GroupCode string    `json:"groupCode,omitempty" example:"PI24E"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStudentResponse flattens a student record
func NewStudentResponse(s *models.Student) StudentResponse {
	resp := StudentResponse{ID: s.UserID, GroupID: s.GroupID}
	if s.User != nil {
		resp.Username = s.User.Username
		resp.CreatedAt = s.User.CreatedAt
	}
	if s.Group != nil {
		resp.GroupCode = s.Group.GroupCode
	}
	return resp
}

// NewStudentResponses flattens a list of students
func NewStudentResponses(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}

// StudentListResponse is one page of students
type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// TeacherResponse is a teacher with its department
type TeacherResponse struct {
	ID         int64     `json:"id" example:"3"`
	Username   string    `json:"username" example:"mcurie"`
	Department string    `json:"department" example:"Physics"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewTeacherResponse flattens a teacher record
func NewTeacherResponse(t *models.Teacher) TeacherResponse {
	resp := TeacherResponse{ID: t.UserID, Department: t.Department}
	if t.User != nil {
		resp.Username = t.User.Username
		resp.CreatedAt = t.User.CreatedAt
	}
	return resp
}

// NewTeacherResponses flattens a list of teachers
func NewTeacherResponses(teachers []*models.Teacher) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, NewTeacherResponse(t))
	}
	return out
}

// AdminDashboardResponse holds system-wide counts
type AdminDashboardResponse struct {
	Users    int64 `json:"users" example:"120"`
	Admins   int64 `json:"admins" example:"2"`
	Teachers int64 `json:"teachers" example:"15"`
	Students int64 `json:"students" example:"103"`
	Groups   int64 `json:"groups" example:"6"`
	Subjects int64 `json:"subjects" example:"24"`
	Grades   int64 `json:"grades" example:"940"`
}
