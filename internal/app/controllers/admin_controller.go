package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/middleware"
	"github.com/yigit/ais/internal/pkg/helpers"
)

// AdminController handles student and teacher accounts
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// Dashboard returns system-wide counts
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboardResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Administrators only"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.adminService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dashboard)
}

// CreateStudent handles student creation
// @Summary Create a student
// @Description Creates a user account with a student record, optionally inside a group
// @Tags admin-students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /admin/students [post]
func (c *AdminController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	student, err := c.adminService.CreateStudent(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, dto.NewStudentResponse(student))
}

// ListStudents lists students page by page
// @Summary List students
// @Tags admin-students
// @Produce json
// @Security BearerAuth
// @Param groupId query int false "Only students of this group"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid group ID"
// @Router /admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	var groupID *int64
	if raw := ctx.Query("groupId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid group ID").WithField("groupId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		groupID = &id
	}
	page, size := helpers.ParsePaginationParams(ctx)

	students, total, err := c.adminService.ListStudents(ctx.Request.Context(), groupID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.StudentListResponse{
		Students:   dto.NewStudentResponses(students),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	})
}

// GetStudent retrieves a student
// @Summary Get a student
// @Tags admin-students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [get]
func (c *AdminController) GetStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}
	student, err := c.adminService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewStudentResponse(student))
}

// UpdateStudent changes a student's account or group
// @Summary Update a student
// @Tags admin-students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student or group not found"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /admin/students/{id} [put]
func (c *AdminController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	student, err := c.adminService.UpdateStudent(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewStudentResponse(student))
}

// DeleteStudent removes a student
// @Summary Delete a student
// @Description Deletes the student record, their grades and their user account
// @Tags admin-students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [delete]
func (c *AdminController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}
	if err := c.adminService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Student deleted successfully")
}

// AssignStudentGroup moves a student into a group
// @Summary Assign a student to a group
// @Tags admin-students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Param request body dto.AssignGroupRequest true "Target group"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student or group not found"
// @Router /admin/students/{id}/group [put]
func (c *AdminController) AssignStudentGroup(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}
	var req dto.AssignGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	student, err := c.adminService.AssignStudentToGroup(ctx.Request.Context(), id, req.GroupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewStudentResponse(student))
}

// RemoveStudentGroup takes a student out of their group
// @Summary Remove a student from their group
// @Tags admin-students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id}/group [delete]
func (c *AdminController) RemoveStudentGroup(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}
	student, err := c.adminService.RemoveStudentFromGroup(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewStudentResponse(student))
}

// CreateTeacher handles teacher creation
// @Summary Create a teacher
// @Tags admin-teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeacherRequest true "Teacher information"
// @Success 201 {object} dto.APIResponse{data=dto.TeacherResponse} "Teacher created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /admin/teachers [post]
func (c *AdminController) CreateTeacher(ctx *gin.Context) {
	var req dto.CreateTeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	teacher, err := c.adminService.CreateTeacher(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, dto.NewTeacherResponse(teacher))
}

// ListTeachers lists teachers
// @Summary List teachers
// @Tags admin-teachers
// @Produce json
// @Security BearerAuth
// @Param department query string false "Exact department name"
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherResponse}
// @Router /admin/teachers [get]
func (c *AdminController) ListTeachers(ctx *gin.Context) {
	teachers, err := c.adminService.ListTeachers(ctx.Request.Context(), ctx.Query("department"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewTeacherResponses(teachers))
}

// GetTeacher retrieves a teacher
// @Summary Get a teacher
// @Tags admin-teachers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher user ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherResponse}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /admin/teachers/{id} [get]
func (c *AdminController) GetTeacher(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "teacher")
	if !ok {
		return
	}
	teacher, err := c.adminService.GetTeacher(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewTeacherResponse(teacher))
}

// UpdateTeacher changes a teacher's account or department
// @Summary Update a teacher
// @Tags admin-teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher user ID"
// @Param request body dto.UpdateTeacherRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherResponse}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /admin/teachers/{id} [put]
func (c *AdminController) UpdateTeacher(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "teacher")
	if !ok {
		return
	}
	var req dto.UpdateTeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	teacher, err := c.adminService.UpdateTeacher(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewTeacherResponse(teacher))
}

// DeleteTeacher removes a teacher
// @Summary Delete a teacher
// @Description Deletes the teacher record, their assignments and their user account
// @Tags admin-teachers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /admin/teachers/{id} [delete]
func (c *AdminController) DeleteTeacher(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "teacher")
	if !ok {
		return
	}
	if err := c.adminService.DeleteTeacher(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Teacher deleted successfully")
}
