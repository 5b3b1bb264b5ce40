package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/middleware"
)

// TeacherController serves the signed-in teacher. Every subject-scoped
// handler is gated on the teacher's active assignment by the service.
type TeacherController struct {
	teacherService services.TeacherService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService services.TeacherService) *TeacherController {
	return &TeacherController{teacherService: teacherService}
}

// Dashboard summarizes the teacher's workload
// @Summary Teacher dashboard
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeacherDashboardResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Teachers only"
// @Router /teacher/dashboard [get]
func (c *TeacherController) Dashboard(ctx *gin.Context) {
	teacherID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	dashboard, err := c.teacherService.Dashboard(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dashboard)
}

// Subjects lists the subjects the teacher actively teaches
// @Summary My subjects
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /teacher/subjects [get]
func (c *TeacherController) Subjects(ctx *gin.Context) {
	teacherID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	subjects, err := c.teacherService.Subjects(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects)
}

// Groups lists the groups studying the teacher's subjects
// @Summary My groups
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Group}
// @Router /teacher/groups [get]
func (c *TeacherController) Groups(ctx *gin.Context) {
	teacherID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	groups, err := c.teacherService.Groups(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, groups)
}

// Students lists the students in the teacher's groups
// @Summary My students
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /teacher/students [get]
func (c *TeacherController) Students(ctx *gin.Context) {
	teacherID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	students, err := c.teacherService.Students(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewStudentResponses(students))
}

// EnterGrade records a grade in a subject the teacher teaches
// @Summary Enter a grade
// @Tags teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGradeRequest true "Grade"
// @Success 201 {object} dto.APIResponse{data=models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Invalid value or subject not taught by the teacher"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Router /teacher/grades [post]
func (c *TeacherController) EnterGrade(ctx *gin.Context) {
	teacherID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	var req dto.CreateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	grade, err := c.teacherService.EnterGrade(ctx.Request.Context(), teacherID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, grade)
}

// EditGrade changes a grade in a subject the teacher teaches
// @Summary Edit a grade
// @Tags teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Param request body dto.UpdateGradeRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Invalid value or subject not taught by the teacher"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /teacher/grades/{id} [put]
func (c *TeacherController) EditGrade(ctx *gin.Context) {
	teacherID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	gradeID, ok := parseID(ctx, "id", "grade")
	if !ok {
		return
	}
	var req dto.UpdateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	grade, err := c.teacherService.EditGrade(ctx.Request.Context(), teacherID, gradeID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grade)
}

// DeleteGrade removes a grade in a subject the teacher teaches
// @Summary Delete a grade
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Subject not taught by the teacher"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /teacher/grades/{id} [delete]
func (c *TeacherController) DeleteGrade(ctx *gin.Context) {
	teacherID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	gradeID, ok := parseID(ctx, "id", "grade")
	if !ok {
		return
	}
	if err := c.teacherService.DeleteGrade(ctx.Request.Context(), teacherID, gradeID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Grade deleted successfully")
}

// subjectScope reads the teacher id and the subject path parameter
func subjectScope(ctx *gin.Context) (teacherID, subjectID int64, ok bool) {
	if teacherID, ok = sessionUserID(ctx); !ok {
		return 0, 0, false
	}
	if subjectID, ok = parseID(ctx, "id", "subject"); !ok {
		return 0, 0, false
	}
	return teacherID, subjectID, true
}

// SubjectGrades lists all grades of a subject
// @Summary Grades of my subject
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Subject not taught by the teacher"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /teacher/subjects/{id}/grades [get]
func (c *TeacherController) SubjectGrades(ctx *gin.Context) {
	teacherID, subjectID, ok := subjectScope(ctx)
	if !ok {
		return
	}
	grades, err := c.teacherService.GradesBySubject(ctx.Request.Context(), teacherID, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}

// SubjectStats aggregates the grades of a subject
// @Summary Statistics of my subject
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.GradeStatsResponse}
// @Failure 400 {object} dto.ErrorResponse "Subject not taught by the teacher"
// @Router /teacher/subjects/{id}/stats [get]
func (c *TeacherController) SubjectStats(ctx *gin.Context) {
	teacherID, subjectID, ok := subjectScope(ctx)
	if !ok {
		return
	}
	stats, err := c.teacherService.SubjectStats(ctx.Request.Context(), teacherID, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats)
}

// FailingGrades lists grades below the passing threshold
// @Summary Failing grades of my subject
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Subject not taught by the teacher"
// @Router /teacher/subjects/{id}/failing [get]
func (c *TeacherController) FailingGrades(ctx *gin.Context) {
	teacherID, subjectID, ok := subjectScope(ctx)
	if !ok {
		return
	}
	grades, err := c.teacherService.FailingGrades(ctx.Request.Context(), teacherID, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}

// TopGrades lists the best grades of a subject
// @Summary Top grades of my subject
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param limit query int false "How many grades (max 100)" default(10)
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Invalid limit or subject not taught by the teacher"
// @Router /teacher/subjects/{id}/top [get]
func (c *TeacherController) TopGrades(ctx *gin.Context) {
	teacherID, subjectID, ok := subjectScope(ctx)
	if !ok {
		return
	}
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid limit").
				WithField("limit").
				WithDetails("limit must be a positive number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		limit = parsed
	}

	grades, err := c.teacherService.TopGrades(ctx.Request.Context(), teacherID, subjectID, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}

// CommentedGrades lists grades carrying a comment
// @Summary Commented grades of my subject
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Subject not taught by the teacher"
// @Router /teacher/subjects/{id}/commented [get]
func (c *TeacherController) CommentedGrades(ctx *gin.Context) {
	teacherID, subjectID, ok := subjectScope(ctx)
	if !ok {
		return
	}
	grades, err := c.teacherService.CommentedGrades(ctx.Request.Context(), teacherID, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}

// StudentGrades lists one student's grades in a subject
// @Summary A student's grades in my subject
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param studentId path int true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Subject not taught by the teacher"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /teacher/subjects/{id}/students/{studentId}/grades [get]
func (c *TeacherController) StudentGrades(ctx *gin.Context) {
	teacherID, subjectID, ok := subjectScope(ctx)
	if !ok {
		return
	}
	studentID, ok := parseID(ctx, "studentId", "student")
	if !ok {
		return
	}
	grades, err := c.teacherService.StudentGrades(ctx.Request.Context(), teacherID, subjectID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}

// GroupGrades lists a group's grades in a subject
// @Summary A group's grades in my subject
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param groupId path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Subject not taught by the teacher"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /teacher/subjects/{id}/groups/{groupId}/grades [get]
func (c *TeacherController) GroupGrades(ctx *gin.Context) {
	teacherID, subjectID, ok := subjectScope(ctx)
	if !ok {
		return
	}
	groupID, ok := parseID(ctx, "groupId", "group")
	if !ok {
		return
	}
	grades, err := c.teacherService.GroupGrades(ctx.Request.Context(), teacherID, subjectID, groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}
