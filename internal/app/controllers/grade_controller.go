package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/middleware"
)

// GradeController is the administrative view over all grades
type GradeController struct {
	gradeService services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// CreateGrade records a grade
// @Summary Create a grade
// @Tags admin-grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGradeRequest true "Grade"
// @Success 201 {object} dto.APIResponse{data=models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Value outside 0..100"
// @Failure 404 {object} dto.ErrorResponse "Student or subject not found"
// @Router /admin/grades [post]
func (c *GradeController) CreateGrade(ctx *gin.Context) {
	var req dto.CreateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	grade, err := c.gradeService.CreateGrade(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, grade)
}

// ListGrades lists grades
// @Summary List grades
// @Tags admin-grades
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Student user ID"
// @Param subjectId query int false "Subject ID"
// @Param groupId query int false "Group ID"
// @Param minValue query number false "Lowest value"
// @Param maxValue query number false "Highest value"
// @Param since query string false "Updated at or after (RFC 3339)"
// @Param until query string false "Updated at or before (RFC 3339)"
// @Param withComments query bool false "Only grades with a comment"
// @Param failingOnly query bool false "Only grades below the passing threshold"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /admin/grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	var query dto.GradeListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	grades, err := c.gradeService.ListGrades(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}

// GetGrade retrieves a grade
// @Summary Get a grade
// @Tags admin-grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=models.Grade}
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /admin/grades/{id} [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "grade")
	if !ok {
		return
	}
	grade, err := c.gradeService.GetGrade(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grade)
}

// UpdateGrade changes a grade
// @Summary Update a grade
// @Tags admin-grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Param request body dto.UpdateGradeRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Grade}
// @Failure 400 {object} dto.ErrorResponse "Value outside 0..100"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /admin/grades/{id} [put]
func (c *GradeController) UpdateGrade(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "grade")
	if !ok {
		return
	}
	var req dto.UpdateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	grade, err := c.gradeService.UpdateGrade(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grade)
}

// DeleteGrade removes a grade
// @Summary Delete a grade
// @Tags admin-grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /admin/grades/{id} [delete]
func (c *GradeController) DeleteGrade(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "grade")
	if !ok {
		return
	}
	if err := c.gradeService.DeleteGrade(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Grade deleted successfully")
}

// StudentAverage returns a student's overall average
// @Summary Student average
// @Tags admin-grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=dto.AverageResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/grades/students/{id}/average [get]
func (c *GradeController) StudentAverage(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "student")
	if !ok {
		return
	}
	average, err := c.gradeService.StudentAverage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, average)
}
