package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/middleware"
)

// StudentController serves the signed-in student
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Profile returns the student's account and group
// @Summary My profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfileResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Students only"
// @Router /student/profile [get]
func (c *StudentController) Profile(ctx *gin.Context) {
	studentID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	profile, err := c.studentService.Profile(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// Grades lists the student's grades
// @Summary My grades
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Router /student/grades [get]
func (c *StudentController) Grades(ctx *gin.Context) {
	studentID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	grades, err := c.studentService.Grades(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, grades)
}

// Subjects lists the subjects of the student's group
// @Summary My subjects
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /student/subjects [get]
func (c *StudentController) Subjects(ctx *gin.Context) {
	studentID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	subjects, err := c.studentService.Subjects(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects)
}

// Average returns the student's overall average
// @Summary My average
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AverageResponse}
// @Router /student/average [get]
func (c *StudentController) Average(ctx *gin.Context) {
	studentID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	average, err := c.studentService.Average(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, average)
}

// Report returns per-subject statistics for the student
// @Summary My grade report
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentReportResponse}
// @Router /student/report [get]
func (c *StudentController) Report(ctx *gin.Context) {
	studentID, ok := sessionUserID(ctx)
	if !ok {
		return
	}
	report, err := c.studentService.Report(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, report)
}
