package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/middleware"
)

// AssignmentController handles teacher-subject assignments
type AssignmentController struct {
	assignmentService services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService services.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// AssignTeacher assigns a subject to a teacher
// @Summary Assign a teacher to a subject
// @Description Creates an active assignment, or reactivates an inactive one
// @Tags admin-assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignTeacherRequest true "Teacher and subject"
// @Success 201 {object} dto.APIResponse{data=models.TeacherSubject}
// @Failure 404 {object} dto.ErrorResponse "Teacher or subject not found"
// @Failure 409 {object} dto.ErrorResponse "Assignment already active"
// @Router /admin/assignments [post]
func (c *AssignmentController) AssignTeacher(ctx *gin.Context) {
	var req dto.AssignTeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	assignment, err := c.assignmentService.AssignTeacher(ctx.Request.Context(), req.TeacherID, req.SubjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, assignment)
}

// ListAssignments lists the assignments of one teacher or one subject
// @Summary List assignments
// @Description Exactly one of teacherId and subjectId must be given
// @Tags admin-assignments
// @Produce json
// @Security BearerAuth
// @Param teacherId query int false "Teacher user ID"
// @Param subjectId query int false "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.TeacherSubject}
// @Failure 400 {object} dto.ErrorResponse "Missing or conflicting filter"
// @Failure 404 {object} dto.ErrorResponse "Teacher or subject not found"
// @Router /admin/assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	var query dto.AssignmentListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}
	if (query.TeacherID == nil) == (query.SubjectID == nil) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment filter").
			WithDetails("Provide either teacherId or subjectId")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var (
		assignments []*models.TeacherSubject
		err         error
	)
	if query.TeacherID != nil {
		assignments, err = c.assignmentService.ListByTeacher(ctx.Request.Context(), *query.TeacherID)
	} else {
		assignments, err = c.assignmentService.ListBySubject(ctx.Request.Context(), *query.SubjectID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignments)
}

// ActivateAssignment re-enables an assignment
// @Summary Activate an assignment
// @Tags admin-assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=models.TeacherSubject}
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /admin/assignments/{id}/activate [put]
func (c *AssignmentController) ActivateAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "assignment")
	if !ok {
		return
	}
	assignment, err := c.assignmentService.ActivateAssignment(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignment)
}

// DeactivateAssignment disables an assignment without deleting it
// @Summary Deactivate an assignment
// @Tags admin-assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=models.TeacherSubject}
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /admin/assignments/{id}/deactivate [put]
func (c *AssignmentController) DeactivateAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "assignment")
	if !ok {
		return
	}
	assignment, err := c.assignmentService.DeactivateAssignment(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignment)
}

// RemoveAssignment deletes an assignment
// @Summary Delete an assignment
// @Tags admin-assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /admin/assignments/{id} [delete]
func (c *AssignmentController) RemoveAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "assignment")
	if !ok {
		return
	}
	if err := c.assignmentService.RemoveAssignment(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Assignment removed")
}
