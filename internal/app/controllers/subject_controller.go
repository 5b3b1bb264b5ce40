package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/middleware"
)

// SubjectController handles subject administration
type SubjectController struct {
	subjectService services.SubjectService
	groupService   services.GroupService
	gradeService   services.GradeService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService services.SubjectService, groupService services.GroupService, gradeService services.GradeService) *SubjectController {
	return &SubjectController{
		subjectService: subjectService,
		groupService:   groupService,
		gradeService:   gradeService,
	}
}

// CreateSubject handles subject creation
// @Summary Create a subject
// @Tags admin-subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Subject code already exists"
// @Router /admin/subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	subject, err := c.subjectService.CreateSubject(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, subject)
}

// ListSubjects lists subjects
// @Summary List subjects
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Param code query string false "Part of the subject code"
// @Param minCredits query int false "Minimum credits"
// @Param maxCredits query int false "Maximum credits"
// @Param semester query string false "Academic semester of some curriculum entry"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /admin/subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	var query dto.SubjectListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	subjects, err := c.subjectService.ListSubjects(ctx.Request.Context(), models.SubjectFilter{
		CodeContains: query.Code,
		MinCredits:   query.MinCredits,
		MaxCredits:   query.MaxCredits,
		Semester:     query.Semester,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects)
}

// GetSubject retrieves a subject
// @Summary Get a subject
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "subject")
	if !ok {
		return
	}
	subject, err := c.subjectService.GetSubjectByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subject)
}

// GetSubjectByCode retrieves a subject by its code
// @Summary Get a subject by code
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Param code path string true "Subject code"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/code/{code} [get]
func (c *SubjectController) GetSubjectByCode(ctx *gin.Context) {
	subject, err := c.subjectService.GetSubjectByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subject)
}

// UpdateSubject changes a subject
// @Summary Update a subject
// @Tags admin-subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param request body dto.UpdateSubjectRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 409 {object} dto.ErrorResponse "Subject code already exists"
// @Router /admin/subjects/{id} [put]
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "subject")
	if !ok {
		return
	}
	var req dto.UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	subject, err := c.subjectService.UpdateSubject(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subject)
}

// DeleteSubject removes a subject
// @Summary Delete a subject
// @Description Also removes its assignments, curriculum entries and grades
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "subject")
	if !ok {
		return
	}
	if err := c.subjectService.DeleteSubject(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Subject deleted successfully")
}

// ListWithoutTeachers lists subjects nobody teaches
// @Summary Subjects without an active teacher
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /admin/subjects/unassigned-teachers [get]
func (c *SubjectController) ListWithoutTeachers(ctx *gin.Context) {
	subjects, err := c.subjectService.ListWithoutTeachers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects)
}

// ListWithoutGroups lists subjects outside every curriculum
// @Summary Subjects without groups
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /admin/subjects/unassigned-groups [get]
func (c *SubjectController) ListWithoutGroups(ctx *gin.Context) {
	subjects, err := c.subjectService.ListWithoutGroups(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects)
}

// ListGroups lists the groups studying a subject
// @Summary Groups of a subject
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Group}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id}/groups [get]
func (c *SubjectController) ListGroups(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "subject")
	if !ok {
		return
	}
	groups, err := c.groupService.ListGroupsBySubject(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, groups)
}

// GetGradeStats aggregates the grades of a subject
// @Summary Subject grade statistics
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.GradeStatsResponse}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id}/grades/stats [get]
func (c *SubjectController) GetGradeStats(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "subject")
	if !ok {
		return
	}
	stats, err := c.gradeService.SubjectStats(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats)
}

// GetSubjectInfo returns usage information for a subject
// @Summary Subject info
// @Tags admin-subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubjectInfoResponse}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id}/info [get]
func (c *SubjectController) GetSubjectInfo(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "subject")
	if !ok {
		return
	}
	info, err := c.subjectService.GetSubjectInfo(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, info)
}
