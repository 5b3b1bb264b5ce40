package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/services"
	"github.com/yigit/ais/internal/middleware"
)

// GroupController handles groups and their curricula
type GroupController struct {
	groupService services.GroupService
	gradeService services.GradeService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService, gradeService services.GradeService) *GroupController {
	return &GroupController{
		groupService: groupService,
		gradeService: gradeService,
	}
}

// CreateGroup handles group creation
// @Summary Create a group
// @Description Derives the group code from program initials, start year and optional language code
// @Tags admin-groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Group code parts"
// @Success 201 {object} dto.APIResponse{data=models.Group} "Group created"
// @Failure 400 {object} dto.ErrorResponse "Invalid code parts"
// @Failure 409 {object} dto.ErrorResponse "Group code already exists"
// @Router /admin/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	group, err := c.groupService.CreateGroup(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, group)
}

// ListGroups lists groups
// @Summary List groups
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param programInitials query string false "Program initials"
// @Param startYear query int false "Two-digit start year"
// @Param hasStudents query bool false "Only groups with (true) or without (false) students"
// @Success 200 {object} dto.APIResponse{data=[]models.Group}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /admin/groups [get]
func (c *GroupController) ListGroups(ctx *gin.Context) {
	var query dto.GroupListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	groups, err := c.groupService.ListGroups(ctx.Request.Context(), models.GroupFilter{
		ProgramInitials: query.ProgramInitials,
		StartYear:       query.StartYear,
		HasStudents:     query.HasStudents,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, groups)
}

// GetGroup retrieves a group
// @Summary Get a group
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /admin/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	group, err := c.groupService.GetGroupByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, group)
}

// GetGroupByCode retrieves a group by its code
// @Summary Get a group by code
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param code path string true "Group code, e.g. PI24E"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /admin/groups/code/{code} [get]
func (c *GroupController) GetGroupByCode(ctx *gin.Context) {
	group, err := c.groupService.GetGroupByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, group)
}

// UpdateGroup changes code parts of a group
// @Summary Update a group
// @Tags admin-groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.UpdateGroupRequest true "Code parts to change"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 400 {object} dto.ErrorResponse "Invalid code parts"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Group code already exists"
// @Router /admin/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	var req dto.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	group, err := c.groupService.UpdateGroup(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, group)
}

// DeleteGroup removes a group
// @Summary Delete a group
// @Description Students of the group stay and lose their group reference
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /admin/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	if err := c.groupService.DeleteGroup(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Group deleted successfully")
}

// ListProgramInitials lists the distinct program initials in use
// @Summary List program initials
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /admin/groups/program-initials [get]
func (c *GroupController) ListProgramInitials(ctx *gin.Context) {
	initials, err := c.groupService.ListProgramInitials(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, initials)
}

// ListStartYears lists the distinct start years in use
// @Summary List start years
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]int}
// @Router /admin/groups/start-years [get]
func (c *GroupController) ListStartYears(ctx *gin.Context) {
	years, err := c.groupService.ListStartYears(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, years)
}

// ListStudents lists the students of a group
// @Summary List group students
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /admin/groups/{id}/students [get]
func (c *GroupController) ListStudents(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	students, err := c.groupService.ListStudents(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.NewStudentResponses(students))
}

// ListSubjects lists a group's curriculum
// @Summary List group subjects
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param semester query string false "Only entries of this academic semester"
// @Success 200 {object} dto.APIResponse{data=[]models.GroupSubject}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /admin/groups/{id}/subjects [get]
func (c *GroupController) ListSubjects(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	subjects, err := c.groupService.ListSubjects(ctx.Request.Context(), id, ctx.Query("semester"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects)
}

// AssignSubject adds a subject to a group's curriculum
// @Summary Assign a subject to a group
// @Tags admin-groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.AssignSubjectRequest true "Subject and semester"
// @Success 201 {object} dto.APIResponse{data=models.GroupSubject}
// @Failure 404 {object} dto.ErrorResponse "Group or subject not found"
// @Failure 409 {object} dto.ErrorResponse "Subject already in curriculum"
// @Router /admin/groups/{id}/subjects [post]
func (c *GroupController) AssignSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	var req dto.AssignSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.HandleValidationError(ctx, err)
		return
	}

	assignment, err := c.groupService.AssignSubject(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, assignment)
}

// RemoveSubject drops a subject from a group's curriculum
// @Summary Remove a subject from a group
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /admin/groups/{id}/subjects/{subjectId} [delete]
func (c *GroupController) RemoveSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	subjectID, ok := parseID(ctx, "subjectId", "subject")
	if !ok {
		return
	}
	if err := c.groupService.RemoveSubject(ctx.Request.Context(), id, subjectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Subject removed from group")
}

// GetGroupInfo returns usage information for a group
// @Summary Group info
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.GroupInfoResponse}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /admin/groups/{id}/info [get]
func (c *GroupController) GetGroupInfo(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	info, err := c.groupService.GetGroupInfo(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, info)
}

// GetGradeStats aggregates the grades of a group's students
// @Summary Group grade statistics
// @Tags admin-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.GradeStatsResponse}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /admin/groups/{id}/grades/stats [get]
func (c *GroupController) GetGradeStats(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "group")
	if !ok {
		return
	}
	stats, err := c.gradeService.GroupStats(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats)
}
