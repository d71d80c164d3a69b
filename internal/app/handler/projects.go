package handler

import (
	"net/http"

	"finishline/internal/app/changerequest"
	"finishline/internal/app/changes"
	"finishline/internal/app/converter"
	"finishline/internal/app/ds"
	"finishline/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// GetProjects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Success 200 {array} dto.Project
// @Router /projects [get]
func (h *APIHandler) GetProjects(c *gin.Context) {
	projects, err := h.Service.ListProjects(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	now := h.Service.Now()
	out := make([]dto.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, converter.Project(p, now))
	}
	c.JSON(http.StatusOK, out)
}

// GetProject
// @Summary Get a project by wbs number
// @Tags Projects
// @Produce json
// @Param wbsNum path string true "wbs number, e.g. 1.2.0"
// @Success 200 {object} dto.Project
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/{wbsNum} [get]
func (h *APIHandler) GetProject(c *gin.Context) {
	n, err := ds.ParseWBSNumber(c.Param("wbsNum"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.Service.GetProject(c.Request.Context(), n)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.Project(*project, h.Service.Now()))
}

// CreateProject
// @Summary Create a project under an accepted change request
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProject true "new project"
// @Success 200 {object} dto.CreateProjectResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/new [post]
func (h *APIHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProject
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.Service.CreateProject(c.Request.Context(), changerequest.ProjectCreate{
		UserID:    req.UserID,
		CRID:      req.CRID,
		Name:      req.Name,
		CarNumber: req.CarNumber,
		Summary:   req.Summary,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CreateProjectResponse{WBSNumber: converter.WBSNum(n)})
}

// EditProject
// @Summary Edit a project under an accepted change request
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body dto.EditProject true "desired project state"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /projects/edit [post]
func (h *APIHandler) EditProject(c *gin.Context) {
	var req dto.EditProject
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.Service.EditProject(c.Request.Context(), changerequest.ProjectEdit{
		UserID:                req.UserID,
		ProjectID:             req.ProjectID,
		CRID:                  req.CRID,
		Name:                  req.Name,
		Budget:                req.Budget,
		Summary:               req.Summary,
		Rules:                 req.Rules,
		Goals:                 projectBullets(req.Goals),
		Features:              projectBullets(req.Features),
		OtherConstraints:      projectBullets(req.OtherConstraints),
		Status:                ds.WBSStatus(req.WBSElementStatus),
		ProjectLeadID:         req.ProjectLead,
		ProjectManagerID:      req.ProjectManager,
		GoogleDriveFolderLink: req.GoogleDriveFolderLink,
		SlideDeckLink:         req.SlideDeckLink,
		BOMLink:               req.BOMLink,
		TaskListLink:          req.TaskListLink,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Project updated successfully", nil)
}

func projectBullets(in []dto.ProjectBulletInput) []changes.Bullet {
	out := make([]changes.Bullet, 0, len(in))
	for _, b := range in {
		id := -1
		if b.ID != nil {
			id = *b.ID
		}
		out = append(out, changes.Bullet{ID: id, Detail: b.Detail})
	}
	return out
}

// CheckDescriptionBullet
// @Summary Check or uncheck a description bullet
// @Tags Description bullets
// @Accept json
// @Produce json
// @Param request body dto.CheckDescriptionBullet true "bullet to toggle"
// @Success 200 {object} dto.DescriptionBullet
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /description-bullets/check [post]
func (h *APIHandler) CheckDescriptionBullet(c *gin.Context) {
	var req dto.CheckDescriptionBullet
	if !h.bindJSON(c, &req) {
		return
	}

	bullet, err := h.Service.CheckDescriptionBullet(c.Request.Context(), req.UserID, req.DescriptionID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.DescriptionBullet(*bullet))
}
