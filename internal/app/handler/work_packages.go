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

// GetWorkPackages
// @Summary List work packages
// @Tags Work packages
// @Produce json
// @Success 200 {array} dto.WorkPackage
// @Router /work-packages [get]
func (h *APIHandler) GetWorkPackages(c *gin.Context) {
	wps, err := h.Service.ListWorkPackages(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	now := h.Service.Now()
	out := make([]dto.WorkPackage, 0, len(wps))
	for _, wp := range wps {
		out = append(out, converter.WorkPackage(wp, now))
	}
	c.JSON(http.StatusOK, out)
}

// GetWorkPackage
// @Summary Get a work package by wbs number
// @Tags Work packages
// @Produce json
// @Param wbsNum path string true "wbs number, e.g. 1.2.3"
// @Success 200 {object} dto.WorkPackage
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-packages/{wbsNum} [get]
func (h *APIHandler) GetWorkPackage(c *gin.Context) {
	n, err := ds.ParseWBSNumber(c.Param("wbsNum"))
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	wp, err := h.Service.GetWorkPackage(c.Request.Context(), n)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.WorkPackage(*wp, h.Service.Now()))
}

// EditWorkPackage
// @Summary Edit a work package under an accepted change request
// @Tags Work packages
// @Accept json
// @Produce json
// @Param request body dto.EditWorkPackage true "desired work package state"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /work-packages/edit [post]
func (h *APIHandler) EditWorkPackage(c *gin.Context) {
	var req dto.EditWorkPackage
	if !h.bindJSON(c, &req) {
		return
	}

	deps := make([]ds.WBSNumber, 0, len(req.Dependencies))
	for _, d := range req.Dependencies {
		deps = append(deps, converter.WBSNumber(d))
	}

	err := h.Service.EditWorkPackage(c.Request.Context(), changerequest.WorkPackageEdit{
		UserID:             req.UserID,
		WorkPackageID:      req.WorkPackageID,
		CRID:               req.CRID,
		Name:               req.Name,
		StartDate:          req.StartDate,
		Duration:           req.Duration,
		Dependencies:       deps,
		ExpectedActivities: bulletInputs(req.ExpectedActivities),
		Deliverables:       bulletInputs(req.Deliverables),
		Status:             ds.WBSStatus(req.WBSElementStatus),
		ProjectLeadID:      req.ProjectLead,
		ProjectManagerID:   req.ProjectManager,
		Progress:           req.Progress,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, "Work package updated successfully", nil)
}

func bulletInputs(in []dto.BulletInput) []changes.Bullet {
	out := make([]changes.Bullet, 0, len(in))
	for _, b := range in {
		out = append(out, changes.Bullet{ID: b.ID, Detail: b.Detail})
	}
	return out
}
