package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"finishline/internal/app/changerequest"
	"finishline/internal/app/converter"
	"finishline/internal/app/ds"
	"finishline/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// GetChangeRequests
// @Summary List change requests
// @Tags Change requests
// @Produce json
// @Success 200 {array} dto.ChangeRequest
// @Failure 500 {object} dto.ErrorResponse
// @Router /change-requests [get]
func (h *APIHandler) GetChangeRequests(c *gin.Context) {
	crs, err := h.Service.ListChangeRequests(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	out := make([]dto.ChangeRequest, 0, len(crs))
	for _, cr := range crs {
		out = append(out, converter.ChangeRequest(cr))
	}
	c.JSON(http.StatusOK, out)
}

// GetChangeRequest
// @Summary Get a change request
// @Tags Change requests
// @Produce json
// @Param crId path int true "change request id"
// @Success 200 {object} dto.ChangeRequest
// @Failure 404 {object} dto.ErrorResponse
// @Router /change-requests/{crId} [get]
func (h *APIHandler) GetChangeRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("crId"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusNotFound, fmt.Sprintf("change request with id #%s not found", c.Param("crId")))
		return
	}

	cr, err := h.Service.GetChangeRequest(c.Request.Context(), uint(id))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.ChangeRequest(*cr))
}

// ReviewChangeRequest
// @Summary Accept or deny a change request
// @Tags Change requests
// @Accept json
// @Produce json
// @Param request body dto.ReviewChangeRequest true "review"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /change-requests/review [post]
func (h *APIHandler) ReviewChangeRequest(c *gin.Context) {
	var req dto.ReviewChangeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.Service.Review(c.Request.Context(), changerequest.ReviewInput{
		ReviewerID: req.ReviewerID,
		CRID:       req.CRID,
		Accepted:   *req.Accepted,
		Notes:      req.ReviewNotes,
		PSID:       req.PSID,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, fmt.Sprintf("Change request #%d successfully reviewed.", req.CRID), nil)
}

// CreateActivationChangeRequest
// @Summary Request activation of a WBS element
// @Tags Change requests
// @Accept json
// @Produce json
// @Param request body dto.CreateActivationChangeRequest true "activation request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /change-requests/new/activation [post]
func (h *APIHandler) CreateActivationChangeRequest(c *gin.Context) {
	var req dto.CreateActivationChangeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	id, err := h.Service.CreateActivation(c.Request.Context(), changerequest.ActivationInput{
		SubmitterID:      req.SubmitterID,
		WBSNum:           converter.WBSNumber(*req.WBSNum),
		ProjectLeadID:    req.ProjectLeadID,
		ProjectManagerID: req.ProjectManagerID,
		StartDate:        req.StartDate,
		ConfirmDetails:   req.ConfirmDetails,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, fmt.Sprintf("Successfully created activation change request #%d.", id), gin.H{"crId": id})
}

// CreateStageGateChangeRequest
// @Summary Request stage gating of a WBS element
// @Tags Change requests
// @Accept json
// @Produce json
// @Param request body dto.CreateStageGateChangeRequest true "stage gate request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /change-requests/new/stage-gate [post]
func (h *APIHandler) CreateStageGateChangeRequest(c *gin.Context) {
	var req dto.CreateStageGateChangeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	id, err := h.Service.CreateStageGate(c.Request.Context(), changerequest.StageGateInput{
		SubmitterID:    req.SubmitterID,
		WBSNum:         converter.WBSNumber(*req.WBSNum),
		LeftoverBudget: req.LeftoverBudget,
		ConfirmDone:    req.ConfirmDone,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, fmt.Sprintf("Successfully created stage gate change request #%d.", id), gin.H{"crId": id})
}

// CreateStandardChangeRequest
// @Summary Request a scope change
// @Tags Change requests
// @Accept json
// @Produce json
// @Param request body dto.CreateStandardChangeRequest true "standard request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /change-requests/new/standard [post]
func (h *APIHandler) CreateStandardChangeRequest(c *gin.Context) {
	var req dto.CreateStandardChangeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	why := make([]changerequest.Why, 0, len(req.Why))
	for _, w := range req.Why {
		why = append(why, changerequest.Why{Type: w.Type, Explain: w.Explain})
	}

	id, err := h.Service.CreateStandard(c.Request.Context(), changerequest.StandardInput{
		SubmitterID:    req.SubmitterID,
		WBSNum:         converter.WBSNumber(*req.WBSNum),
		Type:           ds.CRType(req.Type),
		What:           req.What,
		Why:            why,
		ScopeImpact:    req.ScopeImpact,
		TimelineImpact: req.TimelineImpact,
		BudgetImpact:   req.BudgetImpact,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, fmt.Sprintf("Successfully created standard change request #%d.", id), gin.H{"crId": id})
}

// AddProposedSolution
// @Summary Propose a solution for a standard change request
// @Tags Change requests
// @Accept json
// @Produce json
// @Param request body dto.AddProposedSolution true "proposed solution"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /change-requests/new/proposed-solution [post]
func (h *APIHandler) AddProposedSolution(c *gin.Context) {
	var req dto.AddProposedSolution
	if !h.bindJSON(c, &req) {
		return
	}

	id, err := h.Service.AddProposedSolution(c.Request.Context(), changerequest.ProposedSolutionInput{
		SubmitterID:    req.SubmitterID,
		CRID:           req.CRID,
		Description:    req.Description,
		ScopeImpact:    req.ScopeImpact,
		TimelineImpact: req.TimelineImpact,
		BudgetImpact:   req.BudgetImpact,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	h.successResponse(c, http.StatusOK, fmt.Sprintf("Successfully created the proposed solution #%d", id), gin.H{"id": id})
}
