package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finishline/internal/app/changerequest"
	"finishline/internal/app/config"
	"finishline/internal/app/ds"
	"finishline/internal/app/dto"
	"finishline/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Service is the change request and work package logic the handlers drive.
type Service interface {
	Now() time.Time

	ListChangeRequests(ctx context.Context) ([]ds.ChangeRequest, error)
	GetChangeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error)
	CreateActivation(ctx context.Context, in changerequest.ActivationInput) (uint, error)
	CreateStageGate(ctx context.Context, in changerequest.StageGateInput) (uint, error)
	CreateStandard(ctx context.Context, in changerequest.StandardInput) (uint, error)
	Review(ctx context.Context, in changerequest.ReviewInput) error
	AddProposedSolution(ctx context.Context, in changerequest.ProposedSolutionInput) (uint, error)

	ListWorkPackages(ctx context.Context) ([]ds.WorkPackage, error)
	GetWorkPackage(ctx context.Context, n ds.WBSNumber) (*ds.WorkPackage, error)
	EditWorkPackage(ctx context.Context, in changerequest.WorkPackageEdit) error

	ListProjects(ctx context.Context) ([]ds.Project, error)
	GetProject(ctx context.Context, n ds.WBSNumber) (*ds.Project, error)
	CreateProject(ctx context.Context, in changerequest.ProjectCreate) (ds.WBSNumber, error)
	EditProject(ctx context.Context, in changerequest.ProjectEdit) error

	CheckDescriptionBullet(ctx context.Context, userID, descriptionID uint) (*ds.DescriptionBullet, error)
}

type Users interface {
	GetUser(ctx context.Context, id uint) (*ds.User, error)
	ListUsers(ctx context.Context) ([]ds.User, error)
}

type TokenBlacklist interface {
	WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error
}

// APIHandler holds the REST handlers.
type APIHandler struct {
	Service   Service
	Users     Users
	Auth      *middleware.AuthMiddleware
	Blacklist TokenBlacklist
	Config    *config.Config
}

// NewAPIHandler wires the handlers. blacklist may be nil when redis is disabled.
func NewAPIHandler(service Service, users Users, auth *middleware.AuthMiddleware, blacklist TokenBlacklist, cfg *config.Config) *APIHandler {
	registerValidators()
	return &APIHandler{
		Service:   service,
		Users:     users,
		Auth:      auth,
		Blacklist: blacklist,
		Config:    cfg,
	}
}

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// serviceError turns a service failure into a response. Internal errors are
// logged and hidden behind a generic message.
func (h *APIHandler) serviceError(c *gin.Context, err error) {
	var domainErr *changerequest.Error
	if errors.As(err, &domainErr) {
		h.errorResponse(c, statusFor(domainErr.Kind), domainErr.Message)
		return
	}

	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"route":  c.FullPath(),
	}).WithError(err).Error("request failed")
	h.errorResponse(c, http.StatusInternalServerError, "internal server error")
}

func statusFor(kind changerequest.Kind) int {
	switch kind {
	case changerequest.KindValidation, changerequest.KindStateConflict:
		return http.StatusBadRequest
	case changerequest.KindNotFound:
		return http.StatusNotFound
	case changerequest.KindForbidden:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Welcome
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {string} string
// @Router / [get]
func (h *APIHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, "Welcome to FinishLine")
}
