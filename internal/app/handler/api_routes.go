package handler

import (
	"finishline/internal/app/metrics"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes mounts every route. Authentication is applied by the
// middleware installed on the engine.
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine) {
	router.GET("/", h.Welcome)
	router.GET("/metrics", metrics.Handler())

	crs := router.Group("/change-requests")
	{
		crs.GET("", h.GetChangeRequests)
		crs.GET("/:crId", h.GetChangeRequest)
		crs.POST("/review", h.ReviewChangeRequest)
		crs.POST("/new/activation", h.CreateActivationChangeRequest)
		crs.POST("/new/stage-gate", h.CreateStageGateChangeRequest)
		crs.POST("/new/standard", h.CreateStandardChangeRequest)
		crs.POST("/new/proposed-solution", h.AddProposedSolution)
	}

	wps := router.Group("/work-packages")
	{
		wps.GET("", h.GetWorkPackages)
		wps.GET("/:wbsNum", h.GetWorkPackage)
		wps.POST("/edit", h.EditWorkPackage)
	}

	projects := router.Group("/projects")
	{
		projects.GET("", h.GetProjects)
		projects.GET("/:wbsNum", h.GetProject)
		projects.POST("/new", h.CreateProject)
		projects.POST("/edit", h.EditProject)
	}

	router.POST("/description-bullets/check", h.CheckDescriptionBullet)

	users := router.Group("/users")
	{
		users.GET("", h.GetUsers)
		users.POST("/auth/logout", h.LogoutUser)
		if !h.Config.IsProd() {
			users.POST("/auth/login/dev", h.DevLogin)
		}
	}
}
