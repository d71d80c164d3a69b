package handler

import (
	"errors"
	"net/http"
	"time"

	"finishline/internal/app/converter"
	"finishline/internal/app/dto"
	"finishline/internal/app/middleware"
	"finishline/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetUsers
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} dto.User
// @Router /users [get]
func (h *APIHandler) GetUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	out := make([]dto.User, 0, len(users))
	for _, u := range users {
		out = append(out, converter.User(u))
	}
	c.JSON(http.StatusOK, out)
}

// DevLogin issues a session cookie for any existing user. Only routed in dev mode.
// @Summary Log in as a user (dev)
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.DevLogin true "user to impersonate"
// @Success 200 {object} dto.User
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/auth/login/dev [post]
func (h *APIHandler) DevLogin(c *gin.Context) {
	var req dto.DevLogin
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.Users.GetUser(c.Request.Context(), req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		h.errorResponse(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.serviceError(c, err)
		return
	}

	token, err := middleware.GenerateAccessToken(h.Config.JWT, user.UserID, time.Now())
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.SetCookie(middleware.TokenCookie, token, int(h.Config.JWT.ExpiresIn.Seconds()), "/", "", h.Config.IsProd(), true)
	c.JSON(http.StatusOK, converter.User(*user))
}

// LogoutUser
// @Summary Log out
// @Description Blacklists the session token until it expires and clears the cookie
// @Tags Users
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/auth/logout [post]
func (h *APIHandler) LogoutUser(c *gin.Context) {
	tokenStr, ok := middleware.CurrentToken(c)
	if ok && h.Blacklist != nil {
		claims, err := h.Auth.ParseToken(tokenStr)
		if err != nil {
			h.errorResponse(c, http.StatusUnauthorized, "Authentication Failed: Invalid JWT!")
			return
		}

		ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
		if ttl > 0 {
			if err := h.Blacklist.WriteJWTToBlacklist(c.Request.Context(), tokenStr, ttl); err != nil {
				h.serviceError(c, err)
				return
			}
		}
		logrus.WithField("user_id", claims.UserID).Info("user logged out")
	}

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.Config.IsProd(), true)
	h.successResponse(c, http.StatusOK, "Logged out", nil)
}
