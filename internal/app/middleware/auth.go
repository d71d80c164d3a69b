package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finishline/internal/app/config"
	"finishline/internal/app/ds"
	"finishline/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
)

const TokenCookie = "token"

type Blacklist interface {
	IsJWTBlacklisted(ctx context.Context, jwtStr string) (bool, error)
}

type AuthMiddleware struct {
	Blacklist Blacklist
	Config    *config.Config
}

// NewAuthMiddleware builds the middleware. blacklist may be nil when redis is not configured.
func NewAuthMiddleware(blacklist Blacklist, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		Blacklist: blacklist,
		Config:    cfg,
	}
}

// RequireAuth verifies the token cookie in prod and trusts the Authorization
// header as a user id in dev.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	if am.Config.IsProd() {
		return am.requireJWTProd
	}
	return am.requireJWTDev
}

func (am *AuthMiddleware) requireJWTProd(c *gin.Context) {
	if c.Request.Method == http.MethodOptions || isPublicPath(c.Request.URL.Path, "/users/auth/login") {
		c.Next()
		return
	}

	tokenStr, err := c.Cookie(TokenCookie)
	if err != nil || tokenStr == "" {
		abortUnauthorized(c, "Authentication Failed: Cookie not found!")
		return
	}

	if am.Blacklist != nil {
		listed, err := am.Blacklist.IsJWTBlacklisted(c.Request.Context(), tokenStr)
		if err != nil {
			log.WithError(err).Error("jwt blacklist lookup failed")
			abortUnauthorized(c, "Authentication Failed: Invalid JWT!")
			return
		}
		if listed {
			abortUnauthorized(c, "Authentication Failed: Invalid JWT!")
			return
		}
	}

	claims, err := am.ParseToken(tokenStr)
	if err != nil {
		abortUnauthorized(c, "Authentication Failed: Invalid JWT!")
		return
	}

	setCurrentUser(c, claims.UserID)
	c.Set(tokenKey, tokenStr)
	c.Next()
}

func (am *AuthMiddleware) requireJWTDev(c *gin.Context) {
	if c.Request.Method == http.MethodOptions || isPublicPath(c.Request.URL.Path, "/users/auth/login/dev", "/users") {
		c.Next()
		return
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		abortUnauthorized(c, "Authentication Failed: Not logged in (dev)!")
		return
	}
	id, err := strconv.ParseUint(header, 10, 32)
	if err != nil {
		abortUnauthorized(c, "Authentication Failed: Not logged in (dev)!")
		return
	}

	setCurrentUser(c, uint(id))
	c.Next()
}

// ParseToken validates a signed token and returns its claims.
func (am *AuthMiddleware) ParseToken(tokenStr string) (*ds.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != am.Config.JWT.SigningMethod {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(am.Config.JWT.Token), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// GenerateAccessToken signs a token for userID valid for cfg.ExpiresIn.
func GenerateAccessToken(cfg config.JWTConfig, userID uint, now time.Time) (string, error) {
	claims := &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(cfg.ExpiresIn).Unix(),
			Issuer:    "finishline",
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(cfg.SigningMethod, claims).SignedString([]byte(cfg.Token))
}

func isPublicPath(path string, extra ...string) bool {
	if path == "/" || path == "/metrics" {
		return true
	}
	for _, p := range extra {
		if path == p {
			return true
		}
	}
	return false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}
