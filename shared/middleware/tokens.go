package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/utils"
)

const (
	claimsKey = "userClaims"

	LoginRequiredMessage = "Please log in to access the application features."
)

// UserChecker confirms that the user a token was issued to still exists.
type UserChecker interface {
	UserExists(ctx context.Context, id uint) (bool, error)
}

func AuthMiddleware(issuer *utils.TokenIssuer, users UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing Authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			abortUnauthorized(c, "invalid Authorization header format")
			return
		}

		claims, err := issuer.ParseJWT(tokenStr)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		exists, err := users.UserExists(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				utils.APIResponse(true, "failed to verify session", nil, http.StatusInternalServerError))
			return
		}
		if !exists {
			abortUnauthorized(c, "user not found")
			return
		}

		// Attach claims to context
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// UserClaims returns the claims AuthMiddleware attached to the request.
func UserClaims(c *gin.Context) (*utils.JWTClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.JWTClaims)
	return claims, ok
}

func abortUnauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		utils.APIResponse(true, LoginRequiredMessage, gin.H{"reason": reason}, http.StatusUnauthorized))
}
