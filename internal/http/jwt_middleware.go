package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kidsflow/internal/domain"
	"kidsflow/internal/service"
)

const authSessionKey = "auth_session"

// JWTAuthMiddleware valida el bearer token y guarda la sesión en el contexto.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authSessionKey, claims.Session(token))
		c.Next()
	}
}

// GetSession obtiene la sesión autenticada desde el contexto.
func GetSession(c *gin.Context) (domain.Session, bool) {
	val, ok := c.Get(authSessionKey)
	if !ok {
		return domain.Session{}, false
	}
	sess, ok := val.(domain.Session)
	return sess, ok
}

// mustSession responde 401 si el request no pasó por el middleware.
func mustSession(c *gin.Context) (domain.Session, bool) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return domain.Session{}, false
	}
	return sess, true
}
