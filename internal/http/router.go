package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kidsflow/internal/service"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	catalogH *CatalogHandler,
	workflowH *WorkflowHandler,
	profileH *ProfileHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, recovery y JSON content-type.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cat := r.Group("/catalog")
	cat.GET("/age-groups", catalogH.AgeGroups)
	cat.GET("/classify", catalogH.Classify)
	cat.GET("/modes", catalogH.Modes)
	cat.GET("/features", catalogH.Features)
	cat.POST("/validate", catalogH.Validate)

	authed := r.Group("", JWTAuthMiddleware(jwtSvc))

	wf := authed.Group("/workflow")
	wf.GET("/state", workflowH.State)
	wf.GET("/steps", workflowH.Steps)
	wf.GET("/steps/:step", workflowH.Step)

	profiles := authed.Group("/child-profiles")
	profiles.GET("", profileH.List)
	profiles.POST("", profileH.Create)
	profiles.PUT("/:id", profileH.Update)
	profiles.DELETE("/:id", profileH.Delete)

	me := authed.Group("/me")
	me.PUT("/selected-child", profileH.SelectChild)
	me.GET("/child-profile", profileH.ActingProfile)
	me.GET("/capabilities", profileH.Capabilities)
	me.GET("/suggestions", profileH.Suggestions)

	authed.POST("/auth/logout", profileH.Logout)

	return r
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDHeader)),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
