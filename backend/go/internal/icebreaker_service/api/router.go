package api

import (
	"embed"
	"html/template"
	"time"

	"IceBreaker/backend/go/internal/models"
	"IceBreaker/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templatesFS embed.FS

// RequestIDHeader carries the trace id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger stamps each request with a trace id, stores a request-scoped
// logger in the request context and logs the outcome.
func RequestLogger(base *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Header(RequestIDHeader, traceID)

		reqLogger := base.WithTrace(traceID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()

		info := models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     c.Writer.Status(),
			LatencyMs:  time.Since(start).Milliseconds(),
		}
		if info.Status >= 500 {
			reqLogger.WithRequest(info).Warn("Request failed")
			return
		}
		reqLogger.WithRequest(info).Info("Request handled")
	}
}

// SetupRouter registers all the routes for the ice breaker service.
func SetupRouter(api *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(api.logger))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.GET("/", api.IndexHandler)
	router.POST("/process", api.ProcessHandler)
	router.GET("/healthz", api.HealthHandler)
	return router
}
