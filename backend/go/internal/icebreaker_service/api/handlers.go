package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"IceBreaker/backend/go/internal/icebreaker_service/service"
	"IceBreaker/backend/go/internal/models"
	"IceBreaker/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
)

// IceBreaker is the pipeline the handlers drive.
type IceBreaker interface {
	IceBreakWith(ctx context.Context, name string) (*models.IceBreakResult, error)
}

// API provides handlers for the ice breaker service.
type API struct {
	service IceBreaker
	logger  *logger.Logger
	title   string
}

// NewAPI creates a new API handler.
func NewAPI(svc IceBreaker, log *logger.Logger) *API {
	if log == nil {
		log = logger.Nop()
	}
	return &API{service: svc, logger: log, title: "Ice Breaker"}
}

// ProcessResponse is the body returned by POST /process.
type ProcessResponse struct {
	SummaryAndFacts map[string]any `json:"summary_and_facts"`
	Interests       map[string]any `json:"interests"`
	IceBreakers     map[string]any `json:"ice_breakers"`
	PictureURL      *string        `json:"picture_url"`
}

// NewProcessResponse converts a pipeline result into its JSON shape.
func NewProcessResponse(res *models.IceBreakResult) ProcessResponse {
	return ProcessResponse{
		SummaryAndFacts: res.Summary.ToMap(),
		Interests:       res.Interests.ToMap(),
		IceBreakers:     res.IceBreakers.ToMap(),
		PictureURL:      res.PictureURL,
	}
}

// IndexHandler renders the search form.
func (a *API) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"title": a.title})
}

// ProcessHandler runs the pipeline for the submitted name.
func (a *API) ProcessHandler(c *gin.Context) {
	name, _ := c.GetPostForm("name")
	name = strings.TrimSpace(name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "form field 'name' is required"})
		return
	}

	res, err := a.service.IceBreakWith(c.Request.Context(), name)
	if err != nil {
		// The service layer already logged the detailed error; the caller only gets its kind.
		body := gin.H{"error": PublicMessage(err)}
		if stage, ok := service.StageOf(err); ok {
			body["stage"] = string(stage)
		}
		c.JSON(StatusFor(err), body)
		return
	}

	c.JSON(http.StatusOK, NewProcessResponse(res))
}

// HealthHandler reports liveness.
func (a *API) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PublicMessage is the fixed text returned to callers for err's kind. Upstream
// error text can carry request details and is never echoed back.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		return models.ErrBadRequest.Error()
	case errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound.Error()
	case errors.Is(err, models.ErrUnavailable):
		return models.ErrUnavailable.Error()
	case errors.Is(err, models.ErrParse):
		return models.ErrParse.Error()
	case errors.Is(err, models.ErrUpstream):
		return models.ErrUpstream.Error()
	default:
		return "internal error"
	}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrUpstream), errors.Is(err, models.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
