package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lookbook-app/lookbook/internal/feed"
	"github.com/lookbook-app/lookbook/pkg/logging"
)

// viewerHeader identifies the requesting user. Authentication itself lives in
// the identity provider upstream of this service.
const viewerHeader = "X-Lookbook-Viewer"

// Router sets up API routes
type Router struct {
	sessions *feed.SessionManager
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(sessions *feed.SessionManager) *Router {
	return &Router{
		sessions: sessions,
		logger:   logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	v1 := engine.Group("/v1")
	v1.GET("/feed", r.loadFeed)
	v1.POST("/posts/:id/like", r.toggleLike)
	v1.POST("/posts/:id/save", r.toggleSave)
	v1.POST("/personalize/refresh", r.refreshPersonalization)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "lookbook-api",
	})
}

// loadFeed handles GET /v1/feed?mode=&q=
func (r *Router) loadFeed(c *gin.Context) {
	viewerID, ok := r.viewerID(c)
	if !ok {
		return
	}

	mode, err := feed.ParseMode(c.Query("mode"))
	if err != nil {
		r.sendError(c, NewError(http.StatusBadRequest, err.Error()))
		return
	}

	session := r.sessions.Session(viewerID)
	view, err := session.Load(c.Request.Context(), mode, c.Query("q"))
	if err != nil {
		if errors.Is(err, feed.ErrSuperseded) {
			// A newer load owns the visible state; this result is dropped.
			r.sendError(c, NewError(http.StatusConflict, "superseded by a newer feed request"))
			return
		}
		r.logger.Error("Feed load failed", zap.Int64("viewer_id", viewerID), zap.Error(err))
		r.sendError(c, NewError(http.StatusBadGateway, "failed to load feed, please retry"))
		return
	}

	c.JSON(http.StatusOK, view)
}

// toggleLike handles POST /v1/posts/:id/like
func (r *Router) toggleLike(c *gin.Context) {
	viewerID, ok := r.viewerID(c)
	if !ok {
		return
	}
	postID, ok := r.postID(c)
	if !ok {
		return
	}

	session := r.sessions.Session(viewerID)
	liked, err := session.ToggleLike(c.Request.Context(), postID)
	if err != nil {
		r.logger.Error("Like toggle failed", zap.Int64("post_id", postID), zap.Error(err))
		r.sendError(c, NewError(http.StatusBadGateway, "failed to toggle like"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"post_id": postID, "has_liked": liked})
}

// toggleSave handles POST /v1/posts/:id/save
func (r *Router) toggleSave(c *gin.Context) {
	viewerID, ok := r.viewerID(c)
	if !ok {
		return
	}
	postID, ok := r.postID(c)
	if !ok {
		return
	}

	session := r.sessions.Session(viewerID)
	saved, err := session.ToggleSave(c.Request.Context(), postID)
	if err != nil {
		r.logger.Error("Save toggle failed", zap.Int64("post_id", postID), zap.Error(err))
		r.sendError(c, NewError(http.StatusBadGateway, "failed to toggle save"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"post_id": postID, "has_saved": saved})
}

// refreshPersonalization handles POST /v1/personalize/refresh
func (r *Router) refreshPersonalization(c *gin.Context) {
	viewerID, ok := r.viewerID(c)
	if !ok {
		return
	}

	session := r.sessions.Session(viewerID)
	count, err := session.RefreshPersonalization(c.Request.Context())
	if err != nil {
		r.logger.Error("Personalization refresh failed", zap.Int64("viewer_id", viewerID), zap.Error(err))
		r.sendError(c, NewError(http.StatusBadGateway, "styling service unavailable"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": count})
}

func (r *Router) viewerID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(viewerHeader)
	if raw == "" {
		r.sendError(c, NewError(http.StatusBadRequest, "missing "+viewerHeader+" header"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		r.sendError(c, NewError(http.StatusBadRequest, "invalid viewer id"))
		return 0, false
	}
	return id, true
}

func (r *Router) postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		r.sendError(c, NewError(http.StatusBadRequest, "invalid post id"))
		return 0, false
	}
	return id, true
}

func (r *Router) sendError(c *gin.Context, apiErr *Error) {
	c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
}
