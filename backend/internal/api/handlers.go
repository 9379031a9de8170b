package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lingograph/backend/internal/catalog"
	"lingograph/backend/internal/recommend"
	apperrors "lingograph/backend/pkg/errors"
	"lingograph/backend/pkg/logger"
)

// RecommendationEngine is the engine surface the routes depend on.
// Declared here so handlers can be exercised against fakes.
type RecommendationEngine interface {
	Struggles(ctx context.Context, userID string) ([]recommend.StruggleRecord, error)
	Similar(ctx context.Context, userID string) ([]recommend.SimilarityRecord, error)
	Collaborative(ctx context.Context, userID string) ([]recommend.CollaborativeRecord, error)
	Social(ctx context.Context, userID string) ([]recommend.SocialRecord, error)
	Network(ctx context.Context, userID string) ([]recommend.NetworkPeer, error)
}

// CatalogService is the data-endpoint surface the routes depend on
type CatalogService interface {
	GetUser(ctx context.Context, userID string) (*catalog.UserProfile, error)
	ListUsers(ctx context.Context) ([]catalog.UserSummary, error)
	ListCourses(ctx context.Context) ([]catalog.CourseSummary, error)
	CourseLessons(ctx context.Context, courseID string) ([]catalog.LessonDetail, error)
	GetStats(ctx context.Context) (*catalog.Stats, error)
}

// Handler wires the engine and catalog services to gin routes
type Handler struct {
	engine  RecommendationEngine
	catalog CatalogService
	log     *zap.Logger
}

// NewHandler creates the API handler set
func NewHandler(engine RecommendationEngine, cat CatalogService) *Handler {
	return &Handler{
		engine:  engine,
		catalog: cat,
		log:     logger.Get(),
	}
}

// recommendationEnvelope is the response contract for the four strategies
type recommendationEnvelope struct {
	Success     bool   `json:"success"`
	UserID      string `json:"userId"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Data        any    `json:"data"`
}

func (h *Handler) handleStruggles(c *gin.Context) {
	userID := c.Param("userId")
	data, err := h.engine.Struggles(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "struggle recommendations", err)
		return
	}
	c.JSON(http.StatusOK, recommendationEnvelope{
		Success:     true,
		UserID:      userID,
		Type:        "struggles",
		Description: "Lessons recommended to reinforce struggled skills",
		Data:        data,
	})
}

func (h *Handler) handleSimilar(c *gin.Context) {
	userID := c.Param("userId")
	data, err := h.engine.Similar(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "similarity recommendations", err)
		return
	}
	c.JSON(http.StatusOK, recommendationEnvelope{
		Success:     true,
		UserID:      userID,
		Type:        "similar_content",
		Description: "Lessons similar to the most recently completed one",
		Data:        data,
	})
}

func (h *Handler) handleCollaborative(c *gin.Context) {
	userID := c.Param("userId")
	data, err := h.engine.Collaborative(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "collaborative recommendations", err)
		return
	}
	c.JSON(http.StatusOK, recommendationEnvelope{
		Success:     true,
		UserID:      userID,
		Type:        "collaborative",
		Description: "Lessons that helped users with similar struggles",
		Data:        data,
	})
}

func (h *Handler) handleSocial(c *gin.Context) {
	userID := c.Param("userId")
	data, err := h.engine.Social(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "social recommendations", err)
		return
	}
	c.JSON(http.StatusOK, recommendationEnvelope{
		Success:     true,
		UserID:      userID,
		Type:        "social",
		Description: "Lessons your friends have completed",
		Data:        data,
	})
}

func (h *Handler) handleNetwork(c *gin.Context) {
	userID := c.Param("userId")
	data, err := h.engine.Network(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "network traversal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  userID,
		"data":    data,
	})
}

func (h *Handler) handleGetUser(c *gin.Context) {
	userID := c.Param("userId")
	profile, err := h.catalog.GetUser(c.Request.Context(), userID)
	if err != nil {
		var notFound *apperrors.ErrGraphUserNotFound
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}
		h.fail(c, "user profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

func (h *Handler) handleListUsers(c *gin.Context) {
	users, err := h.catalog.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, "user listing", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

func (h *Handler) handleListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		h.fail(c, "course listing", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": courses})
}

func (h *Handler) handleCourseLessons(c *gin.Context) {
	courseID := c.Param("courseId")
	lessons, err := h.catalog.CourseLessons(c.Request.Context(), courseID)
	if err != nil {
		h.fail(c, "course lessons", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"courseId": courseID,
		"count":    len(lessons),
		"data":     lessons,
	})
}

func (h *Handler) handleStats(c *gin.Context) {
	stats, err := h.catalog.GetStats(c.Request.Context())
	if err != nil {
		h.fail(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "lingograph recommendation engine",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// fail reports a query failure once; these are idempotent reads, retrying
// here would only mask a backend outage from the caller.
func (h *Handler) fail(c *gin.Context, operation string, err error) {
	h.log.Error("request failed",
		zap.String("operation", operation),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
