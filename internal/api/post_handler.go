package api

import (
	"net/http"

	"github.com/convention-api/internal/config"
	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PostHandler handles post endpoints
type PostHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// PagePosts handles GET /posts with optional userId, title and topicId
// filters.
func (h *PostHandler) PagePosts(c *gin.Context) {
	p, ok := pageRequest(c, h.cfg.Paging.PostPageSize, h.cfg.Paging.MaxPageSize)
	if !ok {
		return
	}
	userID, ok := queryInt64Ptr(c, "userId")
	if !ok {
		return
	}
	topicID, ok := queryInt64Ptr(c, "topicId")
	if !ok {
		return
	}
	title := c.Query("title")

	views, err := h.services.Post.PagePosts(c.Request.Context(), p, userID, title, topicID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and body are required"})
		return
	}

	id, err := h.services.Post.CreatePost(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdatePost handles PUT /posts?id=
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req models.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and body are required"})
		return
	}

	view, err := h.services.Post.UpdatePost(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeletePost handles DELETE /posts?id=
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.services.Post.SoftDeletePost(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"deleted": true})
}

// RetrievePosts handles PUT /posts/retrieve. With an id parameter it
// retrieves one post; without, every deleted post.
func (h *PostHandler) RetrievePosts(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("id"); raw != "" {
		id, ok := queryID(c)
		if !ok {
			return
		}
		if err := h.services.Post.RetrievePost(ctx, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
		return
	}

	if err := h.services.Post.RetrieveAllPosts(ctx); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
