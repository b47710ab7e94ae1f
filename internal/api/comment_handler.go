package api

import (
	"net/http"

	"github.com/convention-api/internal/config"
	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// GetComment handles GET /api/comment/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.services.Comment.GetComment(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CreateComment handles POST /api/comment
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content and owner_id are required"})
		return
	}

	id, err := h.services.Comment.CreateComment(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// RelinkComment handles PUT /api/comment?id=&owner=&previous=&next=
func (h *CommentHandler) RelinkComment(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	ownerID, ok := queryInt64Ptr(c, "owner")
	if !ok {
		return
	}
	previousID, ok := queryInt64Ptr(c, "previous")
	if !ok {
		return
	}
	nextID, ok := queryInt64Ptr(c, "next")
	if !ok {
		return
	}

	updatedID, err := h.services.Comment.RelinkComment(c.Request.Context(), id, ownerID, previousID, nextID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": updatedID})
}

// DeleteComment handles DELETE /api/comment?id=
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.services.Comment.SoftDeleteComment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"deleted": true})
}

// PageComments handles GET /api/comment
func (h *CommentHandler) PageComments(c *gin.Context) {
	p, ok := pageRequest(c, h.cfg.Paging.DefaultPageSize, h.cfg.Paging.MaxPageSize)
	if !ok {
		return
	}

	views, err := h.services.Comment.PageComments(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// RetrieveComments handles PUT /api/comment/retrieve. With an id parameter
// it retrieves one comment; without, every deleted comment.
func (h *CommentHandler) RetrieveComments(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("id"); raw != "" {
		id, ok := queryID(c)
		if !ok {
			return
		}
		if err := h.services.Comment.RetrieveComment(ctx, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
		return
	}

	if err := h.services.Comment.RetrieveAllComments(ctx); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
