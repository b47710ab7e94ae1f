package api

import (
	"net/http"

	"github.com/convention-api/internal/config"
	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AccountHandler handles account endpoints
type AccountHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "account").Logger(),
	}
}

// GetAccount handles GET /api/account/:id
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := commentLimit(c, h.cfg.Paging.CommentLimit)
	if !ok {
		return
	}

	view, err := h.services.Account.GetAccount(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CreateAccount handles POST /api/account
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and username are required"})
		return
	}

	id, err := h.services.Account.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateAccount handles PUT /api/account?id=&username=&email=
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	username := queryStringPtr(c, "username")
	email := queryStringPtr(c, "email")

	updatedID, err := h.services.Account.UpdateUsernameEmail(c.Request.Context(), id, username, email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": updatedID})
}

// DeleteAccount handles DELETE /api/account?id=
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	if err := h.services.Account.SoftDeleteAccount(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"deleted": true})
}

// PageAccounts handles GET /api/account
func (h *AccountHandler) PageAccounts(c *gin.Context) {
	p, ok := pageRequest(c, h.cfg.Paging.DefaultPageSize, h.cfg.Paging.MaxPageSize)
	if !ok {
		return
	}
	limit, ok := commentLimit(c, h.cfg.Paging.CommentLimit)
	if !ok {
		return
	}

	views, err := h.services.Account.PageAccounts(c.Request.Context(), p, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// RetrieveAccounts handles PUT /api/account/retrieve. With an id parameter
// it retrieves one account; without, every deleted account.
func (h *AccountHandler) RetrieveAccounts(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("id"); raw != "" {
		id, ok := queryID(c)
		if !ok {
			return
		}
		if err := h.services.Account.RetrieveAccount(ctx, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
		return
	}

	if err := h.services.Account.RetrieveAllAccounts(ctx); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
