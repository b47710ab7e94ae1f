package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/convention-api/internal/models"
	"github.com/convention-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// writeError maps a domain error to its HTTP response. Operational store
// failures were already logged where they happened; here they surface as an
// opaque 500.
func writeError(c *gin.Context, err error) {
	var (
		notFound      *models.NotFoundError
		duplicate     *models.DuplicateEntityError
		invalidChain  *models.InvalidChainStateError
		contentPolicy *models.ContentPolicyError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": duplicate.Error(), "field": duplicate.Field})
	case errors.As(err, &invalidChain):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalidChain.Error()})
	case errors.As(err, &contentPolicy):
		c.JSON(http.StatusBadRequest, gin.H{"error": contentPolicy.Error(), "field": contentPolicy.Field})
	case errors.Is(err, models.ErrInvalidSortField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return 0, false
	}
	return id, true
}

// queryID parses the required id query parameter.
func queryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id parameter is required and must be an integer"})
		return 0, false
	}
	return id, true
}

// queryInt64Ptr parses an optional int64 query parameter, nil when absent.
func queryInt64Ptr(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return nil, false
	}
	return &v, true
}

// queryStringPtr returns an optional string query parameter, nil when absent.
func queryStringPtr(c *gin.Context, name string) *string {
	if raw, ok := c.GetQuery(name); ok {
		return &raw
	}
	return nil
}

// queryInt parses an int query parameter with a default.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}

// commentLimit parses the commentLimit query parameter. Negative limits are
// rejected here; the store would refuse them anyway.
func commentLimit(c *gin.Context, def int) (int, bool) {
	limit, ok := queryInt(c, "commentLimit", def)
	if !ok {
		return 0, false
	}
	if limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commentLimit must not be negative"})
		return 0, false
	}
	return limit, true
}

// pageRequest assembles the page/size/sort parameters, clamping size to the
// configured bounds.
func pageRequest(c *gin.Context, defaultSize, maxSize int) (repository.PageRequest, bool) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return repository.PageRequest{}, false
	}
	size, ok := queryInt(c, "size", defaultSize)
	if !ok {
		return repository.PageRequest{}, false
	}
	if page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must not be negative"})
		return repository.PageRequest{}, false
	}
	if size < 1 || size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size is out of range"})
		return repository.PageRequest{}, false
	}

	return repository.PageRequest{
		Page:       page,
		Size:       size,
		SortField:  c.Query("sort"),
		Descending: c.Query("descending") == "true",
	}, true
}
