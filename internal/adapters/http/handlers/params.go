package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// ImageURLFunc resolves a stored image key to the URL clients download it from.
type ImageURLFunc func(key string) string

// pathID parses the :id path parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(c *gin.Context, entity string) (int64, error) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewNotFoundError(entity, raw)
	}

	return id, nil
}
