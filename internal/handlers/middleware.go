package handlers

import (
	"net/http"
	"strings"

	"packaging_cell/internal/service"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

func (h *Handler) userIdentity(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	id, err := h.services.Authorization.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(identityKey, id)
	c.Next()
}

// adminOnly must run after userIdentity.
func (h *Handler) adminOnly(c *gin.Context) {
	if id, ok := identityFrom(c); !ok || !id.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "admin privileges required",
		})
		return
	}
	c.Next()
}

func identityFrom(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := v.(service.Identity)
	return id, ok
}
