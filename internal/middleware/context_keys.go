package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = contextKey("userID")
	shopIDKey = contextKey("shopID")
)

// WithIdentity stores the authenticated user and shop in ctx.
func WithIdentity(ctx context.Context, userID, shopID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, shopIDKey, shopID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetShopIDFromContext retrieves the shop the caller acts for.
func GetShopIDFromContext(c *gin.Context) (string, bool) {
	shopID, ok := c.Request.Context().Value(shopIDKey).(string)
	return shopID, ok && shopID != ""
}
