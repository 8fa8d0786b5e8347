package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key used to store the acting user's identifier in the Gin context.
const actorKey = contextKey("actor")

// ActorMiddleware resolves the acting user for audit stamping. Authentication is
// handled upstream of this service; the actor arrives as a plain header and
// defaults to "system" when absent.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor-ID")
		if actor == "" {
			actor = "system"
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user ID from the Gin context.
func GetActorFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(actorKey))
	if !exists {
		return "", false
	}
	actor, ok := val.(string)
	if !ok {
		return "", false
	}
	return actor, true
}
