package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/identity"
	"github.com/gin-gonic/gin"
)

const (
	ActorKey      = "actor"
	CredentialKey = "credential"
)

// AuthMiddleware 驗證 Authorization header 並把操作者放進 context
func AuthMiddleware(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := c.GetHeader("Authorization")
		actor, err := resolver.ResolveActor(c.Request.Context(), credential)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				model.FailResult("Unauthorized: Invalid or missing token."))
			return
		}
		c.Set(ActorKey, actor)
		c.Set(CredentialKey, credential)
		c.Next()
	}
}

// ActorFromContext 取出 AuthMiddleware 放入的操作者
func ActorFromContext(c *gin.Context) (*identity.Actor, bool) {
	value, ok := c.Get(ActorKey)
	if !ok {
		return nil, false
	}
	actor, ok := value.(*identity.Actor)
	return actor, ok
}
