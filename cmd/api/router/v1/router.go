package v1

import (
	"github.com/gin-gonic/gin"

	chathttp "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/presentation/http"
	statushttp "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/presentation/http"
)

// Dependencies aggregates the per-domain route dependencies.
type Dependencies struct {
	Chat   chathttp.Dependencies
	Status statushttp.Dependencies
}

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	v1 := r.Group("/api/v1")
	chathttp.RegisterRoutes(v1, deps.Chat)

	authed := v1.Group("", chathttp.RequireIdentity())
	statushttp.RegisterRoutes(authed, deps.Status)
}
