package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mediaport "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/media/port"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/presentation/controller"
	"github.com/rs/zerolog"
)

// Dependencies carries the wired use cases the chat routes need.
type Dependencies struct {
	Registry      *realtime.Registry
	Typing        *realtime.TypingTracker
	Uploader      mediaport.Uploader
	SendMessage   *usecase.SendMessageUseCase
	GetMessages   *usecase.GetMessagesUseCase
	MarkRead      *usecase.MarkReadUseCase
	DeleteMessage *usecase.DeleteMessageUseCase
	React         *usecase.ReactUseCase
	Conversations *usecase.ListConversationsUseCase
	UserStatus    *usecase.GetUserStatusUseCase
	SendBuffer    int
	Log           zerolog.Logger
}

// RequireIdentity resolves the caller from the X-User-ID header. It stands in
// for a real auth layer; swap it for token verification without touching the
// controllers.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			return
		}
		c.Set("userID", id)
		c.Next()
	}
}

// RegisterRoutes registers chat endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Dependencies) {
	socketCtl := controller.NewChatSocketController(
		deps.Registry, deps.Typing,
		deps.SendMessage, deps.MarkRead, deps.React, deps.UserStatus,
		deps.SendBuffer, deps.Log,
	)

	// GET /api/v1/chat/ws -> websocket endpoint, identity comes from the
	// user_connected frame rather than a header.
	g.GET("/chat/ws", socketCtl.Handle())

	authed := g.Group("", RequireIdentity())

	sendCtl := controller.NewSendMessageController(deps.SendMessage, deps.Uploader)
	convsCtl := controller.NewGetConversationsController(deps.Conversations)
	msgsCtl := controller.NewGetMessagesController(deps.GetMessages)
	markReadCtl := controller.NewMarkReadController(deps.MarkRead)
	deleteCtl := controller.NewDeleteMessageController(deps.DeleteMessage)
	statusCtl := controller.NewGetUserStatusController(deps.UserStatus)

	authed.POST("/messages", sendCtl.Handle())
	authed.GET("/conversations", convsCtl.Handle())
	authed.GET("/conversations/:conversationId/messages", msgsCtl.Handle())
	authed.POST("/messages/read", markReadCtl.Handle())
	authed.DELETE("/messages/:messageId", deleteCtl.Handle())
	authed.GET("/users/:userId/status", statusCtl.Handle())
}
