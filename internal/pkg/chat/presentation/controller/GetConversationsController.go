package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
)

// GetConversationsController lists the caller's conversations.
type GetConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewGetConversationsController(uc *usecase.ListConversationsUseCase) *GetConversationsController {
	return &GetConversationsController{UC: uc}
}

func (h *GetConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversations": views})
	}
}
