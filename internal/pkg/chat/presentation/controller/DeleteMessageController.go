package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
)

// DeleteMessageController removes a message on behalf of its sender.
type DeleteMessageController struct {
	UC *usecase.DeleteMessageUseCase
}

func NewDeleteMessageController(uc *usecase.DeleteMessageUseCase) *DeleteMessageController {
	return &DeleteMessageController{UC: uc}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.DeleteMessageInput{
			MessageID:   messageID,
			RequesterID: userID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": messageID})
	}
}
