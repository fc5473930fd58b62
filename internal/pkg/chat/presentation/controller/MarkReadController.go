package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
)

// MarkReadController acknowledges explicit read receipts from the caller.
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(uc *usecase.MarkReadUseCase) *MarkReadController {
	return &MarkReadController{UC: uc}
}

type markReadRequest struct {
	MessageIDs []string `json:"messageIds" binding:"required"`
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req markReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := h.UC.Execute(ctx, usecase.MarkReadInput{
			MessageIDs: req.MessageIDs,
			ReaderID:   userID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}
