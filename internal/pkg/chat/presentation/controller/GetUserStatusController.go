package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
)

// GetUserStatusController answers presence queries over REST.
type GetUserStatusController struct {
	UC *usecase.GetUserStatusUseCase
}

func NewGetUserStatusController(uc *usecase.GetUserStatusUseCase) *GetUserStatusController {
	return &GetUserStatusController{UC: uc}
}

func (h *GetUserStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("userId")
		if targetID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		view, err := h.UC.Execute(ctx, targetID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
