package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
)

// ViewStatusController records the caller viewing a status.
type ViewStatusController struct {
	UC *usecase.ViewStatusUseCase
}

func NewViewStatusController(uc *usecase.ViewStatusUseCase) *ViewStatusController {
	return &ViewStatusController{UC: uc}
}

func (h *ViewStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		statusID := c.Param("statusId")
		if statusID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "statusId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.ViewStatusInput{
			StatusID: statusID,
			ViewerID: userID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"viewed": statusID})
	}
}
