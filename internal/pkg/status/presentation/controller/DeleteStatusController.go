package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
)

// DeleteStatusController removes one of the caller's own statuses.
type DeleteStatusController struct {
	UC *usecase.DeleteStatusUseCase
}

func NewDeleteStatusController(uc *usecase.DeleteStatusUseCase) *DeleteStatusController {
	return &DeleteStatusController{UC: uc}
}

func (h *DeleteStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		statusID := c.Param("statusId")
		if statusID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "statusId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.DeleteStatusInput{
			StatusID:    statusID,
			RequesterID: userID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": statusID})
	}
}
