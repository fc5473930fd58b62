package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
)

// GetStatusesController lists every unexpired status for the caller.
type GetStatusesController struct {
	UC *usecase.ListStatusesUseCase
}

func NewGetStatusesController(uc *usecase.ListStatusesUseCase) *GetStatusesController {
	return &GetStatusesController{UC: uc}
}

func (h *GetStatusesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"statuses": views})
	}
}
