package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
)

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

func respondError(c *gin.Context, err error) {
	code := http.StatusBadRequest
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		code = http.StatusInternalServerError
	case errors.Is(err, status.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, status.ErrNotFound):
		code = http.StatusNotFound
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
