package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// userID returns the authenticated caller set by the identity middleware.
func userID(c *gin.Context) string {
	return c.GetString("userID")
}

// respondError maps use case errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		status = http.StatusInternalServerError
	case errors.Is(err, chat.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, chat.ErrConversationNotFound),
		errors.Is(err, chat.ErrMessageNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
