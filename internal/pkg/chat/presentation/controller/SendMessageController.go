package controller

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	mediaport "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/media/port"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
)

// SendMessageController handles the send-message endpoint only (one controller per endpoint)
type SendMessageController struct {
	UC       *usecase.SendMessageUseCase
	Uploader mediaport.Uploader
}

func NewSendMessageController(uc *usecase.SendMessageUseCase, uploader mediaport.Uploader) *SendMessageController {
	return &SendMessageController{UC: uc, Uploader: uploader}
}

// sendMessageRequest is the DTO for the JSON request body
type sendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content"`
}

// Handle accepts either a JSON body or a multipart form with a media file
// plus an optional caption.
func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		in := usecase.SendMessageInput{SenderID: userID(c)}

		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			in.ReceiverID = c.PostForm("receiverId")
			in.Content = c.PostForm("content")

			file, err := c.FormFile("file")
			if err != nil && !errors.Is(err, http.ErrMissingFile) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
				return
			}
			if file != nil {
				media, err := h.upload(ctx, file)
				if err != nil {
					h.respondUploadError(c, err)
					return
				}
				in.Media = media
			}
		} else {
			var req sendMessageRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			in.ReceiverID = req.ReceiverID
			in.Content = req.Content
		}

		view, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

func (h *SendMessageController) upload(ctx context.Context, file *multipart.FileHeader) (*chat.Media, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	up, err := h.Uploader.Upload(ctx, file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		return nil, err
	}
	return &chat.Media{URL: up.URL, Kind: chat.ContentType(up.Kind)}, nil
}

func (h *SendMessageController) respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mediaport.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image and video uploads are supported"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
	}
}
