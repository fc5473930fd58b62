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
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
)

// CreateStatusController posts a new ephemeral status for the caller.
type CreateStatusController struct {
	UC       *usecase.CreateStatusUseCase
	Uploader mediaport.Uploader
}

func NewCreateStatusController(uc *usecase.CreateStatusUseCase, uploader mediaport.Uploader) *CreateStatusController {
	return &CreateStatusController{UC: uc, Uploader: uploader}
}

type createStatusRequest struct {
	Content string `json:"content" binding:"required"`
}

// Handle accepts either a JSON body with text content or a multipart form
// with a media file.
func (h *CreateStatusController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		in := usecase.CreateStatusInput{AuthorID: userID(c)}

		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
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
			var req createStatusRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
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

func (h *CreateStatusController) upload(ctx context.Context, file *multipart.FileHeader) (*chat.Media, error) {
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

func (h *CreateStatusController) respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mediaport.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image and video uploads are supported"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
	}
}
