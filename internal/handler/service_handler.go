package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/service"
	"go.uber.org/zap"
)

// ServiceHandler exposes the cloud service endpoints: object uploads and
// queue publishing.
type ServiceHandler struct {
	storage service.ObjectStorage
	queue   service.QueuePublisher
	logger  *zap.Logger
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(storage service.ObjectStorage, queue service.QueuePublisher, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

// Upload stores a file in object storage
// @Summary Upload a file
// @Description Store a multipart file and return its public URL
// @Tags services
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /uploads [post]
func (h *ServiceHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "file is required",
		})
		return
	}

	url, err := storeMultipartFile(c.Request.Context(), h.storage, file)
	if err != nil {
		h.logger.Error("file upload failed", zap.String("filename", file.Filename), zap.Error(err))
		respondError(c, fmt.Errorf("failed to store file: %w", service.ErrExternalService))
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{FileURL: url})
}

// PublishMessage publishes a message to the queue
// @Summary Publish a queue message
// @Description Publish an arbitrary message and return the broker message id
// @Tags services
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.QueueMessageRequest true "Message"
// @Success 201 {object} dto.QueueMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /queue/messages [post]
func (h *ServiceHandler) PublishMessage(c *gin.Context) {
	var req dto.QueueMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	messageID, err := h.queue.Send(c.Request.Context(), gin.H{"message": req.Message})
	if err != nil {
		h.logger.Error("queue publish failed", zap.Error(err))
		respondError(c, fmt.Errorf("failed to publish message: %w", service.ErrExternalService))
		return
	}

	c.JSON(http.StatusCreated, dto.QueueMessageResponse{MessageID: messageID})
}

// storeMultipartFile streams a multipart file into object storage and
// returns its URL.
func storeMultipartFile(ctx context.Context, storage service.ObjectStorage, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return storage.Put(ctx, fh.Filename, contentType, src)
}
