package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mpetrovskiy/reward-service/internal/dto"
	"github.com/mpetrovskiy/reward-service/internal/service"
	"go.uber.org/zap"
)

// UserHandler handles profile and activity requests
type UserHandler struct {
	authService     service.AuthService
	activityService service.ActivityService
	storage         service.ObjectStorage
	logger          *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService service.AuthService, activityService service.ActivityService, storage service.ObjectStorage, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		authService:     authService,
		activityService: activityService,
		storage:         storage,
		logger:          logger,
	}
}

// UpdateProfile handles a partial profile update
// @Summary Update profile
// @Description Update bio and/or profile picture; completing the profile earns a one-time reward. Accepts JSON or multipart with a profile_pic file.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Bio = c.PostForm("bio")
		req.ProfilePic = c.PostForm("profile_pic")

		if file, err := c.FormFile("profile_pic"); err == nil {
			url, err := storeMultipartFile(c.Request.Context(), h.storage, file)
			if err != nil {
				h.logger.Error("profile picture upload failed", zap.String("filename", file.Filename), zap.Error(err))
				respondError(c, fmt.Errorf("failed to store profile picture: %w", service.ErrExternalService))
				return
			}
			req.ProfilePic = url
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), userID, req.Bio, req.ProfilePic)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetActivity returns the user's reward ledger
// @Summary Get activity
// @Description Get earned-coin total, achievement count and full reward history
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ActivityResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/activity [get]
func (h *UserHandler) GetActivity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	report, err := h.activityService.GetUserActivity(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
