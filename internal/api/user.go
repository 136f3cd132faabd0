package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pandora-network/ideanet/internal/feed"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/pandora-network/ideanet/internal/repository"
	"github.com/pandora-network/ideanet/internal/storage"
	"go.uber.org/zap"
)

// maxUploadBytes caps avatar/cover uploads at 8 MiB.
const maxUploadBytes = 8 << 20

type UserHandler struct {
	users     repository.UserRepository
	ideas     repository.IdeaRepository
	favorites repository.FavoriteRepository
	comments  repository.CommentRepository
	uploader  *storage.Uploader
	logger    *zap.Logger
}

func NewUserHandler(
	users repository.UserRepository,
	ideas repository.IdeaRepository,
	favorites repository.FavoriteRepository,
	comments repository.CommentRepository,
	uploader *storage.Uploader,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		users:     users,
		ideas:     ideas,
		favorites: favorites,
		comments:  comments,
		uploader:  uploader,
		logger:    logger,
	}
}

// GetByUsername handles GET /v1/users/:username: the public profile.
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.users.GetByName(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Me handles GET /v1/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Bio               *string `json:"bio"`
	Website           *string `json:"website"`
	Avatar            *string `json:"avatar"`
	CoverImage        *string `json:"cover_image"`
	PreferredLanguage *string `json:"preferred_language" binding:"omitempty,oneof=en pt es"`
}

// UpdateMe handles PATCH /v1/me: nil fields stay untouched.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), repository.ProfileUpdate{
		Bio:               req.Bio,
		Website:           req.Website,
		Avatar:            req.Avatar,
		CoverImage:        req.CoverImage,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		h.logger.Error("failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadImage handles POST /v1/me/images/:field where :field is
// "avatar" or "cover". The file goes to object storage and the
// resulting public URL is saved on the profile.
func (h *UserHandler) UploadImage(c *gin.Context) {
	field := c.Param("field")
	if field != "avatar" && field != "cover" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown image field"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	userID := middleware.GetUserID(c)
	url, err := h.uploader.UploadUserImage(c.Request.Context(), userID, field,
		header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		h.logger.Error("failed to upload image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}

	update := repository.ProfileUpdate{}
	if field == "avatar" {
		update.Avatar = &url
	} else {
		update.CoverImage = &url
	}
	if _, err := h.users.UpdateProfile(c.Request.Context(), userID, update); err != nil {
		h.logger.Error("failed to save image url", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GetSettings handles GET /v1/me/settings.
func (h *UserHandler) GetSettings(c *gin.Context) {
	settings, err := h.users.GetSettings(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

type updateSettingsRequest struct {
	EmailNotificationsEnabled *bool `json:"email_notifications_enabled" binding:"required"`
}

// PutSettings handles PUT /v1/me/settings.
func (h *UserHandler) PutSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := models.UserSettings{EmailNotificationsEnabled: *req.EmailNotificationsEnabled}
	if err := h.users.PutSettings(c.Request.Context(), middleware.GetUserID(c), settings); err != nil {
		h.logger.Error("failed to save settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Progress handles GET /v1/me/progress: four existence checks folded
// into a score, recomputed on every call.
func (h *UserHandler) Progress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	name := middleware.GetUserName(c)

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute progress"})
		return
	}

	ideaCreated, err := h.ideas.ExistsByAuthor(ctx, name)
	if err != nil {
		h.logger.Error("failed to check ideas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute progress"})
		return
	}

	favoriteMarked, err := h.favorites.ExistsForUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to check favorites", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute progress"})
		return
	}

	commentAdded, err := h.comments.ExistsByAuthor(ctx, name)
	if err != nil {
		h.logger.Error("failed to check comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute progress"})
		return
	}

	c.JSON(http.StatusOK, feed.ComputeProgress(
		feed.ProfileCompleted(user),
		ideaCreated,
		favoriteMarked,
		commentAdded,
	))
}
