package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/dto"
	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/middleware"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/services"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Password:            req.Password,
		Role:                models.Role(req.Role),
		InviteCode:          req.InviteCode,
		AssignedClinicianID: req.AssignedClinicianID,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: result.AccessToken,
		DeviceToken: result.DeviceToken,
		ExpiresAt:   result.ExpiresAt,
		User:        dto.ToUserResponse(result.User),
	})
}

// LogoutDevice handles POST /logout-device, revoking the calling session.
func (h *AuthHandler) LogoutDevice(c *gin.Context) {
	if err := h.authService.LogoutDevice(middleware.GetDeviceToken(c)); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device logged out"})
}

// LogoutAll handles POST /logout-all, revoking every session of a user.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	targetID := c.Query("user_id")
	identity := middleware.GetIdentity(c)
	if targetID == "" {
		targetID = identity.UserID
	}

	if err := h.authService.LogoutAll(identity, targetID); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All devices logged out"})
}

// respondAuthError maps auth service errors to HTTP responses.
func respondAuthError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrMissingFields),
		stderrors.Is(err, services.ErrInvalidRole),
		stderrors.Is(err, services.ErrWeakPassword),
		stderrors.Is(err, services.ErrClinicianRequired),
		stderrors.Is(err, services.ErrInviteRequired):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, services.ErrInvalidInviteCode),
		stderrors.Is(err, services.ErrInviteUsed):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, services.ErrEmailTaken):
		errors.RespondWithError(c, http.StatusConflict,
			errors.NewAPIError(errors.ErrCodeAlreadyExists, err.Error()))
	case stderrors.Is(err, services.ErrAccountArchived):
		errors.UnauthorizedWithCode(c, errors.ErrCodeAccountArchived, err.Error())
	case stderrors.Is(err, services.ErrInvalidCredentials):
		errors.UnauthorizedWithCode(c, errors.ErrCodeInvalidCredentials, err.Error())
	case stderrors.Is(err, services.ErrDeviceSessionMissing):
		errors.NotFound(c, err.Error())
	case stderrors.Is(err, services.ErrScopeDenied):
		errors.Forbidden(c, err.Error())
	case stderrors.Is(err, services.ErrUserNotFound):
		errors.NotFound(c, err.Error())
	default:
		errors.InternalError(c, "")
	}
}
