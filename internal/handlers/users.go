package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/dto"
	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/middleware"
	"github.com/headway-clinic/checkin-api/internal/services"
	"github.com/headway-clinic/checkin-api/internal/utils"
)

// UserHandler serves directory lookups and account removal.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SearchUsers handles GET /search-users.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	users, err := h.userService.SearchUsers(identity, c.Query("name"))
	if err != nil {
		respondUserError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page, pagination := utils.Paginate(dto.ToUserResponses(users), params)
	c.JSON(http.StatusOK, gin.H{"users": page, "pagination": pagination})
}

// SearchClients handles GET /search-clients.
func (h *UserHandler) SearchClients(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	clients, err := h.userService.SearchClients(identity, c.Query("name"))
	if err != nil {
		respondUserError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page, pagination := utils.Paginate(dto.ToUserResponses(clients), params)
	c.JSON(http.StatusOK, gin.H{"clients": page, "pagination": pagination})
}

// SearchAllClients handles GET /search-all-clients, the admin view that can
// fold archived clients into the results.
func (h *UserHandler) SearchAllClients(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	includeArchived := c.Query("include_archived") == "true"

	records, err := h.userService.SearchAllClients(identity, c.Query("name"), includeArchived)
	if err != nil {
		respondUserError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page, pagination := utils.Paginate(dto.ToClientRecordResponses(records), params)
	c.JSON(http.StatusOK, gin.H{"clients": page, "pagination": pagination})
}

// UserInfo handles GET /user-info.
func (h *UserHandler) UserInfo(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	targetID := c.Query("user_id")
	if targetID == "" {
		targetID = identity.UserID
	}

	user, err := h.userService.UserInfo(identity, targetID, namespaceFromQuery(c))
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Clinicians handles GET /clinicians, the list clients pick from at
// registration.
func (h *UserHandler) Clinicians(c *gin.Context) {
	clinicians, err := h.userService.Clinicians()
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clinicians": dto.ToUserResponses(clinicians)})
}

// Admins handles GET /admins.
func (h *UserHandler) Admins(c *gin.Context) {
	admins, err := h.userService.Admins()
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": dto.ToUserResponses(admins)})
}

// RemoveUser handles POST /remove-user, admin only.
func (h *UserHandler) RemoveUser(c *gin.Context) {
	targetID := c.Query("user_id")
	if targetID == "" {
		errors.BadRequest(c, "user_id is required")
		return
	}

	result, err := h.userService.RemoveUser(targetID)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":               "User removed",
		"unassigned_client_ids": result.UnassignedClientIDs,
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrUserNotFound),
		stderrors.Is(err, services.ErrClientNotFound):
		errors.NotFound(c, err.Error())
	case stderrors.Is(err, services.ErrScopeDenied):
		errors.Forbidden(c, err.Error())
	default:
		errors.InternalError(c, "")
	}
}
