package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/dto"
	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/services"
)

// InviteHandler serves invite generation and validation.
type InviteHandler struct {
	inviteService *services.InviteService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// GenerateInvite handles POST /generate-invite, admin only.
func (h *InviteHandler) GenerateInvite(c *gin.Context) {
	var req dto.GenerateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, err.Error())
		return
	}

	invite, err := h.inviteService.Generate(models.Role(req.Role))
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.InviteResponse{
		InviteCode: invite.InviteCode,
		Role:       string(invite.Role),
	})
}

// ValidateInvite handles POST /validate-invite, the public pre-registration
// check the signup form runs.
func (h *InviteHandler) ValidateInvite(c *gin.Context) {
	var req dto.ValidateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, err.Error())
		return
	}

	invite, err := h.inviteService.Validate(req.InviteCode)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InviteResponse{
		InviteCode: invite.InviteCode,
		Role:       string(invite.Role),
	})
}

func respondInviteError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrInvalidInviteRole):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, services.ErrInvalidInviteCode):
		errors.NotFound(c, err.Error())
	case stderrors.Is(err, services.ErrInviteUsed):
		errors.Conflict(c, err.Error())
	default:
		errors.InternalError(c, "")
	}
}
