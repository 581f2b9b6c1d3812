package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/middleware"
	"github.com/headway-clinic/checkin-api/internal/services"
)

// ArchiveHandler serves client archive and unarchive requests.
type ArchiveHandler struct {
	archiveService *services.ArchiveService
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(archiveService *services.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archiveService: archiveService}
}

// ArchiveClient handles POST /archive-client.
func (h *ArchiveHandler) ArchiveClient(c *gin.Context) {
	clientID := c.Query("user_id")
	if clientID == "" {
		errors.BadRequest(c, "user_id is required")
		return
	}

	identity := middleware.GetIdentity(c)
	if err := h.archiveService.Archive(c.Request.Context(), identity, clientID); err != nil {
		respondArchiveError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client archived"})
}

// UnarchiveClient handles POST /unarchive-client.
func (h *ArchiveHandler) UnarchiveClient(c *gin.Context) {
	clientID := c.Query("user_id")
	if clientID == "" {
		errors.BadRequest(c, "user_id is required")
		return
	}

	identity := middleware.GetIdentity(c)
	if err := h.archiveService.Unarchive(c.Request.Context(), identity, clientID); err != nil {
		respondArchiveError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client unarchived"})
}

func respondArchiveError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrClientNotFound):
		errors.NotFound(c, err.Error())
	case stderrors.Is(err, services.ErrNotAClient):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, services.ErrScopeDenied):
		errors.Forbidden(c, err.Error())
	case stderrors.Is(err, services.ErrMigrationInProgress):
		errors.ConflictWithCode(c, errors.ErrCodeMigrationInProgress, err.Error())
	case stderrors.Is(err, services.ErrAlreadyArchived),
		stderrors.Is(err, services.ErrNotArchived):
		errors.Conflict(c, err.Error())
	case stderrors.Is(err, services.ErrMigrationFailed):
		errors.MigrationFailed(c, err.Error())
	default:
		errors.InternalError(c, "")
	}
}
