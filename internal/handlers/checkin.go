package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/dto"
	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/middleware"
	"github.com/headway-clinic/checkin-api/internal/services"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

// CheckinHandler serves questionnaire submission and history.
type CheckinHandler struct {
	checkinService *services.CheckinService
}

// NewCheckinHandler creates a new CheckinHandler.
func NewCheckinHandler(checkinService *services.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

// Questions handles GET /questions.
func (h *CheckinHandler) Questions(c *gin.Context) {
	questions, err := h.checkinService.Questions()
	if err != nil {
		errors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": dto.ToQuestionResponses(questions)})
}

// SubmitResponses handles POST /submit-responses.
func (h *CheckinHandler) SubmitResponses(c *gin.Context) {
	var req dto.SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, err.Error())
		return
	}

	identity := middleware.GetIdentity(c)
	session, err := h.checkinService.Submit(services.SubmitInput{
		UserID:          identity.UserID,
		QuestionnaireID: req.QuestionnaireID,
		Responses:       req.ToSummaryResponses(),
	})
	if err != nil {
		respondCheckinError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitResponsesResponse{
		SessionID: session.ID,
		Timestamp: session.Timestamp,
		Count:     len(session.SummaryResponses),
	})
}

// PastResponses handles GET /past-responses. Clients read their own
// history; staff pass user_id, and admins may add status=archived.
func (h *CheckinHandler) PastResponses(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	targetID := c.Query("user_id")
	ns := namespaceFromQuery(c)

	entries, err := h.checkinService.PastResponses(identity, targetID, ns)
	if err != nil {
		respondCheckinError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": entries})
}

// SessionDetails handles GET /session-details.
func (h *CheckinHandler) SessionDetails(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		errors.BadRequest(c, "session_id is required")
		return
	}

	identity := middleware.GetIdentity(c)
	ns := namespaceFromQuery(c)

	entries, err := h.checkinService.SessionDetails(identity, sessionID, ns)
	if err != nil {
		respondCheckinError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": entries})
}

// RebuildResponseIndex handles POST /rebuild-response-index, an admin
// repair that regenerates a user's index rows from session summaries.
func (h *CheckinHandler) RebuildResponseIndex(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		errors.BadRequest(c, "user_id is required")
		return
	}

	count, err := h.checkinService.RebuildResponseIndex(userID)
	if err != nil {
		errors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rebuilt": count})
}

// namespaceFromQuery maps the optional status query parameter to a
// namespace. Anything other than "archived" reads active records.
func namespaceFromQuery(c *gin.Context) storage.Namespace {
	if c.Query("status") == "archived" {
		return storage.Archived
	}
	return storage.Active
}

func respondCheckinError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrInvalidResponses):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, services.ErrNoResponses),
		stderrors.Is(err, services.ErrSessionNotFound),
		stderrors.Is(err, services.ErrClientNotFound):
		errors.NotFound(c, err.Error())
	case stderrors.Is(err, services.ErrScopeDenied):
		errors.Forbidden(c, err.Error())
	default:
		errors.InternalError(c, "")
	}
}
