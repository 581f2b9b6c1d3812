package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/middleware"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
)

// RouterConfig collects everything route registration needs.
type RouterConfig struct {
	JWTSecret   string
	FrontendURL string
	DeviceRepo  repository.DeviceSessionRepository

	Auth    *AuthHandler
	Checkin *CheckinHandler
	Metrics *MetricsHandler
	Users   *UserHandler
	Invites *InviteHandler
	Archive *ArchiveHandler
}

// NewRouter builds the HTTP surface: public registration and login, then
// the authenticated API behind token and role checks.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Device-Token"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/register", cfg.Auth.Register)
	r.POST("/login", cfg.Auth.Login)
	r.POST("/validate-invite", cfg.Invites.ValidateInvite)
	r.GET("/questions", cfg.Checkin.Questions)
	r.GET("/clinicians", cfg.Users.Clinicians)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth(cfg.JWTSecret, cfg.DeviceRepo))
	{
		auth.POST("/logout-device", cfg.Auth.LogoutDevice)
		auth.POST("/logout-all", cfg.Auth.LogoutAll)
		auth.GET("/user-info", cfg.Users.UserInfo)

		auth.POST("/submit-responses",
			middleware.RequireRole(models.RoleClient), cfg.Checkin.SubmitResponses)
		auth.GET("/past-responses", cfg.Checkin.PastResponses)
		auth.GET("/session-details", cfg.Checkin.SessionDetails)

		staff := auth.Group("/")
		staff.Use(middleware.RequireRole(models.RoleClinician, models.RoleAdmin))
		{
			staff.GET("/search-users", cfg.Users.SearchUsers)
			staff.GET("/search-clients", cfg.Users.SearchClients)
			staff.GET("/clinician-data", cfg.Metrics.ClinicianData)
			staff.POST("/archive-client", cfg.Archive.ArchiveClient)
			staff.POST("/unarchive-client", cfg.Archive.UnarchiveClient)
		}

		admin := auth.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/search-all-clients", cfg.Users.SearchAllClients)
			admin.GET("/overall-data", cfg.Metrics.OverallData)
			admin.GET("/admins", cfg.Users.Admins)
			admin.POST("/generate-invite", cfg.Invites.GenerateInvite)
			admin.POST("/remove-user", cfg.Users.RemoveUser)
			admin.POST("/rebuild-response-index", cfg.Checkin.RebuildResponseIndex)
		}
	}

	return r
}
