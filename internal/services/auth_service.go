package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/constants"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/storage"
	"github.com/headway-clinic/checkin-api/internal/utils"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountArchived      = errors.New("account is archived and cannot log in")
	ErrInvalidRole          = errors.New("invalid role specified")
	ErrWeakPassword         = errors.New("password does not meet requirements")
	ErrMissingFields        = errors.New("all fields are required")
	ErrInviteRequired       = errors.New("invite code is required for this role")
	ErrInvalidInviteCode    = errors.New("invalid or expired invite code")
	ErrInviteUsed           = errors.New("invite code has already been used")
	ErrClinicianRequired    = errors.New("assigned clinician is required for clients")
	ErrUserNotFound         = errors.New("user not found")
	ErrDeviceSessionMissing = errors.New("device session not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and device-session revocation.
type AuthService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	deviceRepo repository.DeviceSessionRepository
	jwtSecret  string
	tokenTTL   time.Duration
	log        *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	inviteRepo repository.InviteRepository,
	deviceRepo repository.DeviceSessionRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		deviceRepo: deviceRepo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		log:        log,
	}
}

// RegisterInput represents the information needed to create an account.
type RegisterInput struct {
	FirstName           string
	LastName            string
	Email               string
	Password            string
	Role                models.Role
	InviteCode          string
	AssignedClinicianID string
}

// Register creates a new user. Clinician and admin accounts consume a
// one-time invite code; client accounts must name their clinician.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	firstName := capitalize(strings.TrimSpace(input.FirstName))
	lastName := capitalize(strings.TrimSpace(input.LastName))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if firstName == "" || lastName == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(storage.Active, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if input.Role.Elevated() {
		if err := s.consumeInvite(input.InviteCode, input.Role); err != nil {
			return nil, err
		}
	}

	var assignedClinicianID *string
	if input.Role == models.RoleClient {
		if input.AssignedClinicianID == "" {
			return nil, ErrClinicianRequired
		}
		id := input.AssignedClinicianID
		assignedClinicianID = &id
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		ID:                  uuid.NewString(),
		FirstName:           firstName,
		LastName:            lastName,
		Email:               email,
		PasswordHash:        hashedPassword,
		Role:                input.Role,
		AssignedClinicianID: assignedClinicianID,
		MigrationStatus:     models.MigrationNone,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the issued credential: a signed token bound to a fresh
// device session.
type LoginResult struct {
	AccessToken string
	DeviceToken string
	ExpiresAt   time.Time
	User        *models.User
}

// Login verifies credentials and issues a device-bound token. An email that
// only exists in the archived namespace fails with a reason distinct from
// bad credentials.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(storage.Active, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		// Archived clients are blocked from logging in; surface that
		// distinctly so the frontend does not report a typo'd password.
		if _, archivedErr := s.userRepo.FindByEmail(storage.Archived, email); archivedErr == nil {
			return nil, ErrAccountArchived
		}
		return nil, ErrInvalidCredentials
	}

	if !utils.VerifyPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	deviceToken := uuid.NewString()
	session := &models.DeviceSession{
		DeviceToken: deviceToken,
		UserID:      user.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.deviceRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create device session: %w", err)
	}

	token, exp, err := utils.NewAccessToken(s.jwtSecret, user.ID, string(user.Role), deviceToken, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		DeviceToken: deviceToken,
		ExpiresAt:   exp,
		User:        user,
	}, nil
}

// LogoutDevice revokes the calling device's session, leaving other logins
// of the same user intact.
func (s *AuthService) LogoutDevice(deviceToken string) error {
	exists, err := s.deviceRepo.Exists(deviceToken)
	if err != nil {
		return fmt.Errorf("failed to check device session: %w", err)
	}
	if !exists {
		return ErrDeviceSessionMissing
	}
	return s.deviceRepo.Delete(deviceToken)
}

// LogoutAll revokes every device session of the target user. Callers must
// be the user themselves or an admin.
func (s *AuthService) LogoutAll(identity Identity, targetUserID string) error {
	if identity.Role != models.RoleAdmin && identity.UserID != targetUserID {
		return ErrScopeDenied
	}
	return s.deviceRepo.DeleteAllForUser(targetUserID)
}

// GetUser retrieves an active user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(storage.Active, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) consumeInvite(code string, role models.Role) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrInviteRequired
	}

	invite, err := s.inviteRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidInviteCode
		}
		return fmt.Errorf("failed to look up invite: %w", err)
	}
	if invite.Role != role {
		return ErrInvalidInviteCode
	}
	if invite.Used {
		return ErrInviteUsed
	}
	return s.inviteRepo.MarkUsed(code)
}

// validatePassword enforces the registration password policy: minimum
// length plus at least one digit or special character.
func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrWeakPassword
	}
	for _, ch := range password {
		if ch >= '0' && ch <= '9' {
			return nil
		}
		if strings.ContainsRune(constants.PasswordSpecialChars, ch) {
			return nil
		}
	}
	return ErrWeakPassword
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
