package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/utils"
)

var (
	ErrInvalidInviteRole          = errors.New("invites can only be issued for clinician or admin roles")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
)

// InviteService issues and validates one-time registration invites.
type InviteService struct {
	inviteRepo repository.InviteRepository
}

// NewInviteService creates a new InviteService.
func NewInviteService(inviteRepo repository.InviteRepository) *InviteService {
	return &InviteService{inviteRepo: inviteRepo}
}

// Generate creates a new unused invite for an elevated role.
func (s *InviteService) Generate(role models.Role) (*models.Invite, error) {
	if !role.Elevated() {
		return nil, ErrInvalidInviteRole
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	invite := &models.Invite{
		InviteCode: code,
		Role:       role,
		Used:       false,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// Validate checks that a code exists and has not been consumed, returning
// the invite so the caller can show its role.
func (s *InviteService) Validate(code string) (*models.Invite, error) {
	invite, err := s.inviteRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	if invite.Used {
		return nil, ErrInviteUsed
	}
	return invite, nil
}
