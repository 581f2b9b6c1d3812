package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/headway-clinic/checkin-api/internal/constants"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

var (
	ErrNotAClient          = errors.New("only client accounts can be archived")
	ErrMigrationInProgress = errors.New("a migration is already in progress for this client")
	ErrAlreadyArchived     = errors.New("client is already archived")
	ErrNotArchived         = errors.New("client is not archived")
	ErrMigrationFailed     = errors.New("migration failed partway; data may be split across namespaces")
)

// ArchiveService moves a client's full record set between the active and
// archived namespaces. Copies always complete before any delete runs, so a
// failure can leave duplicated data but never lost data.
type ArchiveService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	checkinRepo repository.CheckinRepository
	deviceRepo  repository.DeviceSessionRepository
	access      *AccessService
	log         *zap.Logger
}

// NewArchiveService creates a new ArchiveService.
func NewArchiveService(db *gorm.DB, userRepo repository.UserRepository, checkinRepo repository.CheckinRepository, deviceRepo repository.DeviceSessionRepository, access *AccessService, log *zap.Logger) *ArchiveService {
	return &ArchiveService{db: db, userRepo: userRepo, checkinRepo: checkinRepo, deviceRepo: deviceRepo, access: access, log: log}
}

// Archive moves an active client into the archived namespace. The client's
// device sessions are revoked up front so no live token outlasts the move.
func (s *ArchiveService) Archive(ctx context.Context, identity Identity, clientID string) error {
	client, err := s.userRepo.FindByID(storage.Active, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, archivedErr := s.userRepo.FindByID(storage.Archived, clientID); archivedErr == nil {
				return ErrAlreadyArchived
			}
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to find client: %w", err)
	}
	if client.Role != models.RoleClient {
		return ErrNotAClient
	}
	if err := s.access.AuthorizeMigration(identity, client); err != nil {
		return err
	}
	if client.MigrationStatus != models.MigrationNone {
		return ErrMigrationInProgress
	}

	// Forced logout comes first: an archived client must not hold a live
	// session even if the copy below fails.
	if err := s.deviceRepo.DeleteAllForUser(clientID); err != nil {
		return fmt.Errorf("failed to revoke device sessions: %w", err)
	}

	if err := s.userRepo.UpdateMigrationStatus(storage.Active, clientID, models.MigrationArchiving); err != nil {
		return fmt.Errorf("failed to mark client archiving: %w", err)
	}

	if err := s.migrate(ctx, client, storage.Active, storage.Archived, models.MigrationArchived); err != nil {
		s.log.Error("Archive migration failed",
			zap.String("client_id", clientID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	s.log.Info("Client archived", zap.String("client_id", clientID))
	return nil
}

// Unarchive moves an archived client back into the active namespace.
func (s *ArchiveService) Unarchive(ctx context.Context, identity Identity, clientID string) error {
	client, err := s.userRepo.FindByID(storage.Archived, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, activeErr := s.userRepo.FindByID(storage.Active, clientID); activeErr == nil {
				return ErrNotArchived
			}
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to find client: %w", err)
	}
	if err := s.access.AuthorizeMigration(identity, client); err != nil {
		return err
	}
	if client.MigrationStatus != models.MigrationArchived {
		return ErrMigrationInProgress
	}

	if err := s.userRepo.UpdateMigrationStatus(storage.Archived, clientID, models.MigrationUnarchiving); err != nil {
		return fmt.Errorf("failed to mark client unarchiving: %w", err)
	}

	if err := s.migrate(ctx, client, storage.Archived, storage.Active, models.MigrationNone); err != nil {
		s.log.Error("Unarchive migration failed",
			zap.String("client_id", clientID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	s.log.Info("Client unarchived", zap.String("client_id", clientID))
	return nil
}

// migrate copies the client's profile, sessions and response rows from src
// to dst, then deletes the originals. All copies are queued before any
// delete, and the profile is deleted last so a partial failure always
// leaves the client discoverable in the source namespace.
func (s *ArchiveService) migrate(ctx context.Context, client *models.User, src, dst storage.Namespace, finalStatus models.MigrationStatus) error {
	sessions, err := s.checkinRepo.ListSessionsByUser(src, client.ID)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	responses, err := s.checkinRepo.ListResponsesByUser(src, client.ID)
	if err != nil {
		return fmt.Errorf("failed to load responses: %w", err)
	}

	moved := *client
	moved.MigrationStatus = finalStatus

	w := newBatchWriter(s.db.WithContext(ctx), constants.MaxBatchWriteOps)

	w.add(func(tx *gorm.DB) error {
		return tx.Table(dst.Users()).Create(&moved).Error
	})
	for i := range sessions {
		sess := sessions[i]
		w.add(func(tx *gorm.DB) error {
			return tx.Table(dst.Sessions()).Create(&sess).Error
		})
	}
	for i := range responses {
		resp := responses[i]
		w.add(func(tx *gorm.DB) error {
			return tx.Table(dst.Responses()).Create(&resp).Error
		})
	}

	w.add(func(tx *gorm.DB) error {
		return tx.Table(src.Responses()).Where("user_id = ?", client.ID).Delete(&models.SessionResponse{}).Error
	})
	w.add(func(tx *gorm.DB) error {
		return tx.Table(src.Sessions()).Where("user_id = ?", client.ID).Delete(&models.CheckinSession{}).Error
	})
	w.add(func(tx *gorm.DB) error {
		return tx.Table(src.Users()).Where("id = ?", client.ID).Delete(&models.User{}).Error
	})

	return w.flush()
}

// batchWriter queues write operations and commits them in transactions of
// at most limit operations, preserving queue order across batches.
type batchWriter struct {
	db    *gorm.DB
	limit int
	ops   []func(tx *gorm.DB) error
}

func newBatchWriter(db *gorm.DB, limit int) *batchWriter {
	return &batchWriter{db: db, limit: limit}
}

func (w *batchWriter) add(op func(tx *gorm.DB) error) {
	w.ops = append(w.ops, op)
}

func (w *batchWriter) flush() error {
	for start := 0; start < len(w.ops); start += w.limit {
		end := start + w.limit
		if end > len(w.ops) {
			end = len(w.ops)
		}
		batch := w.ops[start:end]
		err := w.db.Transaction(func(tx *gorm.DB) error {
			for _, op := range batch {
				if err := op(tx); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	w.ops = nil
	return nil
}
