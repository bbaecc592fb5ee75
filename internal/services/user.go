package services

import (
	"context"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
	"customer-portal/pkg/utils"
)

// UserToDTO strips credentials from an account before it leaves the
// service layer.
func UserToDTO(user *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Active:    user.Active,
		CreatedAt: utils.FormatTime(user.CreatedAt),
		UpdatedAt: utils.NullTimeToEmptyString(user.UpdatedAt),
	}
}

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, actor *entities.User, id uint64) error
}

type UserService struct {
	userRepository repositories.UserRepositoryInterface
	auditService   AuditLogServiceInterface
	broadcaster    BroadcasterInterface
	logger         *zap.Logger
}

func NewUserService(
	userRepository repositories.UserRepositoryInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepository: userRepository,
		auditService:   auditService,
		broadcaster:    broadcaster,
		logger:         logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	return s.userRepository.GetUsers(ctx, filter)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepository.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	result := UserToDTO(user)
	return &result, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	// An admin cannot demote or deactivate themselves; it is too easy
	// to lock the last admin out.
	if actor.ID == id && (payload.Role.Valid || payload.Active.Valid) {
		return nil, apperrors.ErrForbidden
	}

	var role *string
	if payload.Role.Valid {
		role = &payload.Role.String
	}
	var active *bool
	if payload.Active.Valid {
		active = &payload.Active.Bool
	}
	var passwordHash *string
	if payload.Password.Valid {
		hash, err := utils.HashPassword(payload.Password.String)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}

	user, err := s.userRepository.UpdateUser(ctx, id, role, active, passwordHash)
	if err != nil {
		return nil, err
	}

	result := UserToDTO(user)
	s.auditService.Record(ctx, actor.ID, "user.update", "user", &id)
	s.broadcaster.Broadcast(ctx, events.UserUpdated, result)
	return &result, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor *entities.User, id uint64) error {
	if actor.ID == id {
		return apperrors.ErrForbidden
	}
	if err := s.userRepository.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "user.delete", "user", &id)
	s.broadcaster.Broadcast(ctx, events.UserDeleted, events.DeletedPayload{ID: id})
	return nil
}
