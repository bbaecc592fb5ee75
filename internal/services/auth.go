package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/config"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"
)

type AuthServiceInterface interface {
	// Register creates an account from an invite code. The code is
	// consumed and the user created in one transaction, so a code is
	// never burned without an account and never grants two accounts.
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (string, *dto.UserDTO, error)
	Logout(ctx context.Context, token string) error
	// ResolveSession maps a session token to its user. Implements the
	// auth middleware's resolver.
	ResolveSession(ctx context.Context, token string) (*entities.User, error)
}

type AuthService struct {
	userRepository   repositories.UserRepositoryInterface
	inviteRepository repositories.InviteCodeRepositoryInterface
	sessionRepo      repositories.SessionRepositoryInterface
	txManager        repositories.TxManagerInterface
	broadcaster      BroadcasterInterface
	sessionConfig    config.SessionConfig
	logger           *zap.Logger
}

func NewAuthService(
	userRepository repositories.UserRepositoryInterface,
	inviteRepository repositories.InviteCodeRepositoryInterface,
	sessionRepo repositories.SessionRepositoryInterface,
	txManager repositories.TxManagerInterface,
	broadcaster BroadcasterInterface,
	sessionConfig config.SessionConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepository:   userRepository,
		inviteRepository: inviteRepository,
		sessionRepo:      sessionRepo,
		txManager:        txManager,
		broadcaster:      broadcaster,
		sessionConfig:    sessionConfig,
		logger:           logger,
	}
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.UserDTO, error) {
	passwordHash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	var created *entities.User
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		user, err := s.userRepository.CreateUser(ctx, tx, payload.Username, passwordHash, constants.RoleCustomer)
		if err != nil {
			return err
		}
		code, err := s.inviteRepository.ConsumeCode(ctx, tx, payload.InviteCode, user.ID)
		if err != nil {
			return err
		}
		// The account's role comes from the code, not the request.
		updated, err := s.userRepository.ApplyRole(ctx, tx, user.ID, code.Role)
		if err != nil {
			return err
		}
		created = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.logger.Warn("registration rejected: username taken", zap.String("username", payload.Username))
		}
		return nil, err
	}

	result := UserToDTO(created)
	s.broadcaster.Broadcast(ctx, events.UserCreated, result)
	s.broadcaster.Broadcast(ctx, events.InviteCodeUsed, map[string]interface{}{
		"code":    payload.InviteCode,
		"used_by": created.ID,
	})
	return &result, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (string, *dto.UserDTO, error) {
	user, err := s.userRepository.FindByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.Active {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.sessionRepo.Create(ctx, token, user.ID, s.sessionConfig.TTL); err != nil {
		return "", nil, err
	}

	result := UserToDTO(user)
	return token, &result, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

func (s *AuthService) ResolveSession(ctx context.Context, token string) (*entities.User, error) {
	userID, err := s.sessionRepo.GetUserID(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepository.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}
	return user, nil
}
