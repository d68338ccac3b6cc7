package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/academic-records/internal/apperr"
	"github.com/Spok95/academic-records/internal/metrics"
	"github.com/Spok95/academic-records/internal/models"
)

// UserRepo — то, что auth хочет от хранилища. Реализуется internal/db.Store.
type UserRepo interface {
	// FindUserByUsername — пользователь вместе с дайджестом; (nil, nil), если не найден.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID int64) error
	InsertUser(ctx context.Context, u models.User) (int64, error)
	UpdateUser(ctx context.Context, u models.User) (bool, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, term string) ([]models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	PasswordDigest(ctx context.Context, userID int64) (string, error)
	UpdatePassword(ctx context.Context, userID int64, digest string) error
}

type Service struct {
	repo UserRepo
}

func NewService(repo UserRepo) *Service {
	return &Service{repo: repo}
}

// Authenticate — вход по логину/паролю. "Нет пользователя", "неактивен" и
// "пароль не подошёл" неразличимы снаружи: всегда ErrInvalidCredentials.
// При успехе дайджест очищен, last_login обновлён.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	if u == nil || u.Status != models.UserActive {
		verifyDummy(password)
		metrics.AuthFailures.Inc()
		return nil, apperr.ErrInvalidCredentials
	}
	if !Verify(password, u.Password) {
		metrics.AuthFailures.Inc()
		return nil, apperr.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("auth: touch last login: %w", err)
	}
	now := time.Now()
	u.LastLoginAt = &now
	u.Password = ""
	metrics.Logins.Inc()
	return u, nil
}

// Register — создание пользователя (операция администратора).
func (s *Service) Register(ctx context.Context, u models.User, plainPassword string) (int64, error) {
	if err := ValidateNewUser(u, plainPassword); err != nil {
		return 0, err
	}
	exists, err := s.repo.UsernameExists(ctx, u.Username)
	if err != nil {
		return 0, fmt.Errorf("auth: check username: %w", err)
	}
	if exists {
		return 0, apperr.Validation("username", "Username already exists")
	}
	digest, err := Hash(plainPassword)
	if err != nil {
		return 0, fmt.Errorf("auth: hash password: %w", err)
	}
	u.Password = digest
	if u.Status == "" {
		u.Status = models.UserActive
	}
	id, err := s.repo.InsertUser(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("auth: insert user: %w", err)
	}
	return id, nil
}

// UpdateUser — правка профиля администратором; пароль этим путём не меняется.
func (s *Service) UpdateUser(ctx context.Context, u models.User) (bool, error) {
	if err := ValidateUserUpdate(u); err != nil {
		return false, err
	}
	ok, err := s.repo.UpdateUser(ctx, u)
	if err != nil {
		return false, fmt.Errorf("auth: update user: %w", err)
	}
	return ok, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) (bool, error) {
	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	return s.repo.SearchUsers(ctx, term)
}

// ChangePassword — смена пароля самим пользователем, старый обязателен.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	digest, err := s.repo.PasswordDigest(ctx, userID)
	if err != nil {
		return fmt.Errorf("auth: load digest: %w", err)
	}
	if !Verify(oldPassword, digest) {
		return apperr.Validation("password", "Current password is incorrect")
	}
	return s.storeNewPassword(ctx, userID, newPassword)
}

// ResetPassword — сброс администратором, без старого пароля.
func (s *Service) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	return s.storeNewPassword(ctx, userID, newPassword)
}

func (s *Service) storeNewPassword(ctx context.Context, userID int64, plain string) error {
	digest, err := Hash(plain)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, digest); err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}
	return nil
}
