package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/dto"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/repository"
	"github.com/vibast-solutions/ms-go-accounts/config"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("malformed token")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID uint64, lastLogin time.Time) error
}

type resetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	FindByDigest(ctx context.Context, digest string) (*entity.PasswordResetToken, error)
	DeleteByID(ctx context.Context, id uint64) (int64, error)
	DeleteByUserID(ctx context.Context, userID uint64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type UserAccountService interface {
	Register(ctx context.Context, email, password, name string) (*dto.AuthResult, error)
	Login(ctx context.Context, email, password string) (*dto.AuthResult, error)
	ChangePassword(ctx context.Context, userID uint64, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (*dto.PasswordResetIssued, error)
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type AsyncRunner func(task func())

type UserAccountServiceOption func(*userAccountService)

type userAccountService struct {
	db          *sql.DB
	userRepo    userRepository
	tokenRepo   resetTokenRepository
	notifier    Notifier
	cfg         *config.Config
	asyncRunner AsyncRunner
}

func NewUserAccountService(
	db *sql.DB,
	userRepo userRepository,
	tokenRepo resetTokenRepository,
	notifier Notifier,
	cfg *config.Config,
	opts ...UserAccountServiceOption,
) UserAccountService {
	svc := &userAccountService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		notifier:  notifier,
		cfg:       cfg,
		asyncRunner: func(task func()) {
			go task()
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithAsyncRunner(runner AsyncRunner) UserAccountServiceOption {
	return func(s *userAccountService) {
		if runner != nil {
			s.asyncRunner = runner
		}
	}
}

func (s *userAccountService) Register(ctx context.Context, email, password, name string) (*dto.AuthResult, error) {
	email = CanonicalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if err = s.cfg.Password.Policy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hashedPassword, err := hashPassword(password, s.cfg.Password.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.userRepo.Create(ctx, user); err != nil {
		// The unique index catches a concurrent registration that slipped
		// past the existence check above.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.asyncRunner(func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if notifyErr := s.notifier.NotifyWelcome(notifyCtx, user.Email, user.Name); notifyErr != nil {
			logrus.WithError(notifyErr).WithField("user_id", user.ID).Error("failed to send welcome notification")
		}
	})

	return &dto.AuthResult{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.cfg.JWT.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *userAccountService) Login(ctx context.Context, email, password string) (*dto.AuthResult, error) {
	email = CanonicalizeEmail(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Same error as a wrong password so responses cannot be used to
		// probe which addresses hold accounts.
		return nil, ErrInvalidCredentials
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	s.asyncRunner(func() {
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if updateErr := s.userRepo.UpdateLastLogin(updateCtx, user.ID, time.Now()); updateErr != nil {
			logrus.WithError(updateErr).WithField("user_id", user.ID).Error("failed to update last_login")
		}
	})

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResult{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.cfg.JWT.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *userAccountService) ChangePassword(ctx context.Context, userID uint64, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !user.IsActive {
		return ErrAccountDeactivated
	}

	if !verifyPassword(currentPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	if err = s.cfg.Password.Policy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hashedPassword, err := hashPassword(newPassword, s.cfg.Password.BcryptCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword)
}

// RequestPasswordReset returns (nil, nil) when no account matches the email.
// Callers must answer with the same acknowledgement either way.
func (s *userAccountService) RequestPasswordReset(ctx context.Context, email string) (*dto.PasswordResetIssued, error) {
	email = CanonicalizeEmail(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	rawSecret, digest, err := GenerateResetSecret()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &entity.PasswordResetToken{
		UserID:      user.ID,
		TokenDigest: digest,
		ExpiresAt:   now.Add(s.cfg.Tokens.ResetTTL),
		CreatedAt:   now,
	}

	// Superseding prior tokens and inserting the new one commit together so a
	// reader never observes two live tokens for one user.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txTokenRepo := repository.NewResetTokenRepository(tx)
	if err = txTokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, err
	}
	if err = txTokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.asyncRunner(func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if notifyErr := s.notifier.NotifyPasswordResetRequested(notifyCtx, user.Email, user.Name, rawSecret); notifyErr != nil {
			logrus.WithError(notifyErr).WithField("user_id", user.ID).Error("failed to send password reset notification")
		}
	})

	return &dto.PasswordResetIssued{
		Email:     user.Email,
		Name:      user.Name,
		RawSecret: rawSecret,
	}, nil
}

func (s *userAccountService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if err := s.cfg.Password.Policy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	digest := HashResetSecret(rawToken)
	token, err := s.tokenRepo.FindByDigest(ctx, digest)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		// Purge eagerly so a later attempt with the same secret reports it
		// as unknown rather than expired.
		if _, delErr := s.tokenRepo.DeleteByID(ctx, token.ID); delErr != nil {
			logrus.WithError(delErr).WithField("token_id", token.ID).Error("failed to purge expired reset token")
		}
		return ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	if !user.IsActive {
		return ErrAccountDeactivated
	}

	hashedPassword, err := hashPassword(newPassword, s.cfg.Password.BcryptCost)
	if err != nil {
		return err
	}

	// Password update and token consumption commit together; a token must
	// never survive the reset it performed, nor vanish without one.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txUserRepo := repository.NewUserRepository(tx)
	if err = txUserRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	txTokenRepo := repository.NewResetTokenRepository(tx)
	rowsDeleted, err := txTokenRepo.DeleteByID(ctx, token.ID)
	if err != nil {
		return err
	}
	if rowsDeleted == 0 {
		// A concurrent reset consumed the token first; this one loses.
		return ErrInvalidToken
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	s.asyncRunner(func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if notifyErr := s.notifier.NotifyPasswordResetCompleted(notifyCtx, user.Email, user.Name); notifyErr != nil {
			logrus.WithError(notifyErr).WithField("user_id", user.ID).Error("failed to send password reset confirmation")
		}
	})

	return nil
}

func (s *userAccountService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx, time.Now())
}
