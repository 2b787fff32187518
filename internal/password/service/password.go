package service

import (
	"context"
	"errors"
	"fmt"

	autherrors "concierge/internal/auth/errors"
	memberserrors "concierge/internal/members/errors"
	"concierge/internal/notifications"
	passworderrors "concierge/internal/password/errors"
	"concierge/internal/password/repository"
	"concierge/pkg/config"
	"concierge/pkg/credentials"
	apperrors "concierge/pkg/errors"
	"concierge/pkg/model"
	"concierge/pkg/sanitizer"
	"concierge/pkg/validation"

	"github.com/google/uuid"
)

const (
	ForgotPasswordMessage = "If an account exists for this email, a password reset link has been sent"
	ResetPasswordMessage  = "Password has been reset successfully"
)

// UserAccounts is satisfied by the auth user repository.
type UserAccounts interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

// MemberAccounts is satisfied by the members repository.
type MemberAccounts interface {
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type ResetNotifier interface {
	SendPasswordResetEmail(ctx context.Context, email, token string) notifications.Result
}

type PasswordService interface {
	Forgot(ctx context.Context, req *model.ForgotPasswordRequest) error
	Reset(ctx context.Context, req *model.ResetPasswordRequest) error
}

type passwordService struct {
	users     UserAccounts
	members   MemberAccounts
	resets    repository.ResetStore
	notifier  ResetNotifier
	validator *validation.Validator
	cfg       *config.Config
	newToken  func() string
}

func NewPasswordService(
	users UserAccounts,
	members MemberAccounts,
	resets repository.ResetStore,
	notifier ResetNotifier,
	validator *validation.Validator,
	cfg *config.Config,
) PasswordService {
	return &passwordService{
		users:     users,
		members:   members,
		resets:    resets,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
		newToken:  uuid.NewString,
	}
}

// Forgot answers the same way whether or not the email is registered.
func (s *passwordService) Forgot(ctx context.Context, req *model.ForgotPasswordRequest) error {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validate(req); err != nil {
		return err
	}

	reset, err := s.lookup(ctx, req.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to look up account for password reset", "error", err)
		return apperrors.Internal("Failed to process password reset", err)
	}
	if reset == nil {
		s.cfg.Log.Info("Password reset requested for unknown email")
		return nil
	}

	token := s.newToken()
	if err := s.resets.Save(ctx, token, reset, s.cfg.PasswordResetTTL); err != nil {
		s.cfg.Log.Error("Failed to store reset token", "account_id", reset.AccountID, "error", err)
		return apperrors.Internal("Failed to process password reset", err)
	}

	if res := s.notifier.SendPasswordResetEmail(ctx, reset.Email, token); !res.Success {
		s.cfg.Log.Warn("Password reset email not sent", "account_id", reset.AccountID, "error", res.Error)
	}
	return nil
}

func (s *passwordService) lookup(ctx context.Context, email string) (*model.PasswordReset, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return &model.PasswordReset{Kind: model.IdentityUser, AccountID: user.ID, Email: user.Email}, nil
	}
	if !errors.Is(err, autherrors.ErrNotFound) {
		return nil, err
	}

	member, err := s.members.FindByEmail(ctx, email)
	if err == nil {
		return &model.PasswordReset{Kind: model.IdentityMember, AccountID: member.ID, Email: member.Email}, nil
	}
	if errors.Is(err, memberserrors.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

func (s *passwordService) Reset(ctx context.Context, req *model.ResetPasswordRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}

	reset, err := s.resets.Take(ctx, req.Token)
	if err != nil {
		if errors.Is(err, passworderrors.ErrTokenNotFound) {
			return apperrors.InvalidInput("Invalid or expired reset token")
		}
		return apperrors.Internal("Failed to reset password", err)
	}

	hash, err := credentials.Hash(req.Password)
	if err != nil {
		return apperrors.Internal("Failed to reset password", err)
	}

	if err := s.updatePassword(ctx, reset, hash); err != nil {
		if errors.Is(err, autherrors.ErrNotFound) || errors.Is(err, memberserrors.ErrNotFound) {
			return apperrors.InvalidInput("Invalid or expired reset token")
		}
		s.cfg.Log.Error("Failed to update password", "account_id", reset.AccountID, "kind", reset.Kind, "error", err)
		return apperrors.Internal("Failed to reset password", err)
	}

	s.cfg.Log.Info("Password reset", "account_id", reset.AccountID, "kind", reset.Kind)
	return nil
}

func (s *passwordService) updatePassword(ctx context.Context, reset *model.PasswordReset, hash string) error {
	switch reset.Kind {
	case model.IdentityUser:
		return s.users.UpdatePassword(ctx, reset.AccountID, hash)
	case model.IdentityMember:
		return s.members.UpdatePassword(ctx, reset.AccountID, hash)
	default:
		return fmt.Errorf("%w: %s", passworderrors.ErrUnknownAccountKind, reset.Kind)
	}
}

func (s *passwordService) validate(v any) error {
	err := s.validator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(verrs[0].Message, verrs.Details())
	}
	return apperrors.Validation("Validation failed", map[string]any{"error": err.Error()})
}
