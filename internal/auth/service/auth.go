package service

import (
	"context"
	"errors"

	autherrors "concierge/internal/auth/errors"
	"concierge/internal/auth/repository"
	memberserrors "concierge/internal/members/errors"
	"concierge/pkg/config"
	"concierge/pkg/credentials"
	apperrors "concierge/pkg/errors"
	"concierge/pkg/model"
	"concierge/pkg/sanitizer"
	"concierge/pkg/validation"
)

// AuthResult carries the bearer token plus the profile under the key that
// matches the identity kind.
type AuthResult struct {
	Token  string         `json:"token"`
	User   *model.Profile `json:"user,omitempty"`
	Member *model.Profile `json:"member,omitempty"`
}

// TokenIssuer is satisfied by *token.Issuer.
type TokenIssuer interface {
	Issue(identity *model.Identity) (string, error)
}

// MemberFinder is the part of the members repository login and profile need.
type MemberFinder interface {
	FindByID(ctx context.Context, id string) (*model.Member, error)
	FindByMembershipID(ctx context.Context, membershipID string) (*model.Member, error)
}

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *model.LoginRequest) (*AuthResult, error)
	Profile(ctx context.Context, identity *model.Identity) (*model.Profile, error)
}

type authService struct {
	users     repository.UserRepository
	members   MemberFinder
	tokens    TokenIssuer
	validator *validation.Validator
	cfg       *config.Config
}

func NewAuthService(
	users repository.UserRepository,
	members MemberFinder,
	tokens TokenIssuer,
	validator *validation.Validator,
	cfg *config.Config,
) AuthService {
	return &authService{
		users:     users,
		members:   members,
		tokens:    tokens,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*AuthResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Request body is required")
	}

	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.PhoneOrRaw(req.Phone)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	hash, err := credentials.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("User already exists")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered", "user_id", user.ID)
	return s.issue(user.Identity(), user.Profile(), false)
}

// Login accepts either an email (regular users) or a membership id
// (exclusive members). Both fail with the same message whatever went wrong.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*AuthResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Request body is required")
	}

	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.MembershipID = sanitizer.NormalizeMembershipID(req.MembershipID)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if req.IsExclusive || req.MembershipID != "" {
		return s.loginMember(ctx, req)
	}
	return s.loginUser(ctx, req)
}

func (s *authService) loginUser(ctx context.Context, req *model.LoginRequest) (*AuthResult, error) {
	const invalid = "Invalid email or password"
	if req.Email == "" {
		return nil, apperrors.Validation("Email is required", map[string]any{"email": "email is required"})
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(invalid)
		}
		return nil, apperrors.Internal("Failed to log in", err)
	}
	if err := credentials.Verify(user.PasswordHash, req.Password); err != nil {
		s.cfg.Log.Warn("Failed login attempt", "kind", model.IdentityUser, "user_id", user.ID)
		return nil, apperrors.Unauthorized(invalid)
	}

	return s.issue(user.Identity(), user.Profile(), false)
}

func (s *authService) loginMember(ctx context.Context, req *model.LoginRequest) (*AuthResult, error) {
	const invalid = "Invalid membership ID or password"
	if req.MembershipID == "" {
		return nil, apperrors.Validation("Membership ID is required", map[string]any{"membershipId": "membershipId is required"})
	}

	member, err := s.members.FindByMembershipID(ctx, req.MembershipID)
	if err != nil {
		if errors.Is(err, memberserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(invalid)
		}
		return nil, apperrors.Internal("Failed to log in", err)
	}
	if err := credentials.Verify(member.PasswordHash, req.Password); err != nil {
		s.cfg.Log.Warn("Failed login attempt", "kind", model.IdentityMember, "member_id", member.ID)
		return nil, apperrors.Unauthorized(invalid)
	}

	return s.issue(member.Identity(), member.Profile(), true)
}

func (s *authService) Profile(ctx context.Context, identity *model.Identity) (*model.Profile, error) {
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	if identity.IsMember() {
		member, err := s.members.FindByID(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, memberserrors.ErrNotFound) || errors.Is(err, memberserrors.ErrInvalidID) {
				return nil, apperrors.NotFound("Member")
			}
			return nil, apperrors.Internal("Failed to load profile", err)
		}
		return member.Profile(), nil
	}

	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) || errors.Is(err, autherrors.ErrInvalidID) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal("Failed to load profile", err)
	}
	return user.Profile(), nil
}

func (s *authService) issue(identity *model.Identity, profile *model.Profile, member bool) (*AuthResult, error) {
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	if member {
		return &AuthResult{Token: token, Member: profile}, nil
	}
	return &AuthResult{Token: token, User: profile}, nil
}

func (s *authService) validate(v any) error {
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
