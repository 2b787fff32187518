package service

import (
	"context"
	"errors"
	"strings"
	"time"

	memberserrors "concierge/internal/members/errors"
	"concierge/internal/members/repository"
	"concierge/pkg/config"
	"concierge/pkg/credentials"
	apperrors "concierge/pkg/errors"
	"concierge/pkg/model"
	"concierge/pkg/sanitizer"
	"concierge/pkg/validation"

	"github.com/google/uuid"
)

// Payment statuses that complete a pending registration.
var successfulPaymentStatuses = map[string]bool{
	"succeeded": true,
	"completed": true,
	"paid":      true,
}

type MemberResult struct {
	Member *model.Member `json:"member"`
	Token  string        `json:"token"`
}

type PendingResult struct {
	StagingToken string    `json:"stagingToken,omitempty"`
	State        string    `json:"state"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// TokenIssuer is satisfied by *token.Issuer.
type TokenIssuer interface {
	Issue(identity *model.Identity) (string, error)
}

// TokenSealer is satisfied by *sealer.Sealer.
type TokenSealer interface {
	Seal(parts ...string) (string, error)
	Open(token string) ([]string, error)
}

type MemberService interface {
	Register(ctx context.Context, req *model.MemberRegisterRequest) (*MemberResult, error)
	StartPending(ctx context.Context, req *model.MemberRegisterRequest) (*PendingResult, error)
	PendingStatus(ctx context.Context, stagingToken string) (*PendingResult, error)
	ConfirmPending(ctx context.Context, req *model.PendingConfirmRequest) (*MemberResult, error)
}

type memberService struct {
	repo      repository.MemberRepository
	pending   repository.PendingStore
	tokens    TokenIssuer
	sealer    TokenSealer
	validator *validation.Validator
	cfg       *config.Config
	now       func() time.Time
}

func NewMemberService(
	repo repository.MemberRepository,
	pending repository.PendingStore,
	tokens TokenIssuer,
	sealer TokenSealer,
	validator *validation.Validator,
	cfg *config.Config,
) MemberService {
	return &memberService{
		repo:      repo,
		pending:   pending,
		tokens:    tokens,
		sealer:    sealer,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the member immediately. Used when payment was captured
// before the call.
func (s *memberService) Register(ctx context.Context, req *model.MemberRegisterRequest) (*MemberResult, error) {
	draft, err := s.draft(req)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, draft, "")
}

// StartPending stages a registration until the payment provider calls back.
func (s *memberService) StartPending(ctx context.Context, req *model.MemberRegisterRequest) (*PendingResult, error) {
	draft, err := s.draft(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, draft.Email); err == nil {
		return nil, apperrors.Conflict("Member already exists")
	} else if !errors.Is(err, memberserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to stage registration", err)
	}

	now := s.now()
	pending := &model.PendingRegistration{
		ID:        uuid.NewString(),
		Draft:     *draft,
		State:     model.PendingAwaitingConfirmation,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.PendingRegistrationTTL),
	}
	if err := s.pending.Save(ctx, pending); err != nil {
		s.cfg.Log.Error("Failed to save pending registration", "error", err)
		return nil, apperrors.Internal("Failed to stage registration", err)
	}

	stagingToken, err := s.sealer.Seal(pending.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to stage registration", err)
	}

	s.cfg.Log.Info("Membership registration staged", "pending_id", pending.ID, "tier", draft.Tier, "expires_at", pending.ExpiresAt)
	return &PendingResult{StagingToken: stagingToken, State: pending.State, ExpiresAt: pending.ExpiresAt}, nil
}

func (s *memberService) PendingStatus(ctx context.Context, stagingToken string) (*PendingResult, error) {
	id, err := s.openStagingToken(stagingToken)
	if err != nil {
		return nil, err
	}

	pending, err := s.pending.Get(ctx, id)
	if err != nil {
		return nil, s.mapPendingError(err)
	}
	return &PendingResult{State: pending.State, ExpiresAt: pending.ExpiresAt}, nil
}

// ConfirmPending completes a staged registration after the payment provider
// reports the outcome. The entry is taken from the store so concurrent
// callbacks create at most one member.
func (s *memberService) ConfirmPending(ctx context.Context, req *model.PendingConfirmRequest) (*MemberResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Request body is required")
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	id, err := s.openStagingToken(req.StagingToken)
	if err != nil {
		return nil, err
	}

	current, err := s.pending.Get(ctx, id)
	if err != nil {
		return nil, s.mapPendingError(err)
	}
	if current.State == model.PendingCompleted {
		return nil, apperrors.Conflict("Registration already completed")
	}

	pending, err := s.pending.Take(ctx, id)
	if err != nil {
		return nil, s.mapPendingError(err)
	}

	if !successfulPaymentStatuses[strings.ToLower(strings.TrimSpace(req.Status))] {
		s.cfg.Log.Warn("Pending registration discarded after failed payment", "pending_id", id, "status", req.Status)
		return nil, apperrors.Conflict("Payment was not completed, registration discarded")
	}

	result, err := s.create(ctx, &pending.Draft, req.PaymentID)
	if err != nil {
		// The payment is captured; put the draft back so the callback can retry.
		if saveErr := s.pending.Save(ctx, pending); saveErr != nil {
			s.cfg.Log.Warn("Failed to restore pending registration", "pending_id", id, "error", saveErr)
		}
		return nil, err
	}

	pending.State = model.PendingCompleted
	pending.MemberID = result.Member.ID
	if err := s.pending.Save(ctx, pending); err != nil {
		s.cfg.Log.Warn("Failed to record completed registration", "pending_id", id, "error", err)
	}
	return result, nil
}

// --- Helpers ---

func (s *memberService) draft(req *model.MemberRegisterRequest) (*model.MemberDraft, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Request body is required")
	}

	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.PhoneOrRaw(req.Phone)
	req.PaymentMethod = sanitizer.TrimAndNormalize(req.PaymentMethod)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	hash, err := credentials.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to register member", err)
	}

	return &model.MemberDraft{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Phone:         req.Phone,
		Tier:          canonicalTier(req.Tier),
		PaymentMethod: req.PaymentMethod,
	}, nil
}

func (s *memberService) create(ctx context.Context, draft *model.MemberDraft, paymentID string) (*MemberResult, error) {
	member := &model.Member{
		Name:          draft.Name,
		Email:         draft.Email,
		PasswordHash:  draft.PasswordHash,
		Phone:         draft.Phone,
		Tier:          draft.Tier,
		PaymentMethod: draft.PaymentMethod,
		PaymentID:     paymentID,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if errors.Is(err, memberserrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Member already exists")
		}
		s.cfg.Log.Error("Failed to create member", "error", err)
		return nil, apperrors.Internal("Failed to register member", err)
	}

	token, err := s.tokens.Issue(member.Identity())
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Member registered", "member_id", member.ID, "membership_id", member.MembershipID, "tier", member.Tier)
	return &MemberResult{Member: member, Token: token}, nil
}

func (s *memberService) openStagingToken(stagingToken string) (string, error) {
	parts, err := s.sealer.Open(strings.TrimSpace(stagingToken))
	if err != nil || len(parts) != 1 || parts[0] == "" {
		return "", apperrors.InvalidInput(memberserrors.ErrInvalidStagingToken.Error())
	}
	return parts[0], nil
}

func (s *memberService) mapPendingError(err error) error {
	if errors.Is(err, memberserrors.ErrPendingNotFound) {
		return apperrors.NotFound("Pending registration")
	}
	s.cfg.Log.Error("Failed to read pending registration", "error", err)
	return apperrors.Internal("Failed to read pending registration", err)
}

func (s *memberService) validate(v any) error {
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

func canonicalTier(tier string) string {
	for _, t := range []string{model.TierBronze, model.TierSilver, model.TierGold, model.TierPlatinum, model.TierDiamond} {
		if strings.EqualFold(strings.TrimSpace(tier), t) {
			return t
		}
	}
	return tier
}
