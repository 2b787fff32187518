package service

import (
	"context"
	"errors"

	"concierge/internal/rewards"
	"concierge/internal/rewards/repository"
	"concierge/pkg/config"
	apperrors "concierge/pkg/errors"
	"concierge/pkg/model"
)

// BookingLister is the slice of the bookings repository the ledger needs.
type BookingLister interface {
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error)
}

type RedeemResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Reward  rewards.Reward `json:"reward"`
	Ledger  rewards.Ledger `json:"ledger"`
}

type RewardsService interface {
	Ledger(ctx context.Context, identity *model.Identity) (*rewards.Ledger, error)
	Redeem(ctx context.Context, identity *model.Identity, rewardID string) (*RedeemResult, error)
	Catalog() []rewards.Reward
}

type rewardsService struct {
	bookings BookingLister
	spent    repository.SpentRepository
	catalog  []rewards.Reward
	cfg      *config.Config
}

func NewRewardsService(bookings BookingLister, spent repository.SpentRepository, cfg *config.Config) RewardsService {
	return &rewardsService{
		bookings: bookings,
		spent:    spent,
		catalog:  rewards.DefaultRewards,
		cfg:      cfg,
	}
}

func (s *rewardsService) Catalog() []rewards.Reward {
	return s.catalog
}

func (s *rewardsService) Ledger(ctx context.Context, identity *model.Identity) (*rewards.Ledger, error) {
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	ledger, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// Redeem reports insufficient points as an unsuccessful result rather than an
// error. Only a spend that fits the available balance is recorded.
func (s *rewardsService) Redeem(ctx context.Context, identity *model.Identity, rewardID string) (*RedeemResult, error) {
	if identity == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	reward, err := rewards.FindReward(s.catalog, rewardID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("Reward", rewardID)
	}

	ledger, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	if _, err := rewards.Redeem(reward, ledger.Available, ledger.Spent); err != nil {
		if errors.Is(err, rewards.ErrInsufficientPoints) {
			s.cfg.Log.Info("Redemption refused",
				"identity_id", identity.ID,
				"reward_id", reward.ID,
				"available", ledger.Available,
				"required", reward.Points,
			)
			return &RedeemResult{
				Success: false,
				Error:   "Insufficient points for this reward",
				Code:    apperrors.CodeInsufficientPoints,
				Reward:  reward,
				Ledger:  ledger,
			}, nil
		}
		return nil, apperrors.Internal("Failed to redeem reward", err)
	}

	spent, err := s.spent.Add(ctx, identity.ID, reward.Points)
	if err != nil {
		s.cfg.Log.Error("Failed to record redemption", "identity_id", identity.ID, "reward_id", reward.ID, "error", err)
		return nil, apperrors.Internal("Failed to redeem reward", err)
	}

	ledger.Spent = spent
	ledger.Available = max(0, ledger.Earned-spent)

	s.cfg.Log.Info("Reward redeemed",
		"identity_id", identity.ID,
		"reward_id", reward.ID,
		"points", reward.Points,
		"available", ledger.Available,
	)
	return &RedeemResult{Success: true, Reward: reward, Ledger: ledger}, nil
}

func (s *rewardsService) load(ctx context.Context, identity *model.Identity) (rewards.Ledger, error) {
	bookings, err := s.bookings.FindByOwner(ctx, identity.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for ledger", "identity_id", identity.ID, "error", err)
		return rewards.Ledger{}, apperrors.Internal("Failed to load rewards", err)
	}

	spent, err := s.spent.Get(ctx, identity.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to load spent points", "identity_id", identity.ID, "error", err)
		return rewards.Ledger{}, apperrors.Internal("Failed to load rewards", err)
	}

	return rewards.Summarize(bookings, tierOf(identity), spent), nil
}

// Regular users earn at the Bronze rate.
func tierOf(identity *model.Identity) rewards.Tier {
	if identity.Member == nil {
		return rewards.Bronze
	}
	tier, err := rewards.ParseTier(identity.Member.Tier)
	if err != nil {
		return rewards.Bronze
	}
	return tier
}
