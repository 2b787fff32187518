package client

import (
	"context"
	"fmt"
	"net/http"

	"concierge/internal/rewards"
)

type RedeemResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Reward  rewards.Reward `json:"reward"`
	Ledger  rewards.Ledger `json:"ledger"`
}

type RewardsClient struct {
	httpClient *HttpClient
}

func NewRewardsClient(httpClient *HttpClient) *RewardsClient {
	return &RewardsClient{httpClient: httpClient}
}

func (c *RewardsClient) Ledger(ctx context.Context, session *Session) (*rewards.Ledger, error) {
	token := session.Token()
	if token == "" {
		return nil, errNoSession
	}
	resp, err := c.httpClient.Do(ctx, http.MethodGet, "/api/rewards", token, nil)
	if err != nil {
		return nil, err
	}
	var ledger rewards.Ledger
	if err := decode(resp, &ledger); err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (c *RewardsClient) Catalog(ctx context.Context) ([]rewards.Reward, error) {
	resp, err := c.httpClient.Do(ctx, http.MethodGet, "/api/rewards/catalog", "", nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Rewards []rewards.Reward `json:"rewards"`
	}
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	return body.Rewards, nil
}

// Redeem returns the result alongside an error wrapping
// rewards.ErrInsufficientPoints when the balance is too low.
func (c *RewardsClient) Redeem(ctx context.Context, session *Session, rewardID string) (*RedeemResult, error) {
	if rewardID == "" {
		return nil, &ValidationError{Field: "rewardId", Message: "is required"}
	}
	token := session.Token()
	if token == "" {
		return nil, errNoSession
	}

	resp, err := c.httpClient.Do(ctx, http.MethodPost, "/api/rewards/redeem", token, map[string]string{"rewardId": rewardID})
	if err != nil {
		return nil, err
	}
	var result RedeemResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return &result, fmt.Errorf("%w: %s", rewards.ErrInsufficientPoints, result.Error)
	}
	return &result, nil
}
