package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"concierge/pkg/model"
)

type MemberResult struct {
	Member *model.Member `json:"member"`
	Token  string        `json:"token"`
}

type PendingResult struct {
	StagingToken string    `json:"stagingToken,omitempty"`
	State        string    `json:"state"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type MemberClient struct {
	httpClient *HttpClient
}

func NewMemberClient(httpClient *HttpClient) *MemberClient {
	return &MemberClient{httpClient: httpClient}
}

// Register creates the membership immediately and logs the session in as
// the new member.
func (c *MemberClient) Register(ctx context.Context, session *Session, req model.MemberRegisterRequest) (*MemberResult, error) {
	if err := validateMemberRequest(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, http.MethodPost, "/api/members/register", "", req)
	if err != nil {
		return nil, err
	}
	var result MemberResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	if result.Member != nil {
		session.set(result.Token, model.IdentityMember, result.Member.Profile())
	}
	return &result, nil
}

// StartPending opens a registration that completes when the payment
// provider calls back.
func (c *MemberClient) StartPending(ctx context.Context, req model.MemberRegisterRequest) (*PendingResult, error) {
	if err := validateMemberRequest(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, http.MethodPost, "/api/members/pending", "", req)
	if err != nil {
		return nil, err
	}
	var result PendingResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MemberClient) PendingStatus(ctx context.Context, stagingToken string) (*PendingResult, error) {
	resp, err := c.httpClient.Do(ctx, http.MethodGet, "/api/members/pending/"+url.PathEscape(stagingToken), "", nil)
	if err != nil {
		return nil, err
	}
	var result PendingResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func validateMemberRequest(req model.MemberRegisterRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case strings.TrimSpace(req.Email) == "":
		return &ValidationError{Field: "email", Message: "is required"}
	case len(req.Password) < 6:
		return &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	case strings.TrimSpace(req.Tier) == "":
		return &ValidationError{Field: "tier", Message: "is required"}
	}
	return nil
}
