package client

import (
	"context"
	"net/http"
	"strings"

	"concierge/pkg/model"
)

// Credentials is either UserCredentials or MemberCredentials.
type Credentials interface {
	loginRequest() model.LoginRequest
}

type UserCredentials struct {
	Email    string
	Password string
}

func (c UserCredentials) loginRequest() model.LoginRequest {
	return model.LoginRequest{Email: strings.TrimSpace(c.Email), Password: c.Password}
}

type MemberCredentials struct {
	MembershipID string
	Password     string
}

func (c MemberCredentials) loginRequest() model.LoginRequest {
	return model.LoginRequest{MembershipID: strings.TrimSpace(c.MembershipID), Password: c.Password, IsExclusive: true}
}

type AuthResult struct {
	Token  string         `json:"token"`
	User   *model.Profile `json:"user,omitempty"`
	Member *model.Profile `json:"member,omitempty"`
}

func (r *AuthResult) profile() (*model.Profile, string) {
	if r.Member != nil {
		return r.Member, model.IdentityMember
	}
	return r.User, model.IdentityUser
}

type AuthClient struct {
	httpClient *HttpClient
}

func NewAuthClient(httpClient *HttpClient) *AuthClient {
	return &AuthClient{httpClient: httpClient}
}

// Login stores the returned token in session. On failure the server's
// message is kept verbatim in the error and the session is untouched.
func (c *AuthClient) Login(ctx context.Context, session *Session, creds Credentials) (*AuthResult, error) {
	req := creds.loginRequest()
	if req.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "is required"}
	}
	if req.Email == "" && req.MembershipID == "" {
		return nil, &ValidationError{Field: "email", Message: "email or membership ID is required"}
	}

	var result AuthResult
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	profile, kind := result.profile()
	session.set(result.Token, kind, profile)
	return &result, nil
}

func (c *AuthClient) Register(ctx context.Context, session *Session, req model.RegisterRequest) (*AuthResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, &ValidationError{Field: "email", Message: "is required"}
	}
	if len(req.Password) < 6 {
		return nil, &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}

	var result AuthResult
	if err := c.call(ctx, http.MethodPost, "/api/auth/register", req, &result); err != nil {
		return nil, err
	}
	session.set(result.Token, model.IdentityUser, result.User)
	return &result, nil
}

func (c *AuthClient) Profile(ctx context.Context, session *Session) (*model.Profile, error) {
	token := session.Token()
	if token == "" {
		return nil, errNoSession
	}

	resp, err := c.httpClient.Do(ctx, http.MethodGet, "/api/auth/profile", token, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		User *model.Profile `json:"user"`
	}
	if err := decode(resp, &body); err != nil {
		return nil, err
	}
	session.setProfile(body.User)
	return body.User, nil
}

// Logout always succeeds.
func (c *AuthClient) Logout(session *Session) {
	session.Clear()
}

func (c *AuthClient) call(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.httpClient.Do(ctx, method, path, "", body)
	if err != nil {
		return err
	}
	return decode(resp, target)
}
