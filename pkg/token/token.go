// Package token issues and verifies the HS256 bearer tokens shared by users
// and exclusive members.
package token

import (
	"errors"
	"fmt"
	"time"

	"concierge/pkg/model"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	Kind         string `json:"kind"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Tier         string `json:"tier,omitempty"`
	MembershipID string `json:"membership_id,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(identity *model.Identity) (string, error) {
	now := i.now()
	claims := Claims{
		Kind:  identity.Kind,
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if identity.Member != nil {
		claims.Tier = identity.Member.Tier
		claims.MembershipID = identity.Member.MembershipID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Parse(raw string) (*model.Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || (claims.Kind != model.IdentityUser && claims.Kind != model.IdentityMember) {
		return nil, ErrInvalidToken
	}

	identity := &model.Identity{
		ID:    claims.Subject,
		Kind:  claims.Kind,
		Email: claims.Email,
		Name:  claims.Name,
	}
	if claims.Kind == model.IdentityMember {
		identity.Member = &model.MemberContext{Tier: claims.Tier, MembershipID: claims.MembershipID}
	}
	return identity, nil
}
