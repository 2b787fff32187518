package model

import "time"

const (
	IdentityUser   = "user"
	IdentityMember = "member"
)

// Identity is the authenticated principal attached to a request. Member is
// set only for exclusive members.
type Identity struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	Email  string         `json:"email"`
	Name   string         `json:"name"`
	Member *MemberContext `json:"member,omitempty"`
}

func (i *Identity) IsMember() bool {
	return i != nil && i.Kind == IdentityMember
}

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// LoginRequest covers both login shapes: email for regular users,
// membershipId plus isExclusive for members.
type LoginRequest struct {
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	MembershipID string `json:"membershipId,omitempty" validate:"omitempty,membership_id"`
	Password     string `json:"password" validate:"required"`
	IsExclusive  bool   `json:"isExclusive,omitempty"`
}

type Profile struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Tier         string    `json:"tier,omitempty"`
	MembershipID string    `json:"membershipId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Kind:      IdentityUser,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Kind: IdentityUser, Email: u.Email, Name: u.Name}
}
