package model

import "time"

const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
	TierDiamond  = "Diamond"

	PendingAwaitingConfirmation = "AwaitingExternalConfirmation"
	PendingCompleted            = "Completed"
)

type Member struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	PasswordHash  string    `json:"-" bson:"password_hash"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Tier          string    `json:"tier" bson:"tier"`
	MembershipID  string    `json:"membershipId" bson:"membership_id"`
	Points        int       `json:"points" bson:"points"`
	PaymentMethod string    `json:"paymentMethod,omitempty" bson:"payment_method,omitempty"`
	PaymentID     string    `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

type MemberRegisterRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Password      string `json:"password" validate:"required,min=6,max=72"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Tier          string `json:"tier" validate:"required,membership_tier"`
	PaymentMethod string `json:"paymentMethod,omitempty" validate:"omitempty,max=50"`
}

// MemberDraft is a member that has not been persisted yet. The password is
// already hashed.
type MemberDraft struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	PasswordHash  string `json:"passwordHash"`
	Phone         string `json:"phone,omitempty"`
	Tier          string `json:"tier"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

type PendingRegistration struct {
	ID        string      `json:"id"`
	Draft     MemberDraft `json:"draft"`
	State     string      `json:"state"`
	MemberID  string      `json:"memberId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type PendingConfirmRequest struct {
	StagingToken string `json:"stagingToken" validate:"required"`
	PaymentID    string `json:"paymentId" validate:"required,max=200"`
	Status       string `json:"status" validate:"required"`
}

func (m *Member) Context() *MemberContext {
	return &MemberContext{Tier: m.Tier, MembershipID: m.MembershipID}
}

func (m *Member) Profile() *Profile {
	return &Profile{
		ID:           m.ID,
		Kind:         IdentityMember,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Tier:         m.Tier,
		MembershipID: m.MembershipID,
		CreatedAt:    m.CreatedAt,
	}
}

func (m *Member) Identity() *Identity {
	return &Identity{ID: m.ID, Kind: IdentityMember, Email: m.Email, Name: m.Name, Member: m.Context()}
}
