package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	memberserrors "concierge/internal/members/errors"
	"concierge/pkg/config"
	mongotx "concierge/pkg/db/mongo"
	"concierge/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Members"

	MembershipIDPrefix = "EM-"

	// maxIDAttempts bounds retries when a generated membership id collides.
	maxIDAttempts = 5
)

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id string) (*model.Member, error)
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
	FindByMembershipID(ctx context.Context, membershipID string) (*model.Member, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

type mongoMemberRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	newID      func() string
}

func NewMongoMemberRepository(cfg *config.Config) MemberRepository {
	return &mongoMemberRepository{
		cfg:        cfg,
		collection: cfg.MongoDatabase().Collection(CollectionName),
		newID:      NewMembershipID,
	}
}

// NewMembershipID returns EM- followed by eight uppercase hex characters.
func NewMembershipID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return MembershipIDPrefix + strings.ToUpper(raw[:8])
}

// Create assigns a fresh membership id and inserts the member. A collision on
// the membership id index is retried with a new id. A collision on email is
// reported as ErrEmailTaken.
func (r *mongoMemberRepository) Create(ctx context.Context, member *model.Member) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	member.ID = ""
	member.Points = 0
	member.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		member.MembershipID = r.newID()

		result, err := r.collection.InsertOne(ctx, member)
		if err == nil {
			member.ID = mongotx.InsertedHex(result)
			return nil
		}
		if !mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("failed to create member: %w", err)
		}
		if strings.Contains(err.Error(), "email") {
			return fmt.Errorf("%w: %s", memberserrors.ErrEmailTaken, member.Email)
		}
	}
	return memberserrors.ErrMembershipIDTaken
}

func (r *mongoMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	objectID, err := mongotx.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", memberserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, id)
}

func (r *mongoMemberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *mongoMemberRepository) FindByMembershipID(ctx context.Context, membershipID string) (*model.Member, error) {
	return r.findOne(ctx, bson.M{"membership_id": membershipID}, membershipID)
}

func (r *mongoMemberRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := mongotx.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", memberserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"password_hash": passwordHash}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", memberserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoMemberRepository) findOne(ctx context.Context, filter bson.M, key string) (*model.Member, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var member model.Member
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", memberserrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return &member, nil
}
