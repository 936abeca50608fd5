package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

const MentorsCollection = "mentors"

type MentorRepository struct {
	coll   *mongo.Collection
	hasher *utils.PasswordHasher
}

func NewMentorRepository(db *mongo.Database, hasher *utils.PasswordHasher) *MentorRepository {
	return &MentorRepository{coll: db.Collection(MentorsCollection), hasher: hasher}
}

// FindByAnyEmail returns the first mentor owning any of emails in either
// address field.
func (r *MentorRepository) FindByAnyEmail(ctx context.Context, emails ...string) (*models.Mentor, error) {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = models.NormalizeEmail(e); e != "" {
			normalized = append(normalized, e)
		}
	}
	if len(normalized) == 0 {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"emails.personal": bson.M{"$in": normalized}},
		bson.M{"emails.college": bson.M{"$in": normalized}},
	}})
}

func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MentorRepository) findOne(ctx context.Context, filter bson.M) (*models.Mentor, error) {
	var mentor models.Mentor
	if err := r.coll.FindOne(ctx, filter).Decode(&mentor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mentor, nil
}

func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if err := r.hasher.Seal(mentor); err != nil {
		return err
	}
	now := time.Now().UTC()
	mentor.ID = primitive.NewObjectID()
	mentor.CreatedAt = now
	mentor.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, mentor); err != nil {
		return translateWriteError(err)
	}
	return nil
}

// UpdateStatus sets the vetting status and returns the updated record.
// Last write wins; repeating a status still writes.
func (r *MentorRepository) UpdateStatus(ctx context.Context, id string, status models.MentorStatus) (*models.Mentor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mentor models.Mentor
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mentor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &mentor, nil
}

// List returns every mentor, newest first.
func (r *MentorRepository) List(ctx context.Context) ([]models.Mentor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	mentors := make([]models.Mentor, 0)
	if err := cursor.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}
